package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
	"golang.org/x/sync/errgroup"
)

// ErrCompanyNotFound is returned by Resolve when nothing matches.
var ErrCompanyNotFound = errors.New("company not found")

// ErrAmbiguous is returned when a name matches more than one entity equally well.
var ErrAmbiguous = errors.New("ambiguous name")

// cardFetchLimit bounds concurrent company detail requests.
const cardFetchLimit = 8

type companyService struct {
	api      API
	observer UseCaseObserver
}

func NewCompanyService(client API, observers ...UseCaseObserver) CompanyService {
	return &companyService{api: client, observer: useCaseObserverOrNoop(observers)}
}

func (s *companyService) List(ctx context.Context) ([]domain.CompanySummary, error) {
	return s.api.ListCompanies(ctx)
}

func (s *companyService) Cards(ctx context.Context, session domain.Session) (cards []domain.CompanyCard, err error) {
	fields := map[string]any{}
	err = observe(ctx, s.observer, "company-cards", fields, func() error {
		summaries, err := s.api.ListCompanies(ctx)
		if err != nil {
			return err
		}
		fields["count"] = len(summaries)

		cards = make([]domain.CompanyCard, len(summaries))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cardFetchLimit)
		for i, sum := range summaries {
			g.Go(func() error {
				detail, err := s.api.GetCompany(gctx, sum.ID)
				if err != nil {
					return fmt.Errorf("loading company %s: %w", sum.ID, err)
				}
				cards[i] = domain.CompanyCard{
					ID:          sum.ID,
					Name:        sum.Name,
					Roles:       sum.Roles(),
					IsCreator:   domain.IsCreator(detail, session),
					MemberCount: len(detail.Users),
				}
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *companyService) Create(ctx context.Context, name string) (company *domain.Company, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &progress.ValidationError{Field: "name", Message: "name is required"}
	}
	err = observe(ctx, s.observer, "create-company", map[string]any{"name": name}, func() error {
		company, err = s.api.CreateCompany(ctx, name)
		return err
	})
	return company, err
}

func (s *companyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	return s.api.GetCompany(ctx, id)
}

func (s *companyService) Resolve(ctx context.Context, ref string) (*domain.CompanySummary, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrCompanyNotFound)
	}
	list, err := s.api.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == ref {
			return &list[i], nil
		}
	}
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = c.Name
	}
	idx, err := BestMatch(ref, names)
	if errors.Is(err, ErrNoMatch) {
		return nil, fmt.Errorf("%w: %q", ErrCompanyNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("company %q: %w", ref, err)
	}
	return &list[idx], nil
}
