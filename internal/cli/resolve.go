package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okrdesk/okrdesk/internal/api"
	"github.com/okrdesk/okrdesk/internal/domain"
	"github.com/okrdesk/okrdesk/internal/progress"
	"gopkg.in/yaml.v3"
)

// resolveCompanyID turns a company id or (fuzzy) name into an id.
func resolveCompanyID(ctx context.Context, app *App, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", errors.New("--company is required")
	}
	c, err := app.Companies.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// resolveUserID accepts a user id or an exact email address.
func resolveUserID(ctx context.Context, app *App, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("--user is required")
	}
	if !strings.Contains(ref, "@") {
		return ref, nil
	}
	users, err := app.Members.Search(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("looking up %s: %w", ref, err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, ref) {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("no user with email %q", ref)
}

// companyOfTeam returns the company a team belongs to.
func companyOfTeam(ctx context.Context, app *App, teamID string) (string, error) {
	t, err := app.Teams.Get(ctx, teamID)
	if err != nil {
		return "", err
	}
	return t.CompanyID, nil
}

// parseKeyResultSpec parses title:start:target[:unit[:metric[:team|team]]].
func parseKeyResultSpec(spec string) (api.KeyResultInput, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return api.KeyResultInput{}, fmt.Errorf("key result %q: want title:start:target[:unit[:metric[:teams]]]", spec)
	}
	kr := api.KeyResultInput{Title: strings.TrimSpace(parts[0]), MetricType: domain.MetricNumber}

	var err error
	if kr.StartValue, err = progress.ParseValue("start", parts[1]); err != nil {
		return kr, fmt.Errorf("key result %q: %w", spec, err)
	}
	if kr.TargetValue, err = progress.ParseValue("target", parts[2]); err != nil {
		return kr, fmt.Errorf("key result %q: %w", spec, err)
	}
	if len(parts) > 3 {
		kr.Unit = strings.TrimSpace(parts[3])
	}
	if len(parts) > 4 && strings.TrimSpace(parts[4]) != "" {
		m := strings.ToLower(strings.TrimSpace(parts[4]))
		if !domain.ValidMetricTypes[m] {
			return kr, fmt.Errorf("key result %q: unknown metric type %q", spec, m)
		}
		kr.MetricType = domain.MetricType(m)
	}
	if len(parts) > 5 {
		kr.Teams = splitList(parts[5], "|")
	}
	return kr, nil
}

// parseSetFlags parses index=value pairs from --set.
func parseSetFlags(sets []string) (map[int]float64, error) {
	out := make(map[int]float64, len(sets))
	for _, s := range sets {
		idx, val, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want index=value", s)
		}
		i, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil {
			return nil, fmt.Errorf("--set %q: index: %w", s, err)
		}
		v, err := progress.ParseValue("value", val)
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// loadObjectiveFile reads an objective definition from YAML:
//
//	objective: Grow revenue
//	deadline: 2026-12-31
//	keyResults:
//	  - title: ARR
//	    metricType: currency
//	    targetValue: 1000000
func loadObjectiveFile(path string) (api.ObjectiveInput, error) {
	var in api.ObjectiveInput
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i, kr := range in.KeyResults {
		if !isFinite(kr.StartValue) || !isFinite(kr.TargetValue) {
			return in, fmt.Errorf("%s: key result #%d: %w", path, i,
				&progress.ValidationError{Field: "value", Message: "start and target must be finite numbers"})
		}
	}
	return in, nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func splitList(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
