package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/okrdesk/okrdesk/internal/config"
	"github.com/okrdesk/okrdesk/internal/guard"
	"github.com/okrdesk/okrdesk/internal/route"
	"github.com/okrdesk/okrdesk/internal/service"
	"github.com/okrdesk/okrdesk/internal/session"
	"github.com/spf13/cobra"
)

// ErrLoginRequired is returned by commands that need a session when none
// is stored.
var ErrLoginRequired = errors.New("not logged in: run 'okrdesk auth login' first")

// annotationPublic marks commands that run without a session.
const annotationPublic = "okrdesk/public"

// App holds everything the commands and the TUI use.
type App struct {
	Config config.Config

	Session   *session.Store
	Guard     *guard.Guard
	Companies service.CompanyService
	Roles     service.RoleService
	Members   service.MemberService
	Teams     service.TeamService
	OKRs      service.OKRService
	CheckIns  service.CheckInService
	Stats     service.StatsService

	// IsInteractive is true when stdin and stdout are terminals. The bare
	// root command starts the TUI only then.
	IsInteractive bool

	// Connect wires the fields above once flags are parsed. It is nil when
	// the App arrives pre-wired, as in tests.
	Connect func(ctx context.Context, cfg config.Config, opts ConnectOptions) error
}

// ConnectOptions carries flag values that are not part of Config.
type ConnectOptions struct {
	Verbose bool
	TUI     bool
}

type globalFlags struct {
	configPath string
	apiURL     string
	dbPath     string
	verbose    bool
}

// NewRootCmd creates the top-level "okrdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "okrdesk",
		Short:         "Terminal client for OKR management",
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationPublic: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.connect(cmd, flags); err != nil {
				return err
			}
			if isPublic(cmd) || app.Session.IsAuthenticated() {
				return nil
			}
			return ErrLoginRequired
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsInteractive {
				return cmd.Help()
			}
			return runTUI(app, route.ToCompanies())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default ~/.okrdesk/config.yaml)")
	pf.StringVar(&flags.apiURL, "api-url", "", "API base URL, e.g. http://localhost:5000/api")
	pf.StringVar(&flags.dbPath, "db", "", "Client state database path")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log API calls and use cases to stderr")

	root.AddCommand(
		newAuthCmd(app),
		newCompanyCmd(app),
		newRoleCmd(app),
		newMemberCmd(app),
		newTeamCmd(app),
		newOKRCmd(app),
		newCheckInCmd(app),
		newStatsCmd(app),
		newTUICmd(app),
	)

	return root
}

// connect resolves configuration and wires the App on first use. Commands
// run from the TUI command bar find it already connected.
func (app *App) connect(cmd *cobra.Command, flags globalFlags) error {
	if app.Connect == nil || app.Session != nil {
		return nil
	}
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.apiURL != "" {
		cfg.APIURL = flags.apiURL
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.Config = cfg

	tui := cmd == cmd.Root() || cmd.Name() == "tui"
	if err := app.Connect(cmd.Context(), cfg, ConnectOptions{Verbose: flags.verbose, TUI: tui}); err != nil {
		return fmt.Errorf("starting okrdesk: %w", err)
	}
	return nil
}

// isPublic reports whether cmd or one of its groups is marked public. The
// root's own mark does not extend to its children.
func isPublic(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationPublic] == "true" {
		return true
	}
	for c := cmd; c != nil && c != cmd.Root(); c = c.Parent() {
		switch {
		case c.Annotations[annotationPublic] == "true":
			return true
		case c.Name() == "help", c.Name() == "completion":
			return true
		}
	}
	return false
}

func public(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationPublic] = "true"
	return cmd
}

// requireCreator applies the settings gate to a CLI mutation.
func requireCreator(ctx context.Context, app *App, companyID string) error {
	return app.Guard.RequireCreator(ctx, companyID).Err()
}
