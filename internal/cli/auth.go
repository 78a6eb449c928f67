package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/remedia/internal/auth"
	"github.com/Makepad-fr/remedia/internal/ui"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the catalog API token",
		Long:  "Tokens are kept in the data dir, owner-readable only. " + auth.EnvToken + " overrides the saved token.",
	}

	var (
		token   string
		expires time.Duration
	)
	login := &cobra.Command{
		Use:   "login",
		Short: "Save a bearer token for the catalog API",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			if strings.TrimSpace(token) == "" {
				return usagef("login: --token is required")
			}
			var exp *time.Time
			if expires > 0 {
				t := time.Now().Add(expires)
				exp = &t
			}
			if err := a.keys.Set(token, exp); err != nil {
				return err
			}
			ui.OK("token saved")
			return nil
		},
	}
	login.Flags().StringVar(&token, "token", "", "bearer token")
	login.Flags().DurationVar(&expires, "expires-in", 0, "treat the token as expired after this long")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			if err := a.keys.Delete(); err != nil {
				return err
			}
			ui.OK("logged out")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the token in use and whether the catalog answers",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ti, err := a.keys.Get()
			if err != nil {
				return err
			}
			t := ui.Current()
			lines := []string{ui.C(t.Title, "Auth"), ""}
			switch {
			case ti == nil:
				lines = append(lines, ui.C(t.Muted, "not logged in"))
			case ti.Expired(time.Now()):
				lines = append(lines, ui.C(t.Error, "token expired ")+ui.C(t.Muted, "("+ti.Source+")"))
			default:
				lines = append(lines, fmt.Sprintf("token %s %s", mask(ti.Token), ui.C(t.Muted, "("+ti.Source+")")))
				if ti.ExpiresAt != nil {
					lines = append(lines, ui.C(t.Muted, "expires "+ti.ExpiresAt.Format(time.RFC3339)))
				}
			}

			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := a.catalog.Health(ctx); err != nil {
				lines = append(lines, ui.C(t.Error, "catalog unreachable: ")+err.Error())
			} else {
				lines = append(lines, ui.C(t.Success, "catalog reachable ")+ui.C(t.Muted, a.cfg.Catalog.BaseURL))
			}
			ui.Panel(lines)
			return nil
		},
	}

	cmd.AddCommand(login, logout, status)
	return cmd
}

// mask keeps the last four characters.
func mask(tok string) string {
	if len(tok) <= 4 {
		return strings.Repeat("*", len(tok))
	}
	return strings.Repeat("*", 8) + tok[len(tok)-4:]
}
