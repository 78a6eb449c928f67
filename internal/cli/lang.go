package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/remedia/internal/language"
	"github.com/Makepad-fr/remedia/internal/ui"
)

func (a *app) langCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang [" + strings.Join(language.Supported, "|") + "]",
		Short: "Show or set the catalog language",
		Args:  wrapArgs(cobra.MaximumNArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(ui.Out, language.Get(a.kv))
				return nil
			}
			if err := language.Set(a.kv, args[0]); err != nil {
				return &usageError{err}
			}
			ui.OK("language set to " + language.Get(a.kv))
			return nil
		},
	}
}
