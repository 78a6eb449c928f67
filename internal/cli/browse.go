package cli

import (
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/remedia/internal/tui"
)

func (a *app) browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive storefront",
		Args:  wrapArgs(cobra.NoArgs),
		RunE:  a.runBrowse,
	}
}

func (a *app) runBrowse(cmd *cobra.Command, _ []string) error {
	d := tui.Deps{
		Cart:    a.cart,
		Catalog: a.catalog,
		KV:      a.kv,
		Log:     a.log,
		Timeout: a.cfg.CatalogTimeout(),
		Mono:    a.cfg.UI.Theme == "mono",
	}
	return tui.Run(cmd.Context(), d, a.kvPath, a.cfg.WatchDebounce())
}
