package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/remedia/internal/catalog"
	"github.com/Makepad-fr/remedia/internal/checkout"
	"github.com/Makepad-fr/remedia/internal/model"
)

func (a *app) buyCmd() *cobra.Command {
	var prev, next bool
	cmd := &cobra.Command{
		Use:   "buy <product|remedy> <id>",
		Short: "Buy a single entry now, leaving the cart alone",
		Long: `Starts a one-item checkout. With --prev or --next the purchase moves to
the neighbouring entry of the last listing instead.`,
		Args: wrapArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if prev && next {
				return usagef("--prev and --next are mutually exclusive")
			}
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			item, err := a.pick(cmd, kind, args[1], prev, next)
			if err != nil {
				return err
			}
			f := a.flow()
			f.Reset()
			f.BuyNow(item, kind)
			if err := checkout.Persist(a.kv, f); err != nil {
				return err
			}
			a.printPayment(f)
			return nil
		},
	}
	cmd.Flags().BoolVar(&prev, "prev", false, "buy the entry before <id> in the last listing")
	cmd.Flags().BoolVar(&next, "next", false, "buy the entry after <id> in the last listing")
	return cmd
}

// pick resolves the entry to buy: id itself, or its neighbour in the
// recorded listing.
func (a *app) pick(cmd *cobra.Command, kind model.Kind, id string, prev, next bool) (model.CatalogItem, error) {
	if !prev && !next {
		ctx, cancel := a.ctx(cmd)
		defer cancel()
		it, err := a.catalog.Get(ctx, kind, id)
		if err != nil {
			if catalog.IsNotFound(err) {
				return model.CatalogItem{}, fmt.Errorf("%s %s not found", kind, id)
			}
			return model.CatalogItem{}, err
		}
		return it, nil
	}

	b := catalog.NewBrowse(a.kv)
	if b.IndexOf(id) < 0 {
		return model.CatalogItem{}, fmt.Errorf("%s is not in the last listing; run `remedia %ss list` first", id, kind)
	}
	if err := b.Focus(id); err != nil {
		return model.CatalogItem{}, err
	}
	var (
		it  model.CatalogItem
		ok  bool
		err error
	)
	if prev {
		it, ok, err = b.Prev()
	} else {
		it, ok, err = b.Next()
	}
	if err != nil {
		return model.CatalogItem{}, err
	}
	if !ok {
		dir := "after"
		if prev {
			dir = "before"
		}
		return model.CatalogItem{}, fmt.Errorf("nothing %s %s in the last listing", dir, id)
	}
	return it, nil
}
