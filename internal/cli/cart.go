package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/export"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/ui"
)

func parseKind(s string) (model.Kind, error) {
	k, ok := model.ParseKind(s)
	if !ok {
		return "", usagef("unknown kind %q (want product or remedy)", s)
	}
	return k, nil
}

func (a *app) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List cart contents",
		Args:    wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			a.printCart()
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <product|remedy> <id>...",
		Short: "Add catalog entries to the cart",
		Long: `Fetches each id from the catalog and adds it. Entries already in the
cart are skipped, so adding is safe to repeat.`,
		Args: wrapArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return a.doAdd(cmd, kind, args[1:])
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an entry",
		Args:  wrapArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			removed, err := a.cart.Remove(args[0])
			if err != nil {
				return err
			}
			if !removed {
				ui.Warn("not in cart: " + args[0])
				ui.Hint("run `remedia cart ls` to see what is in the cart")
				return nil
			}
			ui.OK("removed")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			if err := a.cart.Clear(); err != nil {
				return err
			}
			ui.OK("cart cleared")
			return nil
		},
	}

	total := &cobra.Command{
		Use:   "total",
		Short: "Print the cart total",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(ui.Out, cart.FormatMoney(cart.Total(a.cart.Load())))
			return nil
		},
	}

	var xlsxPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the cart to a spreadsheet",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			if strings.TrimSpace(xlsxPath) == "" {
				return usagef("export: --xlsx is required")
			}
			f, err := os.Create(xlsxPath)
			if err != nil {
				return err
			}
			if err := export.CartSheet(f, a.cart.Load()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			ui.OK("saved " + xlsxPath)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&xlsxPath, "xlsx", export.SheetFileName, "output file")

	cmd.AddCommand(ls, add, rm, clearCmd, total, exportCmd)
	return cmd
}

func (a *app) doAdd(cmd *cobra.Command, kind model.Kind, ids []string) error {
	ctx, cancel := a.ctx(cmd)
	defer cancel()

	items := make([]model.CatalogItem, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		g.Go(func() error {
			it, err := a.catalog.Get(gctx, kind, id)
			if err != nil {
				return fmt.Errorf("%s %s: %w", kind, id, err)
			}
			items[i] = it
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(items) == 1 {
		res, err := a.cart.Add(items[0], kind)
		if err != nil {
			return err
		}
		if !res.Added {
			ui.Warn(items[0].Name + " is already in your cart")
			return nil
		}
		ui.OK(items[0].Name + " added to cart")
		return nil
	}

	added, skipped, err := a.cart.AddMany(items, kind)
	if err != nil {
		return err
	}
	ui.OK(fmt.Sprintf("added %d, skipped %d already in cart", added, skipped))
	return nil
}

func (a *app) printCart() {
	t := ui.Current()
	items := a.cart.Load()
	lines := []string{
		fmt.Sprintf("%s  %s %d", ui.C(t.Title, "Cart"), ui.C(t.Accent, "Items"), len(items)),
		"",
	}
	if len(items) == 0 {
		lines = append(lines, ui.C(t.Muted, "your cart is empty"))
	}
	for i, it := range items {
		lines = append(lines, ui.Columns(
			[]string{fmt.Sprintf("%2d.", i+1), ui.KindSymbol(string(it.Type)), ui.C(t.Muted, it.ID), it.Name, ui.C(t.Price, cart.FormatMoney(it.Price))},
			[]int{3, 1, 24, 40, 10},
		))
	}
	lines = append(lines, "", ui.C(t.Title, "Total ")+ui.C(t.Price, cart.FormatMoney(cart.Total(items))))
	if len(items) > 0 {
		lines = append(lines, ui.C(t.Muted, "Tip: check out with `remedia checkout buy-all`"))
	}
	ui.Panel(lines)
}
