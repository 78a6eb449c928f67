package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/checkout"
	"github.com/Makepad-fr/remedia/internal/export"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/ui"
)

var stepLabels = []string{"cart", "payment", "address", "remedies"}

func stepIndex(s checkout.State) int {
	switch s {
	case checkout.CartReview:
		return 0
	case checkout.PaymentConfirm:
		return 1
	case checkout.AddressCollect:
		return 2
	case checkout.RemedySummary:
		return 3
	}
	return len(stepLabels)
}

func (a *app) checkoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Walk through checkout one step at a time",
		Long: `Checkout runs cart -> payment -> address (when the cart has products)
-> remedies (when it has remedies). Each step is its own command; progress
is kept in the data dir between them.`,
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where checkout stands",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			f := a.flow()
			fmt.Fprintln(ui.Out, ui.StepBar(stepLabels, stepIndex(f.State())))
			return nil
		},
	}

	buyAll := &cobra.Command{
		Use:   "buy-all",
		Short: "Start checkout for the whole cart",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			f := a.flow()
			f.Reset()
			if _, err := f.BuyAll(); err != nil {
				if errors.Is(err, checkout.ErrEmptyCart) {
					ui.Hint("add something with `remedia cart add <kind> <id>`")
				}
				return err
			}
			if err := checkout.Persist(a.kv, f); err != nil {
				return err
			}
			a.printPayment(f)
			return nil
		},
	}

	paid := &cobra.Command{
		Use:   "paid",
		Short: "Confirm the payment",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			f := a.flow()
			single := f.Single()
			st, err := f.Paid()
			if err != nil {
				return notAtStep(err, "payment")
			}
			switch st {
			case checkout.DetailReturn:
				ui.OK("payment confirmed for " + single.Name)
			case checkout.AddressCollect:
				ui.OK("payment confirmed")
				fmt.Fprintln(ui.Out, ui.StepBar(stepLabels, stepIndex(st)))
				ui.Hint("next: `remedia checkout address --name ... --address ... --email ...`")
			case checkout.RemedySummary:
				ui.OK("payment confirmed")
				fmt.Fprintln(ui.Out, ui.StepBar(stepLabels, stepIndex(st)))
				ui.Hint("next: `remedia checkout summary --out remedies.docx`")
			}
			return checkout.Persist(a.kv, f)
		},
	}

	var form checkout.Address
	address := &cobra.Command{
		Use:   "address",
		Short: "Submit the shipping address",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			f := a.flow()
			st, conf, err := f.SubmitAddress(form)
			if err != nil {
				var fe *checkout.FormError
				if errors.As(err, &fe) {
					return usagef("address: missing %v", fe.Missing)
				}
				return notAtStep(err, "address")
			}
			ui.OK("Confirmation email sent to " + conf.Email)
			fmt.Fprintln(ui.Out, ui.C(ui.Current().Muted, fmt.Sprintf("order %s · %d product(s) shipping", conf.OrderID, len(conf.Shipped))))
			if st == checkout.RemedySummary {
				ui.Hint("next: `remedia checkout summary --out remedies.docx`")
			}
			return checkout.Persist(a.kv, f)
		},
	}
	address.Flags().StringVar(&form.Name, "name", "", "recipient name")
	address.Flags().StringVar(&form.Address, "address", "", "shipping address")
	address.Flags().StringVar(&form.Email, "email", "", "email for the confirmation")

	var out string
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show the purchased remedies and optionally save them as .docx",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			f := a.flow()
			remedies, err := f.EnterSummary()
			if err != nil {
				return notAtStep(err, "remedies")
			}
			if err := checkout.Persist(a.kv, f); err != nil {
				return err
			}
			fmt.Fprintln(ui.Out, a.renderMarkdown(export.Markdown(remedies)))
			if out != "" {
				data, err := export.Docx(remedies)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
				ui.OK("saved " + out)
			}
			ui.Warn("finish with `remedia checkout done`; the remedies are not shown again after that")
			return nil
		},
	}
	summary.Flags().StringVarP(&out, "out", "o", "", "write the remedies document here (e.g. "+export.DocxFileName+")")

	done := &cobra.Command{
		Use:   "done",
		Short: "Leave the remedies summary",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			f := a.flow()
			if _, err := f.Finish(); err != nil {
				return notAtStep(err, "remedies")
			}
			if err := checkout.Persist(a.kv, f); err != nil {
				return err
			}
			ui.OK("checkout finished")
			return nil
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel",
		Short: "Abandon the checkout in progress",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			f := a.flow()
			f.Reset()
			if err := checkout.Persist(a.kv, f); err != nil {
				return err
			}
			ui.OK("checkout cancelled")
			return nil
		},
	}

	cmd.AddCommand(status, buyAll, paid, address, summary, done, cancel)
	return cmd
}

func (a *app) flow() *checkout.Flow {
	return checkout.Resume(a.cart, a.kv, a.log)
}

func notAtStep(err error, step string) error {
	if errors.Is(err, checkout.ErrInvalidTransition) {
		ui.Hint("run `remedia checkout status` to see the current step")
		return fmt.Errorf("checkout is not at the %s step: %w", step, err)
	}
	return err
}

func (a *app) printPayment(f *checkout.Flow) {
	t := ui.Current()
	var items []model.CartItem
	if s := f.Single(); s != nil {
		items = []model.CartItem{*s}
	} else {
		items = a.cart.Load()
	}
	lines := []string{ui.StepBar(stepLabels, stepIndex(f.State())), ""}
	for _, it := range items {
		lines = append(lines, ui.Columns(
			[]string{ui.KindSymbol(string(it.Type)), it.Name, ui.C(t.Price, cart.FormatMoney(it.Price))},
			[]int{1, 40, 10},
		))
	}
	lines = append(lines,
		"",
		ui.C(t.Title, "Amount due ")+ui.C(t.Price, cart.FormatMoney(cart.Total(items))),
		ui.C(t.Muted, "Confirm with `remedia checkout paid` once paid."),
	)
	ui.Panel(lines)
}

func (a *app) renderMarkdown(md string) string {
	style := "dark"
	if a.cfg.UI.Theme == "mono" {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
