package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/catalog"
	"github.com/Makepad-fr/remedia/internal/export"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/ui"
)

func (a *app) catalogCmd(use string, kind model.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: "Browse the " + use + " catalog",
	}

	var (
		q        catalog.Query
		symptoms string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of " + use,
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			q.Symptoms = splitList(symptoms)
			return a.doList(cmd, kind, q)
		},
	}
	list.Flags().StringVarP(&q.Search, "search", "s", "", "search text")
	list.Flags().StringVarP(&q.Category, "category", "c", "", "category (all for every category)")
	list.Flags().StringVar(&symptoms, "symptoms", "", "comma-separated symptom tags")
	list.Flags().StringVar(&q.SortBy, "sort-by", "", "sort field, e.g. price or rating")
	list.Flags().StringVar(&q.SortOrder, "order", "", "asc or desc")
	list.Flags().IntVarP(&q.Page, "page", "p", 1, "page number")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry",
		Args:  wrapArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.doShow(cmd, kind, args[0])
		},
	}

	symptomsCmd := &cobra.Command{
		Use:   "symptoms",
		Short: "List symptom tags",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			tags, err := a.catalog.Symptoms(ctx, kind)
			if err != nil {
				return err
			}
			printTags("Symptoms", tags)
			return nil
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			cats, err := a.catalog.Categories(ctx, kind)
			if err != nil {
				return err
			}
			printTags("Categories", cats)
			return nil
		},
	}

	cmd.AddCommand(list, show, symptomsCmd, categories)
	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *app) doList(cmd *cobra.Command, kind model.Kind, q catalog.Query) error {
	if q.Page < 1 {
		return usagef("page must be 1 or more, got %d", q.Page)
	}
	ctx, cancel := a.ctx(cmd)
	defer cancel()
	page, err := a.catalog.List(ctx, kind, q)
	if err != nil {
		return err
	}
	// remember the page so `buy --next/--prev` can step through it
	if err := catalog.NewBrowse(a.kv).Record(page.Items, -1); err != nil {
		return err
	}

	t := ui.Current()
	in := a.cart.Load()
	inCart := make(map[string]bool, len(in))
	for _, it := range in {
		inCart[it.ID] = true
	}

	pg := page.Pagination
	lines := []string{
		fmt.Sprintf("%s  %s",
			ui.C(t.Title, strings.ToUpper(string(kind[:1]))+string(kind[1:])+"s"),
			ui.C(t.Muted, fmt.Sprintf("page %d/%d · %d total", pg.CurrentPage, pg.TotalPages, pg.TotalProducts))),
		"",
	}
	if len(page.Items) == 0 {
		lines = append(lines, ui.C(t.Muted, "no matches"))
	}
	for _, it := range page.Items {
		box := t.BoxUnchecked
		if inCart[it.ID] {
			box = ui.C(t.Success, t.BoxChecked)
		}
		name := it.Name
		if !it.Available() {
			name += ui.C(t.Muted, " (out of stock)")
		}
		lines = append(lines, ui.Columns(
			[]string{box, ui.KindSymbol(string(kind)), ui.C(t.Muted, it.ID), name, ui.C(t.Price, cart.FormatMoney(it.Price))},
			[]int{1, 1, 24, 40, 10},
		))
	}
	lines = append(lines, "")
	var nav []string
	if pg.HasPrevPage {
		nav = append(nav, fmt.Sprintf("--page %d for previous", pg.CurrentPage-1))
	}
	if pg.HasNextPage {
		nav = append(nav, fmt.Sprintf("--page %d for next", pg.CurrentPage+1))
	}
	if len(nav) > 0 {
		lines = append(lines, ui.C(t.Muted, strings.Join(nav, ", ")))
	}
	lines = append(lines, ui.C(t.Muted, fmt.Sprintf("Tip: add with `remedia cart add %s <id>`", kind)))
	ui.Panel(lines)
	return nil
}

func (a *app) doShow(cmd *cobra.Command, kind model.Kind, id string) error {
	ctx, cancel := a.ctx(cmd)
	defer cancel()
	it, err := a.catalog.Get(ctx, kind, id)
	if err != nil {
		if catalog.IsNotFound(err) {
			return fmt.Errorf("%s %s not found", kind, id)
		}
		return err
	}
	if err := catalog.NewBrowse(a.kv).Focus(it.ID); err != nil {
		return err
	}
	ui.Panel(detailLines(kind, it))
	return nil
}

func detailLines(kind model.Kind, it model.CatalogItem) []string {
	t := ui.Current()
	lines := []string{
		ui.C(t.Title, it.Name) + "  " + ui.C(t.Price, cart.FormatMoney(it.Price)),
		ui.C(t.Muted, it.ID),
	}
	var meta []string
	if it.Category != "" {
		meta = append(meta, it.Category)
	}
	if it.Rating > 0 {
		meta = append(meta, fmt.Sprintf("%.1f/5 (%d reviews)", it.Rating, it.ReviewCount))
	}
	if it.Available() {
		meta = append(meta, ui.C(t.Success, "in stock"))
	} else {
		meta = append(meta, ui.C(t.Error, "out of stock"))
	}
	lines = append(lines, strings.Join(meta, " · "))
	if it.Description != "" {
		lines = append(lines, "", it.Description)
	}
	lines = append(lines, "")
	if kind == model.KindRemedy {
		for _, f := range export.Fields(it) {
			lines = append(lines, ui.C(t.Accent, f.Label+":")+" "+f.Value)
		}
		return lines
	}
	add := func(label string, vals []string) {
		if len(vals) > 0 {
			lines = append(lines, ui.C(t.Accent, label+":")+" "+strings.Join(vals, ", "))
		}
	}
	add("Symptoms", it.Symptoms)
	if it.Dosage != "" {
		lines = append(lines, ui.C(t.Accent, "Dosage:")+" "+it.Dosage)
	}
	add("Side effects", it.SideEffects)
	add("Contraindications", it.Contraindications)
	return lines
}

func printTags(title string, tags []string) {
	t := ui.Current()
	lines := []string{ui.C(t.Title, title), ""}
	if len(tags) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	}
	for _, s := range tags {
		lines = append(lines, ui.C(t.Muted, "•")+" "+s)
	}
	ui.Panel(lines)
}
