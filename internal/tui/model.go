// Package tui is the interactive storefront: catalog listing, cart and the
// checkout steps, built on Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/Makepad-fr/remedia/internal/cart"
	"github.com/Makepad-fr/remedia/internal/catalog"
	"github.com/Makepad-fr/remedia/internal/checkout"
	"github.com/Makepad-fr/remedia/internal/export"
	"github.com/Makepad-fr/remedia/internal/language"
	"github.com/Makepad-fr/remedia/internal/logging"
	"github.com/Makepad-fr/remedia/internal/model"
	"github.com/Makepad-fr/remedia/internal/store"
)

type screen int

const (
	screenCatalog screen = iota
	screenDetail
	screenCart
	screenPayment
	screenAddress
	screenSummary
)

const summaryWarning = "You will not be able to view this data again if you move away from the page."

// Deps is what the storefront runs against.
type Deps struct {
	Cart    *cart.Store
	Catalog *catalog.Client
	KV      store.Storage
	Log     *zap.Logger
	Timeout time.Duration
	// ExportDir receives downloaded files; empty means the working directory.
	ExportDir string
	// Mono renders markdown without colour.
	Mono bool
}

type pageMsg struct {
	kind model.Kind
	page model.Page
	err  error
}

type optionsMsg struct {
	kind model.Kind
	opts catalog.FilterOptions
	err  error
}

// storageChangedMsg arrives when another process rewrote the storage file.
type storageChangedMsg struct{}

type Model struct {
	ctx    context.Context
	d      Deps
	log    *zap.Logger
	flow   *checkout.Flow
	badge  *cart.Badge
	browse *catalog.Browse
	sel    *catalog.Selection
	help   help.Model

	screen screen
	kind   model.Kind
	query  catalog.Query
	page   model.Page
	opts   catalog.FilterOptions
	catIdx int

	list     list.Model
	cartList list.Model
	spin     spinner.Model
	loading  bool

	searching bool
	search    textinput.Model

	form  []textinput.Model
	focus int

	detail   *model.CatalogItem
	remedies []model.CartItem
	summary  string

	status    string
	statusErr bool

	width, height int
}

// New builds the storefront model on the products listing.
func New(ctx context.Context, d Deps) Model {
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Second
	}
	log := logging.OrNop(d.Log)
	sel := catalog.NewSelection()

	l := list.New(nil, catalogDelegate{sel: sel}, 76, 16)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.AddSelected, keys.AddOne, keys.Cart}
	}
	l.AdditionalFullHelpKeys = keys.catalogHelp

	cl := list.New(nil, cartDelegate{}, 76, 14)
	cl.Title = "Cart"
	cl.SetShowHelp(true)
	cl.SetShowStatusBar(false)
	cl.SetFilteringEnabled(false)
	cl.KeyMap.Quit.SetEnabled(false)
	cl.Styles.Title = titleStyle
	cl.Styles.HelpStyle = helpStyle
	cl.AdditionalShortHelpKeys = keys.cartHelp
	cl.AdditionalFullHelpKeys = keys.cartHelp

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search..."
	search.CharLimit = 100

	form := make([]textinput.Model, 3)
	for i, ph := range []string{"Name", "Address", "Email"} {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = ph
		ti.CharLimit = 200
		form[i] = ti
	}

	c := d.Cart
	m := Model{
		ctx:      ctx,
		d:        d,
		log:      log,
		flow:     checkout.NewFlow(c, log),
		badge:    cart.NewBadge(c, nil),
		browse:   catalog.NewBrowse(d.KV),
		sel:      sel,
		help:     help.New(),
		kind:     model.KindProduct,
		query:    catalog.Query{Page: 1},
		list:     l,
		cartList: cl,
		spin:     sp,
		search:   search,
		form:     form,
		loading:  true,
		width:    80,
		height:   24,
	}
	m.list.Title = m.listTitle()
	m.refreshCart()
	return m
}

// Close releases the cart subscription. Call once the program has exited.
func (m Model) Close() {
	m.badge.Close()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.loadOptions())
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	ctx, c, kind, q, timeout := m.ctx, m.d.Catalog, m.kind, m.query, m.d.Timeout
	fetch := func() tea.Msg {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		p, err := c.List(cctx, kind, q)
		return pageMsg{kind: kind, page: p, err: err}
	}
	return tea.Batch(fetch, m.spin.Tick)
}

func (m Model) loadOptions() tea.Cmd {
	ctx, c, kind, timeout := m.ctx, m.d.Catalog, m.kind, m.d.Timeout
	return func() tea.Msg {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		opts, err := c.FilterOptions(cctx, kind)
		return optionsMsg{kind: kind, opts: opts, err: err}
	}
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(action string, err error) {
	m.log.Warn(action, zap.Error(err))
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		m.status = action + ": " + apiErr.Message
	} else {
		m.status = action + ": " + err.Error()
	}
	m.statusErr = true
}

func (m *Model) refreshCart() tea.Cmd {
	return m.cartList.SetItems(cartItems(m.d.Cart.Load()))
}

func (m Model) listTitle() string {
	title := "Products"
	if m.kind == model.KindRemedy {
		title = "Remedies"
	}
	var extra []string
	if m.query.Search != "" {
		extra = append(extra, fmt.Sprintf("search %q", m.query.Search))
	}
	if m.query.Category != "" && m.query.Category != "all" {
		extra = append(extra, m.query.Category)
	}
	if pg := m.page.Pagination; pg.TotalPages > 0 {
		extra = append(extra, fmt.Sprintf("page %d/%d", pg.CurrentPage, pg.TotalPages))
	}
	if len(extra) > 0 {
		title += " · " + strings.Join(extra, " · ")
	}
	return title
}

func (m Model) focused() (model.CatalogItem, bool) {
	e, ok := m.list.SelectedItem().(catalogEntry)
	if !ok {
		return model.CatalogItem{}, false
	}
	return e.item, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		m.cartList.SetSize(msg.Width-4, msg.Height-10)
		m.help.Width = msg.Width - 4
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case pageMsg:
		if msg.kind != m.kind {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.setError("load "+string(msg.kind)+"s", msg.err)
			return m, nil
		}
		m.page = msg.page
		m.list.Title = m.listTitle()
		return m, m.list.SetItems(catalogItems(msg.page.Items))

	case optionsMsg:
		if msg.kind != m.kind {
			return m, nil
		}
		if msg.err != nil {
			m.log.Warn("filter options", zap.Error(msg.err))
			return m, nil
		}
		m.opts = msg.opts
		return m, nil

	case storageChangedMsg:
		return m, m.refreshCart()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenCatalog:
			return m.updateCatalog(msg)
		case screenDetail:
			return m.updateDetail(msg)
		case screenCart:
			return m.updateCart(msg)
		case screenPayment:
			return m.updatePayment(msg)
		case screenAddress:
			return m.updateAddress(msg)
		case screenSummary:
			return m.updateSummary(msg)
		}
	}
	return m, nil
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.search.Blur()
			m.query.Search = strings.TrimSpace(m.search.Value())
			m.query.Page = 1
			return m, m.load()
		case "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Toggle):
		if it, ok := m.focused(); ok {
			m.sel.Toggle(it.ID)
		}
		return m, nil

	case key.Matches(msg, keys.ToggleAll):
		m.sel.ToggleAll(m.page.Items)
		return m, nil

	case key.Matches(msg, keys.AddSelected):
		if m.sel.Len() == 0 {
			m.setStatus("Nothing selected")
			return m, nil
		}
		added, skipped, err := m.sel.AddSelected(m.d.Cart, m.page.Items, m.kind)
		if err != nil {
			m.setError("add to cart", err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Added %d to cart, %d already there", added, skipped))
		return m, m.refreshCart()

	case key.Matches(msg, keys.AddOne):
		if it, ok := m.focused(); ok {
			m.addOne(it)
		}
		return m, m.refreshCart()

	case key.Matches(msg, keys.Open):
		it, ok := m.focused()
		if !ok {
			return m, nil
		}
		if err := m.browse.Record(m.page.Items, m.list.Index()); err != nil {
			m.log.Warn("record browse", zap.Error(err))
		}
		m.detail = &it
		m.screen = screenDetail
		return m, nil

	case key.Matches(msg, keys.NextPage):
		if !m.page.Pagination.HasNextPage {
			return m, nil
		}
		m.query.Page = m.page.Pagination.CurrentPage + 1
		return m, m.load()

	case key.Matches(msg, keys.PrevPage):
		if !m.page.Pagination.HasPrevPage {
			return m, nil
		}
		m.query.Page = m.page.Pagination.CurrentPage - 1
		return m, m.load()

	case key.Matches(msg, keys.Kind):
		if m.kind == model.KindProduct {
			m.kind = model.KindRemedy
		} else {
			m.kind = model.KindProduct
		}
		m.query = catalog.Query{Page: 1}
		m.opts = catalog.FilterOptions{}
		m.catIdx = 0
		m.sel.Clear()
		m.page = model.Page{}
		m.list.Title = m.listTitle()
		return m, tea.Batch(m.list.SetItems(nil), m.load(), m.loadOptions())

	case key.Matches(msg, keys.Category):
		cats := append([]string{"all"}, m.opts.Categories...)
		m.catIdx = (m.catIdx + 1) % len(cats)
		m.query.Category = cats[m.catIdx]
		m.query.Page = 1
		return m, m.load()

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(m.query.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, keys.Cart):
		m.screen = screenCart
		return m, m.refreshCart()

	case key.Matches(msg, keys.Lang):
		cur := language.Get(m.d.KV)
		next := language.Supported[0]
		for i, tag := range language.Supported {
			if tag == cur {
				next = language.Supported[(i+1)%len(language.Supported)]
			}
		}
		if err := language.Set(m.d.KV, next); err != nil {
			m.setError("language", err)
			return m, nil
		}
		m.setStatus("Language: " + next)
		return m, m.load()

	case key.Matches(msg, keys.Back):
		if m.query.Search == "" {
			return m, nil
		}
		m.query.Search = ""
		m.query.Page = 1
		return m, m.load()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) addOne(it model.CatalogItem) {
	res, err := m.d.Cart.Add(it, m.kind)
	switch {
	case err != nil:
		m.setError("add to cart", err)
	case res.Added:
		m.setStatus(it.Name + " added to cart")
	default:
		m.setStatus(it.Name + " is already in your cart")
	}
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		m.screen = screenCatalog
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		m.screen = screenCatalog
		return m, nil
	case key.Matches(msg, keys.AddOne):
		m.addOne(*m.detail)
		return m, m.refreshCart()
	case key.Matches(msg, keys.BuyNow):
		m.flow.Reset()
		m.flow.BuyNow(*m.detail, m.kind)
		m.screen = screenPayment
		return m, nil
	case key.Matches(msg, keys.Prev), key.Matches(msg, keys.Next):
		if it, ok := m.step(key.Matches(msg, keys.Prev)); ok {
			m.detail = &it
		}
		return m, nil
	}
	return m, nil
}

// step moves through the recorded listing.
func (m *Model) step(back bool) (model.CatalogItem, bool) {
	var (
		it  model.CatalogItem
		ok  bool
		err error
	)
	if back {
		it, ok, err = m.browse.Prev()
	} else {
		it, ok, err = m.browse.Next()
	}
	if err != nil {
		m.setError("browse", err)
		return model.CatalogItem{}, false
	}
	return it, ok
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		m.screen = screenCatalog
		return m, nil

	case key.Matches(msg, keys.Remove):
		e, ok := m.cartList.SelectedItem().(cartEntry)
		if !ok {
			return m, nil
		}
		if _, err := m.d.Cart.Remove(e.item.ID); err != nil {
			m.setError("remove", err)
			return m, nil
		}
		m.setStatus(e.item.Name + " removed")
		return m, m.refreshCart()

	case key.Matches(msg, keys.Clear):
		if err := m.d.Cart.Clear(); err != nil {
			m.setError("clear cart", err)
			return m, nil
		}
		m.setStatus("Cart cleared")
		return m, m.refreshCart()

	case key.Matches(msg, keys.BuyAll):
		m.flow.Reset()
		if _, err := m.flow.BuyAll(); err != nil {
			if errors.Is(err, checkout.ErrEmptyCart) {
				m.setStatus("Your cart is empty")
				return m, nil
			}
			m.setError("checkout", err)
			return m, nil
		}
		m.screen = screenPayment
		return m, nil

	case key.Matches(msg, keys.Export):
		path := filepath.Join(m.d.ExportDir, export.SheetFileName)
		if err := writeCartSheet(path, m.d.Cart.Load()); err != nil {
			m.setError("export", err)
			return m, nil
		}
		m.setStatus("Saved " + path)
		return m, nil
	}

	var cmd tea.Cmd
	m.cartList, cmd = m.cartList.Update(msg)
	return m, cmd
}

func writeCartSheet(path string, items []model.CartItem) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.CartSheet(f, items); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (m Model) updatePayment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	single := m.flow.Single()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Back):
		m.flow.Reset()
		if single != nil {
			m.screen = screenDetail
		} else {
			m.screen = screenCart
		}
		return m, nil

	case single != nil && (key.Matches(msg, keys.Prev) || key.Matches(msg, keys.Next)):
		if it, ok := m.step(key.Matches(msg, keys.Prev)); ok {
			m.detail = &it
			m.flow.BuyNow(it, single.Type)
		}
		return m, nil

	case key.Matches(msg, keys.Pay):
		st, err := m.flow.Paid()
		if err != nil {
			m.setError("payment", err)
			return m, nil
		}
		return m.route(st)
	}
	return m, nil
}

// route moves to the screen for a checkout state.
func (m Model) route(st checkout.State) (tea.Model, tea.Cmd) {
	switch st {
	case checkout.DetailReturn:
		if s := m.flow.Single(); s != nil {
			m.setStatus("Payment confirmed for " + s.Name)
		}
		m.flow.Reset()
		m.screen = screenDetail
		return m, nil
	case checkout.AddressCollect:
		m.screen = screenAddress
		m.focus = 0
		for i := range m.form {
			m.form[i].SetValue("")
			m.form[i].Blur()
		}
		return m, m.form[0].Focus()
	case checkout.RemedySummary:
		remedies, err := m.flow.EnterSummary()
		if err != nil {
			m.setError("remedies", err)
			return m, nil
		}
		m.remedies = remedies
		m.summary = m.renderMarkdown(export.Markdown(remedies))
		m.screen = screenSummary
		return m, m.refreshCart()
	case checkout.Terminal:
		m.flow.Reset()
		m.screen = screenCatalog
		return m, m.refreshCart()
	}
	return m, nil
}

func (m Model) updateAddress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenCatalog
		m.flow.Reset()
		m.setStatus("Checkout cancelled")
		return m, nil
	case "tab", "down":
		return m, m.focusField(m.focus + 1)
	case "shift+tab", "up":
		return m, m.focusField(m.focus - 1)
	case "enter":
		if m.focus < len(m.form)-1 {
			return m, m.focusField(m.focus + 1)
		}
		form := checkout.Address{
			Name:    m.form[0].Value(),
			Address: m.form[1].Value(),
			Email:   m.form[2].Value(),
		}
		st, conf, err := m.flow.SubmitAddress(form)
		if err != nil {
			var fe *checkout.FormError
			if errors.As(err, &fe) {
				m.status, m.statusErr = "Please fill in: "+strings.Join(fe.Missing, ", "), true
				return m, nil
			}
			m.setError("submit address", err)
			return m, nil
		}
		m.setStatus("Confirmation email sent to " + conf.Email)
		return m.route(st)
	}
	var cmd tea.Cmd
	m.form[m.focus], cmd = m.form[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	n := len(m.form)
	m.focus = ((i % n) + n) % n
	for j := range m.form {
		m.form[j].Blur()
	}
	return m.form[m.focus].Focus()
}

func (m Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Download):
		path := filepath.Join(m.d.ExportDir, export.DocxFileName)
		data, err := export.Docx(m.remedies)
		if err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		if err != nil {
			m.setError("download", err)
			return m, nil
		}
		m.setStatus("Saved " + path)
		return m, nil
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Back), msg.String() == "enter":
		if _, err := m.flow.Finish(); err != nil {
			m.log.Debug("leave summary", zap.Error(err))
		}
		m.flow.Reset()
		m.remedies, m.summary = nil, ""
		m.screen = screenCatalog
		return m, nil
	}
	return m, nil
}

func (m Model) renderMarkdown(md string) string {
	style := "dark"
	if m.d.Mono {
		style = "notty"
	}
	width := 80
	if m.width > 20 {
		width = m.width - 8
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
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
