package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle      key.Binding
	ToggleAll   key.Binding
	AddSelected key.Binding
	AddOne      key.Binding
	Open        key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	Kind        key.Binding
	Category    key.Binding
	Search      key.Binding
	Cart        key.Binding
	Lang        key.Binding

	Remove key.Binding
	Clear  key.Binding
	BuyAll key.Binding
	Export key.Binding

	BuyNow key.Binding
	Prev   key.Binding
	Next   key.Binding

	Pay       key.Binding
	Submit    key.Binding
	FocusNext key.Binding
	Download  key.Binding

	Back key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	ToggleAll:   key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "select page")),
	AddSelected: key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "add selected")),
	AddOne:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to cart")),
	Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	NextPage:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
	PrevPage:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev page")),
	Kind:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "products/remedies")),
	Category:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "category")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Cart:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cart")),
	Lang:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "language")),

	Remove: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
	Clear:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear")),
	BuyAll: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy all")),
	Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export xlsx")),

	BuyNow: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy now")),
	Prev:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous")),
	Next:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next")),

	Pay:       key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "I have paid")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	FocusNext: key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "next field")),
	Download:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download .docx")),

	Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) catalogHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.ToggleAll, k.AddSelected, k.AddOne, k.NextPage, k.PrevPage, k.Kind, k.Category, k.Search, k.Cart, k.Lang}
}

func (k keyMap) cartHelp() []key.Binding {
	return []key.Binding{k.Remove, k.Clear, k.BuyAll, k.Export, k.Back}
}
