package model

import "strings"

// Kind tags a cart line with the catalog family it came from.
type Kind string

const (
	KindProduct Kind = "product"
	KindRemedy  Kind = "remedy"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindProduct || k == KindRemedy
}

// ParseKind accepts singular or plural spellings ("product", "products").
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "product", "products":
		return KindProduct, true
	case "remedy", "remedies":
		return KindRemedy, true
	}
	return "", false
}

// CatalogItem is a record as served by the catalog API. Products and remedies
// share one shape; fields that don't apply to a family are left empty.
type CatalogItem struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"reviewCount,omitempty"`
	InStock     *bool   `json:"inStock,omitempty"`

	// product fields
	Dosage            string   `json:"dosage,omitempty"`
	Symptoms          []string `json:"symptoms,omitempty"`
	SideEffects       []string `json:"sideEffects,omitempty"`
	Contraindications []string `json:"contraindications,omitempty"`

	// remedy fields
	Ingredients        string `json:"ingredients,omitempty"`
	Procedure          string `json:"procedure,omitempty"`
	Application        string `json:"application,omitempty"`
	Duration           string `json:"duration,omitempty"`
	Precautions        string `json:"precautions,omitempty"`
	ModificationIfAny  string `json:"modificationIfAny,omitempty"`
	PrescribedAgeGroup string `json:"prescribedAgeGroup,omitempty"`
}

// Available treats a missing inStock flag as in stock, matching the catalog default.
func (c CatalogItem) Available() bool {
	return c.InStock == nil || *c.InStock
}

// CartItem is a catalog entry annotated with the kind it was added as.
// Stored as-is in the persisted cart array.
type CartItem struct {
	CatalogItem
	Type Kind `json:"type"`
}

// NewCartItem tags a catalog record with its kind.
func NewCartItem(c CatalogItem, k Kind) CartItem {
	return CartItem{CatalogItem: c, Type: k}
}

// Pagination mirrors the catalog API pagination block.
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalProducts int  `json:"totalProducts"`
	HasNextPage   bool `json:"hasNextPage"`
	HasPrevPage   bool `json:"hasPrevPage"`
}

// Page is one listing page from the catalog.
type Page struct {
	Items      []CatalogItem
	Pagination Pagination
}
