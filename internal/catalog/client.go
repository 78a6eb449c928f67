// Package catalog talks to the product/remedy catalog HTTP API and holds the
// selection and browse state the listing screens keep on top of it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/remedia/internal/logging"
	"github.com/Makepad-fr/remedia/internal/model"
)

// APIError is a non-success response. Message is the server's own message
// when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog: %s (status %d)", e.Message, e.Status)
}

const defaultAPIMessage = "API request failed"

// Query narrows a listing. Zero values are left out of the request.
type Query struct {
	Search    string
	Category  string
	Symptoms  []string
	SortBy    string
	SortOrder string
	Page      int
}

// Values encodes q plus the language tag the way the catalog expects.
func (q Query) Values(language string) url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("search", strings.TrimSpace(q.Search))
	if q.Category != "all" {
		set("category", q.Category)
	}
	set("symptoms", strings.Join(q.Symptoms, ","))
	set("sortBy", q.SortBy)
	set("sortOrder", q.SortOrder)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	set("language", language)
	return v
}

// Options configure a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	// Token, when non-empty, is sent as a bearer token.
	Token string
	// Language returns the current UI language for listing requests.
	Language func() string
	Log      *zap.Logger
}

// Client is a thin typed wrapper over the catalog endpoints.
type Client struct {
	base     string
	http     *http.Client
	token    string
	language func() string
	log      *zap.Logger
}

func New(opt Options) *Client {
	hc := opt.HTTPClient
	if hc == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	lang := opt.Language
	if lang == nil {
		lang = func() string { return "en" }
	}
	return &Client{
		base:     strings.TrimRight(opt.BaseURL, "/"),
		http:     hc,
		token:    opt.Token,
		language: lang,
		log:      logging.OrNop(opt.Log),
	}
}

func family(k model.Kind) (string, error) {
	switch k {
	case model.KindProduct:
		return "/products", nil
	case model.KindRemedy:
		return "/remedies", nil
	}
	return "", fmt.Errorf("unknown catalog kind %q", k)
}

// List fetches one listing page.
func (c *Client) List(ctx context.Context, k model.Kind, q Query) (model.Page, error) {
	fam, err := family(k)
	if err != nil {
		return model.Page{}, err
	}
	var raw struct {
		Products   []model.CatalogItem `json:"products"`
		Remedies   []model.CatalogItem `json:"remedies"`
		Pagination model.Pagination    `json:"pagination"`
	}
	if err := c.get(ctx, fam+"?"+q.Values(c.language()).Encode(), &raw); err != nil {
		return model.Page{}, err
	}
	items := raw.Products
	if k == model.KindRemedy && len(raw.Remedies) > 0 {
		items = raw.Remedies
	}
	if items == nil {
		items = []model.CatalogItem{}
	}
	return model.Page{Items: items, Pagination: raw.Pagination}, nil
}

// Get fetches a single record.
func (c *Client) Get(ctx context.Context, k model.Kind, id string) (model.CatalogItem, error) {
	fam, err := family(k)
	if err != nil {
		return model.CatalogItem{}, err
	}
	var out model.CatalogItem
	err = c.get(ctx, fam+"/"+url.PathEscape(id), &out)
	return out, err
}

// Symptoms lists every symptom tag of a family.
func (c *Client) Symptoms(ctx context.Context, k model.Kind) ([]string, error) {
	return c.stringList(ctx, k, "/symptoms/all")
}

// Categories lists every category of a family.
func (c *Client) Categories(ctx context.Context, k model.Kind) ([]string, error) {
	return c.stringList(ctx, k, "/categories/all")
}

func (c *Client) stringList(ctx context.Context, k model.Kind, suffix string) ([]string, error) {
	fam, err := family(k)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := c.get(ctx, fam+suffix, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterOptions holds the choices a listing screen offers.
type FilterOptions struct {
	Symptoms   []string
	Categories []string
}

// FilterOptions fetches symptoms and categories concurrently.
func (c *Client) FilterOptions(ctx context.Context, k model.Kind) (FilterOptions, error) {
	var fo FilterOptions
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := c.Symptoms(gctx, k)
		fo.Symptoms = s
		return err
	})
	g.Go(func() error {
		cats, err := c.Categories(gctx, k)
		fo.Categories = cats
		return err
	})
	if err := g.Wait(); err != nil {
		return FilterOptions{}, err
	}
	return fo, nil
}

// Health pings the catalog.
func (c *Client) Health(ctx context.Context) error {
	var discard json.RawMessage
	return c.get(ctx, "/health", &discard)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("catalog request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	c.log.Debug("catalog request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: defaultAPIMessage}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		}
		c.log.Warn("catalog error response", zap.String("path", path), zap.Int("status", resp.StatusCode), zap.String("message", apiErr.Message))
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the catalog.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
