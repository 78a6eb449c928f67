package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/remedia/internal/model"
)

// fakeCatalog stands in for the catalog API.
type fakeCatalog struct {
	mu      sync.Mutex
	queries []url.Values
	auth    []string
}

func (f *fakeCatalog) record(c *gin.Context) {
	f.mu.Lock()
	f.queries = append(f.queries, c.Request.URL.Query())
	f.auth = append(f.auth, c.GetHeader("Authorization"))
	f.mu.Unlock()
}

func (f *fakeCatalog) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func newFakeCatalog(t *testing.T) (*fakeCatalog, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fakeCatalog{}
	r := gin.New()

	r.GET("/products", func(c *gin.Context) {
		f.record(c)
		c.JSON(http.StatusOK, gin.H{
			"products": []gin.H{
				{"_id": "p1", "name": "Paracetamol", "price": 4.5, "dosage": "500mg", "symptoms": []string{"fever"}},
				{"_id": "p2", "name": "Ibuprofen", "price": 6},
			},
			"pagination": gin.H{"currentPage": 1, "totalPages": 3, "totalProducts": 25, "hasNextPage": true, "hasPrevPage": false},
		})
	})
	r.GET("/products/:id", func(c *gin.Context) {
		f.record(c)
		switch c.Param("id") {
		case "p1":
			c.JSON(http.StatusOK, gin.H{"_id": "p1", "name": "Paracetamol", "price": 4.5})
		case "boom":
			c.String(http.StatusBadGateway, "<html>upstream down</html>")
		default:
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		}
	})
	r.GET("/products/symptoms/all", func(c *gin.Context) {
		f.record(c)
		c.JSON(http.StatusOK, []string{"fever", "headache"})
	})
	r.GET("/products/categories/all", func(c *gin.Context) {
		f.record(c)
		c.JSON(http.StatusOK, []string{"pain-relief", "fever"})
	})
	r.GET("/remedies", func(c *gin.Context) {
		f.record(c)
		c.JSON(http.StatusOK, gin.H{
			"remedies":   []gin.H{{"_id": "r1", "name": "Ginger tea", "price": 2, "ingredients": "ginger, water"}},
			"pagination": gin.H{"currentPage": 1, "totalPages": 1, "totalProducts": 1},
		})
	})
	r.GET("/remedies/symptoms/all", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "symptoms unavailable"})
	})
	r.GET("/remedies/categories/all", func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{"herbal"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func TestClient_ListEncodesQuery(t *testing.T) {
	f, srv := newFakeCatalog(t)
	c := New(Options{BaseURL: srv.URL + "/", Language: func() string { return "te" }})

	page, err := c.List(context.Background(), model.KindProduct, Query{
		Search:    " fever ",
		Category:  "all",
		Symptoms:  []string{"fever", "headache"},
		SortBy:    "price",
		SortOrder: "desc",
		Page:      2,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "p1", page.Items[0].ID)
	assert.Equal(t, "500mg", page.Items[0].Dosage)
	assert.Equal(t, 25, page.Pagination.TotalProducts)
	assert.True(t, page.Pagination.HasNextPage)

	q := f.lastQuery()
	assert.Equal(t, "fever", q.Get("search"))
	assert.False(t, q.Has("category"), "category=all is dropped")
	assert.Equal(t, "fever,headache", q.Get("symptoms"))
	assert.Equal(t, "price", q.Get("sortBy"))
	assert.Equal(t, "desc", q.Get("sortOrder"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "te", q.Get("language"))
}

func TestClient_ListRemedies(t *testing.T) {
	_, srv := newFakeCatalog(t)
	c := New(Options{BaseURL: srv.URL})

	page, err := c.List(context.Background(), model.KindRemedy, Query{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ginger, water", page.Items[0].Ingredients)
}

func TestClient_GetAndErrors(t *testing.T) {
	f, srv := newFakeCatalog(t)
	c := New(Options{BaseURL: srv.URL, Token: "tok"})
	ctx := context.Background()

	got, err := c.Get(ctx, model.KindProduct, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol", got.Name)
	assert.Equal(t, "Bearer tok", f.auth[len(f.auth)-1])

	_, err = c.Get(ctx, model.KindProduct, "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Message, "server message is carried")
	assert.True(t, IsNotFound(err))

	_, err = c.Get(ctx, model.KindProduct, "boom")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, defaultAPIMessage, apiErr.Message, "generic message without a JSON body")
	assert.False(t, IsNotFound(err))
}

func TestClient_FilterOptions(t *testing.T) {
	_, srv := newFakeCatalog(t)
	c := New(Options{BaseURL: srv.URL})

	fo, err := c.FilterOptions(context.Background(), model.KindProduct)
	require.NoError(t, err)
	assert.Equal(t, []string{"fever", "headache"}, fo.Symptoms)
	assert.Equal(t, []string{"pain-relief", "fever"}, fo.Categories)

	_, err = c.FilterOptions(context.Background(), model.KindRemedy)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "symptoms unavailable", apiErr.Message)
}

func TestClient_Health(t *testing.T) {
	_, srv := newFakeCatalog(t)
	c := New(Options{BaseURL: srv.URL})
	assert.NoError(t, c.Health(context.Background()))
}

func TestClient_TransportError(t *testing.T) {
	_, srv := newFakeCatalog(t)
	base := srv.URL
	srv.Close()

	c := New(Options{BaseURL: base, Timeout: time.Second})
	_, err := c.List(context.Background(), model.KindProduct, Query{})
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not API errors")
}

func TestQuery_ValuesOmitsEmpty(t *testing.T) {
	v := Query{}.Values("")
	assert.Empty(t, v.Encode())
}
