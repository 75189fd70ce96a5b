package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func newFakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*ESIndexer, *[]recordedRequest) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	x, err := NewClient(Options{URL: srv.URL, Index: "products"})
	require.NoError(t, err)
	return x, &seen
}

func TestIndexProduct(t *testing.T) {
	x, seen := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := x.IndexProduct(context.Background(), models.Product{
		ID: 7, Name: "Lamp", Description: "Desk lamp", Price: decimal.RequireFromString("19.9"), Stock: 2,
	})
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/products/_doc/7", req.Path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Lamp", doc["name"])
	assert.Equal(t, "19.90", doc["price"])
}

func TestDeleteProduct_MissingDocumentIsNotAnError(t *testing.T) {
	x, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	assert.NoError(t, x.DeleteProduct(context.Background(), 3))
}

func TestSearch(t *testing.T) {
	x, seen := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":3},"hits":[{"_id":"4"},{"_id":"x"},{"_id":"2"}]}}`))
	})

	total, ids, err := x.Search(context.Background(), "lamp", 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{4, 2}, ids)

	require.Len(t, *seen, 1)
	assert.Equal(t, "/products/_search", (*seen)[0].Path)
	assert.True(t, strings.Contains((*seen)[0].Body, `"fuzziness":"AUTO"`))
}

func TestSearch_ErrorStatus(t *testing.T) {
	x, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"down"}`))
	})

	_, _, err := x.Search(context.Background(), "lamp", 0, 2)
	assert.ErrorIs(t, err, ErrUnavailable)
}
