package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmcdole/shelf/internal/adapter/source/dummyjson"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/shopspring/decimal"
)

func newService(t *testing.T, handler http.HandlerFunc) (*catalog.Service, domain.ProductStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := dummyjson.NewClient(srv.URL, dummyjson.Options{Retries: 0}, logger)
	t.Cleanup(func() { client.Close() })

	st, err := store.Open(store.DriverMemory, "")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return catalog.NewService(client, st, 30, logger), st
}

func TestPrintCatalog(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"products":[{"id":1,"title":"Test Product","price":99.99,"category":"beauty","discountPercentage":10}],"total":1}`)
	})

	var out, errOut bytes.Buffer
	if err := printCatalog(context.Background(), svc, domain.AllProducts(30), &out, &errOut); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Test Product", "beauty", "$89.99 (was $99.99)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected warning %q", errOut.String())
	}
}

func TestPrintCatalogFallsBackToCache(t *testing.T) {
	svc, st := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	cached := &domain.Product{ID: 7, Title: "Cached Kettle", Category: "kitchen", Price: decimal.NewFromInt(35)}
	if err := st.SaveProduct(context.Background(), cached); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	if err := printCatalog(context.Background(), svc, domain.AllProducts(30), &out, &errOut); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cached Kettle") {
		t.Errorf("cached row missing:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "502") {
		t.Errorf("warning should carry the server error, got %q", errOut.String())
	}
}

func TestListQuery(t *testing.T) {
	tests := []struct {
		opts options
		want domain.QueryKind
	}{
		{options{}, domain.QueryAll},
		{options{search: "phone"}, domain.QuerySearch},
		{options{category: "laptops"}, domain.QueryCategory},
		{options{search: "phone", category: "laptops"}, domain.QuerySearch},
	}
	for _, tt := range tests {
		if got := listQuery(tt.opts, 30).Kind; got != tt.want {
			t.Errorf("listQuery(%+v) = %s, want %s", tt.opts, got, tt.want)
		}
	}
}
