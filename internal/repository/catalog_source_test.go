package repository_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/momentumapp/momentum/internal/error_values"
	"github.com/momentumapp/momentum/internal/repository"
)

func TestCatalogFetch(t *testing.T) {
	t.Run("successful", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id":1,"title":"Go Blog","category":"engineering","description":"Articles from the Go team"},
				{"id":2,"title":"Deep Work","category":"books"}
			]`))
		}))
		defer srv.Close()
		source := repository.NewHTTPCatalogSource(srv.URL)
		resources, err := source.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, resources, 2)
		assert.Equal(t, int64(1), resources[0].ID)
		assert.Equal(t, "books", resources[1].Category)
	})
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		source := repository.NewHTTPCatalogSource(srv.URL)
		_, err := source.Fetch(context.Background())
		assert.ErrorIs(t, err, errorvalues.ErrCatalogFetch)
	})
	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"a list"}`))
		}))
		defer srv.Close()
		source := repository.NewHTTPCatalogSource(srv.URL)
		_, err := source.Fetch(context.Background())
		assert.ErrorIs(t, err, errorvalues.ErrCatalogFetch)
	})
	t.Run("unreachable host", func(t *testing.T) {
		source := repository.NewHTTPCatalogSource("http://127.0.0.1:1/resources.json")
		_, err := source.Fetch(context.Background())
		assert.ErrorIs(t, err, errorvalues.ErrCatalogFetch)
	})
}
