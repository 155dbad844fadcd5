package repository

import (
	"context"
	"errors"
	"net/http"

	"github.com/bytedance/sonic"

	errorvalues "github.com/momentumapp/momentum/internal/error_values"
	"github.com/momentumapp/momentum/pkg/entity"
)

// HTTPCatalogSource fetches the read-only resource list from a static JSON
// endpoint. One fetch per process; the transport owns timeouts.
type HTTPCatalogSource struct {
	url    string
	client *http.Client
}

func NewHTTPCatalogSource(url string) *HTTPCatalogSource {
	return &HTTPCatalogSource{
		url:    url,
		client: http.DefaultClient,
	}
}

func NewHTTPCatalogSourceWithClient(url string, client *http.Client) *HTTPCatalogSource {
	return &HTTPCatalogSource{
		url:    url,
		client: client,
	}
}

func (cs *HTTPCatalogSource) Fetch(ctx context.Context) ([]entity.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cs.url, nil)
	if err != nil {
		return nil, errors.Join(errorvalues.ErrCatalogFetch, err)
	}
	resp, err := cs.client.Do(req)
	if err != nil {
		return nil, errors.Join(errorvalues.ErrCatalogFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Join(errorvalues.ErrCatalogFetch, errors.New("unexpected status "+resp.Status))
	}
	resources := make([]entity.Resource, 0)
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&resources); err != nil {
		return nil, errors.Join(errorvalues.ErrCatalogFetch, err)
	}
	return resources, nil
}
