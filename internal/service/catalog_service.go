package service

import (
	"context"
	"log"
	"log/slog"
	"sync"

	"github.com/momentumapp/momentum/internal/repository"
	"github.com/momentumapp/momentum/pkg/entity"
)

// CatalogService holds the fetched read-only resource list. The catalog is
// loaded once, asynchronously with respect to the rest of the app; until the
// load finishes (or after it fails) the catalog is simply empty and every
// task/habit operation keeps working.
type CatalogService struct {
	source repository.CatalogSourceI

	mu        sync.RWMutex
	resources []entity.Resource
	loadErr   error
}

func NewCatalogService(catalogSource repository.CatalogSourceI) *CatalogService {
	if catalogSource == nil {
		log.Fatal("provided nil catalogSource")
	}
	return &CatalogService{
		source:    catalogSource,
		resources: []entity.Resource{},
	}
}

func (cs *CatalogService) Load(ctx context.Context) {
	resources, err := cs.source.Fetch(ctx)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err != nil {
		slog.Error("catalog load failed, continuing with empty catalog", slog.String("error", err.Error()))
		cs.loadErr = err
		return
	}
	cs.resources = resources
	cs.loadErr = nil
	slog.Info("catalog loaded", slog.Int("resources", len(resources)))
}

func (cs *CatalogService) Resources() ([]entity.Resource, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]entity.Resource, len(cs.resources))
	copy(out, cs.resources)
	return out, cs.loadErr
}
