// @title Momentum API
// @description API for the personal productivity tracker "Momentum"
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"

	"github.com/momentumapp/momentum/internal/api"
	"github.com/momentumapp/momentum/internal/repository"
	"github.com/momentumapp/momentum/internal/service"
	"github.com/momentumapp/momentum/pkg/cleanup"
	"github.com/momentumapp/momentum/pkg/config"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()

	var stateRepo repository.StateRepositoryI
	if cfg.GetString("POSTGRES_DB_ADDRESS") != "" {
		stateRepo = repository.NewPGStateRepo(&repository.PGCfg{
			Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
			Username: cfg.GetString("POSTGRES_USER"),
			Password: cfg.GetString("POSTGRES_PASSWORD"),
			DB:       cfg.GetString("POSTGRES_DB"),
		})
	} else {
		stateRepo = repository.NewFileStateRepo(cfg.GetStringDefault("STATE_FILE", "./data/state.json"))
	}

	stateService := service.NewStateService(stateRepo)
	catalogService := service.NewCatalogService(repository.NewHTTPCatalogSource(
		cfg.GetStringDefault("RESOURCE_CATALOG_URL", "https://momentumapp.github.io/catalog/resources.json"),
	))
	// One-time load, asynchronous with respect to the rest of the app. A slow
	// or failed fetch leaves the catalog empty without touching tasks/habits.
	go catalogService.Load(context.Background())

	serv := api.New(&api.ServicesList{
		StateService:   stateService,
		CatalogService: catalogService,
	})
	err := serv.Run(cfg.GetStringDefault("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
