// Package app wires application services to their infrastructure adapters.
package app

import (
	"github.com/promptalchemy/alchemy-go/internal/application/enhance"
	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/ai"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/config"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/gcloud"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/history"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/keystore"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/projects"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/ratelimit"
	"github.com/promptalchemy/alchemy-go/internal/pkg/logger"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// Container holds the wired dependency graph.
type Container struct {
	Config   *config.Manager
	Creds    ports.CredentialStore
	Limiter  ports.RateLimiter
	History  ports.HistoryRepository
	Projects ports.ProjectRepository
	Cloud    ports.CloudAuthChecker
	Enhancer *enhance.Service
	Logger   ports.Logger
}

// BuildContainer constructs the dependency graph. The one-shot ImageAI
// credential import runs here, before anything reads the config.
func BuildContainer(verbose bool) (*Container, error) {
	log := logger.NewStd(verbose)

	cfgStore := config.NewManager("", log)
	creds := keystore.New(cfgStore, log)

	importer := config.NewImporter(creds, log)
	importer.ImportOnce(cfgStore)

	cfg, err := cfgStore.Load()
	if err != nil {
		return nil, err
	}

	quotas, err := ratelimit.LoadQuotas(cfgStore.LimitsPath())
	if err != nil {
		log.Warn("falling back to default rate limits", map[string]interface{}{"error": err.Error()})
		quotas = domain.DefaultQuotas()
	}
	limiter := ratelimit.New(quotas, log)

	var historyStore ports.HistoryRepository
	if cfg.History.Backend == domain.HistoryBackendSQLite {
		historyStore = history.NewSQLiteStore(cfgStore.HistoryDBPath(), cfgStore.HistoryPath(), log)
	} else {
		historyStore = history.NewFileStore(cfgStore.HistoryPath(), log)
	}

	projectStore := projects.NewManager(cfgStore.ProjectsDir(), log)
	cloud := gcloud.NewChecker(log)

	enhancer := enhance.NewService(enhance.Deps{
		Config:   cfgStore,
		Creds:    creds,
		Limiter:  limiter,
		Factory:  ai.NewFactory(),
		History:  historyStore,
		Projects: projectStore,
		Cloud:    cloud,
		Logger:   log,
	})

	return &Container{
		Config:   cfgStore,
		Creds:    creds,
		Limiter:  limiter,
		History:  historyStore,
		Projects: projectStore,
		Cloud:    cloud,
		Enhancer: enhancer,
		Logger:   log,
	}, nil
}
