// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/folio-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/folio/internal/clients/alphavantage"
	"github.com/bobmcallan/folio/internal/clients/openai"
	"github.com/bobmcallan/folio/internal/clients/yahoo"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/chat"
	"github.com/bobmcallan/folio/internal/services/extract"
	"github.com/bobmcallan/folio/internal/services/market"
	"github.com/bobmcallan/folio/internal/services/news"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	"github.com/bobmcallan/folio/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config  *common.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	MarketClient interfaces.MarketClient
	AIClient     interfaces.AIClient // nil when OpenAI key is unset
	NewsClient   interfaces.NewsClient

	MarketService    interfaces.MarketService
	PortfolioService interfaces.PortfolioService
	ExtractService   interfaces.ExtractService
	ChatService      interfaces.ChatService
	NewsService      interfaces.NewsService

	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services from configuration.
// configPath may be empty, in which case FOLIO_CONFIG, the binary directory,
// and config/folio.toml are checked in order.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Yahoo needs no API key; it is always available.
	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)

	var aiClient interfaces.AIClient
	openaiKey, err := common.ResolveAPIKey("openai_api_key", config.Clients.OpenAI.APIKey)
	if err != nil {
		logger.Warn().Msg("OpenAI API key not configured - chat and AI extraction fall back to deterministic replies")
	} else {
		aiClient = openai.NewClient(openaiKey,
			openai.WithModel(config.Clients.OpenAI.Model),
			openai.WithLogger(logger),
			openai.WithRateLimit(config.Clients.OpenAI.RateLimit),
		)
	}

	var newsClient interfaces.NewsClient
	avKey, err := common.ResolveAPIKey("alphavantage_api_key", config.Clients.AlphaVantage.APIKey)
	if err != nil {
		logger.Warn().Msg("Alpha Vantage API key not configured - news serves the fallback feed")
	} else {
		newsClient = alphavantage.NewClient(avKey,
			alphavantage.WithBaseURL(config.Clients.AlphaVantage.BaseURL),
			alphavantage.WithLogger(logger),
			alphavantage.WithRateLimit(config.Clients.AlphaVantage.RateLimit),
			alphavantage.WithTimeout(config.Clients.AlphaVantage.GetTimeout()),
		)
	}

	marketService := market.NewService(yahooClient, logger,
		market.WithQuoteTTL(config.Clients.Yahoo.GetQuoteTTL()))
	portfolioService := portfolio.NewService(storageManager, marketService, logger)
	extractService := extract.NewService(aiClient, logger)
	chatService := chat.NewService(storageManager, aiClient, portfolioService, logger)
	newsService := news.NewService(newsClient, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		MarketClient:     yahooClient,
		AIClient:         aiClient,
		NewsClient:       newsClient,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		ExtractService:   extractService,
		ChatService:      chatService,
		NewsService:      newsService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
