package server

import (
	"context"
	"net/http"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// --- Service mocks with function fields ---

type mockPortfolioService struct {
	getPortfolio  func(ctx context.Context) (*models.PortfolioView, error)
	addHolding    func(ctx context.Context, symbol string, shares, purchasePrice float64, purchaseDate string) (*models.PortfolioView, error)
	updateHolding func(ctx context.Context, id string, update interfaces.HoldingUpdate) (*models.PortfolioView, error)
	deleteHolding func(ctx context.Context, id string) (*models.PortfolioView, error)
	getSummary    func(ctx context.Context) (*models.PortfolioSummary, error)
	getSectors    func(ctx context.Context) ([]models.SectorAllocation, error)
	refreshPrices func(ctx context.Context) (*models.PortfolioView, error)
	renderChart   func(ctx context.Context) ([]byte, error)
	mergeExtract  func(ctx context.Context, extracted []models.ExtractedHolding) (*models.PortfolioView, error)
}

func (m *mockPortfolioService) GetPortfolio(ctx context.Context) (*models.PortfolioView, error) {
	if m.getPortfolio != nil {
		return m.getPortfolio(ctx)
	}
	return &models.PortfolioView{UserID: common.DefaultUserID}, nil
}
func (m *mockPortfolioService) AddHolding(ctx context.Context, symbol string, shares, purchasePrice float64, purchaseDate string) (*models.PortfolioView, error) {
	if m.addHolding != nil {
		return m.addHolding(ctx, symbol, shares, purchasePrice, purchaseDate)
	}
	return &models.PortfolioView{}, nil
}
func (m *mockPortfolioService) UpdateHolding(ctx context.Context, id string, update interfaces.HoldingUpdate) (*models.PortfolioView, error) {
	if m.updateHolding != nil {
		return m.updateHolding(ctx, id, update)
	}
	return &models.PortfolioView{}, nil
}
func (m *mockPortfolioService) DeleteHolding(ctx context.Context, id string) (*models.PortfolioView, error) {
	if m.deleteHolding != nil {
		return m.deleteHolding(ctx, id)
	}
	return &models.PortfolioView{}, nil
}
func (m *mockPortfolioService) GetSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	if m.getSummary != nil {
		return m.getSummary(ctx)
	}
	return &models.PortfolioSummary{}, nil
}
func (m *mockPortfolioService) GetSectorBreakdown(ctx context.Context) ([]models.SectorAllocation, error) {
	if m.getSectors != nil {
		return m.getSectors(ctx)
	}
	return nil, nil
}
func (m *mockPortfolioService) RefreshPrices(ctx context.Context) (*models.PortfolioView, error) {
	if m.refreshPrices != nil {
		return m.refreshPrices(ctx)
	}
	return &models.PortfolioView{}, nil
}
func (m *mockPortfolioService) RenderChart(ctx context.Context) ([]byte, error) {
	if m.renderChart != nil {
		return m.renderChart(ctx)
	}
	return []byte("\x89PNG\r\n"), nil
}
func (m *mockPortfolioService) MergeExtracted(ctx context.Context, extracted []models.ExtractedHolding) (*models.PortfolioView, error) {
	if m.mergeExtract != nil {
		return m.mergeExtract(ctx, extracted)
	}
	return &models.PortfolioView{}, nil
}

type mockMarketService struct {
	getQuote      func(ctx context.Context, symbol string) (*models.Quote, error)
	getHistory    func(ctx context.Context, symbol, period, interval string) (*models.History, error)
	search        func(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	getIndicators func(ctx context.Context, symbol string) (*models.IndicatorReport, error)
	getMovers     func(ctx context.Context) ([]models.Quote, error)
}

func (m *mockMarketService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if m.getQuote != nil {
		return m.getQuote(ctx, symbol)
	}
	return &models.Quote{Symbol: symbol}, nil
}
func (m *mockMarketService) GetHistory(ctx context.Context, symbol, period, interval string) (*models.History, error) {
	if m.getHistory != nil {
		return m.getHistory(ctx, symbol, period, interval)
	}
	return &models.History{Symbol: symbol}, nil
}
func (m *mockMarketService) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	if m.search != nil {
		return m.search(ctx, query, limit)
	}
	return nil, nil
}
func (m *mockMarketService) GetIndicators(ctx context.Context, symbol string) (*models.IndicatorReport, error) {
	if m.getIndicators != nil {
		return m.getIndicators(ctx, symbol)
	}
	return &models.IndicatorReport{Symbol: symbol}, nil
}
func (m *mockMarketService) GetMovers(ctx context.Context) ([]models.Quote, error) {
	if m.getMovers != nil {
		return m.getMovers(ctx)
	}
	return nil, nil
}

type mockChatService struct {
	chat    func(ctx context.Context, message string) (*models.ChatResponse, error)
	history func(ctx context.Context) ([]models.ChatMessage, error)
	clear   func(ctx context.Context) error
}

func (m *mockChatService) Chat(ctx context.Context, message string) (*models.ChatResponse, error) {
	if m.chat != nil {
		return m.chat(ctx, message)
	}
	return &models.ChatResponse{Message: "ok"}, nil
}
func (m *mockChatService) History(ctx context.Context) ([]models.ChatMessage, error) {
	if m.history != nil {
		return m.history(ctx)
	}
	return []models.ChatMessage{}, nil
}
func (m *mockChatService) ClearHistory(ctx context.Context) error {
	if m.clear != nil {
		return m.clear(ctx)
	}
	return nil
}

type mockNewsService struct {
	getNews      func(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error)
	getSentiment func(ctx context.Context, symbol string) (*models.SentimentSummary, error)
}

func (m *mockNewsService) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	if m.getNews != nil {
		return m.getNews(ctx, symbol, limit)
	}
	return nil, nil
}
func (m *mockNewsService) GetSentiment(ctx context.Context, symbol string) (*models.SentimentSummary, error) {
	if m.getSentiment != nil {
		return m.getSentiment(ctx, symbol)
	}
	return &models.SentimentSummary{Symbol: symbol}, nil
}

type mockExtractService struct {
	extractFile func(ctx context.Context, fileName string, data []byte) (*models.ExtractionResult, error)
}

func (m *mockExtractService) ExtractFile(ctx context.Context, fileName string, data []byte) (*models.ExtractionResult, error) {
	if m.extractFile != nil {
		return m.extractFile(ctx, fileName, data)
	}
	return &models.ExtractionResult{FileName: fileName}, nil
}

// --- Storage mocks ---

type memUserStore struct {
	users map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (m *memUserStore) Get(_ context.Context, userID string) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}
func (m *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}
func (m *memUserStore) Save(_ context.Context, user *models.User) error {
	copied := *user
	m.users[user.UserID] = &copied
	return nil
}
func (m *memUserStore) Delete(_ context.Context, userID string) error {
	delete(m.users, userID)
	return nil
}
func (m *memUserStore) List(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	return ids, nil
}

type mockStorage struct {
	users *memUserStore
}

func (m *mockStorage) PortfolioStore() interfaces.PortfolioStore { return nil }
func (m *mockStorage) UserStore() interfaces.UserStore           { return m.users }
func (m *mockStorage) ChatStore() interfaces.ChatStore           { return nil }
func (m *mockStorage) KVStore() interfaces.KVStore               { return nil }
func (m *mockStorage) Close() error                              { return nil }

// --- Test server construction ---

type testServices struct {
	portfolio interfaces.PortfolioService
	market    interfaces.MarketService
	chat      interfaces.ChatService
	news      interfaces.NewsService
	extract   interfaces.ExtractService
}

func newTestServer(svcs testServices) *Server {
	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()

	if svcs.portfolio == nil {
		svcs.portfolio = &mockPortfolioService{}
	}
	if svcs.market == nil {
		svcs.market = &mockMarketService{}
	}
	if svcs.chat == nil {
		svcs.chat = &mockChatService{}
	}
	if svcs.news == nil {
		svcs.news = &mockNewsService{}
	}
	if svcs.extract == nil {
		svcs.extract = &mockExtractService{}
	}

	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          &mockStorage{users: newMemUserStore()},
		PortfolioService: svcs.portfolio,
		MarketService:    svcs.market,
		ChatService:      svcs.chat,
		NewsService:      svcs.news,
		ExtractService:   svcs.extract,
	}
	return &Server{app: a, logger: logger}
}

// routedHandler returns the server's full handler including middleware, for
// tests that exercise routing and auth.
func routedHandler(s *Server) http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return applyMiddleware(mux, s.logger, s.app.Config, s.app.Storage.UserStore())
}
