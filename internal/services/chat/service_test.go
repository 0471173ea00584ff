package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// --- Mocks ---

type memChatStore struct {
	histories map[string]*models.ChatHistory
}

func newMemChatStore() *memChatStore {
	return &memChatStore{histories: make(map[string]*models.ChatHistory)}
}

func (m *memChatStore) Get(_ context.Context, userID string) (*models.ChatHistory, error) {
	h, ok := m.histories[userID]
	if !ok {
		return nil, nil
	}
	copied := *h
	copied.Messages = append([]models.ChatMessage(nil), h.Messages...)
	return &copied, nil
}

func (m *memChatStore) Save(_ context.Context, history *models.ChatHistory) error {
	if len(history.Messages) > models.MaxChatHistory {
		history.Messages = history.Messages[len(history.Messages)-models.MaxChatHistory:]
	}
	copied := *history
	copied.Messages = append([]models.ChatMessage(nil), history.Messages...)
	m.histories[history.UserID] = &copied
	return nil
}

func (m *memChatStore) Delete(_ context.Context, userID string) error {
	delete(m.histories, userID)
	return nil
}

type mockStorage struct {
	chats *memChatStore
}

func (m *mockStorage) PortfolioStore() interfaces.PortfolioStore { return nil }
func (m *mockStorage) UserStore() interfaces.UserStore           { return nil }
func (m *mockStorage) ChatStore() interfaces.ChatStore           { return m.chats }
func (m *mockStorage) KVStore() interfaces.KVStore               { return nil }
func (m *mockStorage) Close() error                              { return nil }

type mockAIClient struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
	lastMsgs   []models.ChatMessage
}

func (m *mockAIClient) Complete(_ context.Context, systemPrompt string, messages []models.ChatMessage) (string, error) {
	m.calls++
	m.lastPrompt = systemPrompt
	m.lastMsgs = messages
	return m.reply, m.err
}

type mockPortfolioService struct {
	view *models.PortfolioView
	err  error
}

func (m *mockPortfolioService) GetPortfolio(_ context.Context) (*models.PortfolioView, error) {
	return m.view, m.err
}
func (m *mockPortfolioService) AddHolding(_ context.Context, _ string, _, _ float64, _ string) (*models.PortfolioView, error) {
	return nil, errors.New("not implemented")
}
func (m *mockPortfolioService) UpdateHolding(_ context.Context, _ string, _ interfaces.HoldingUpdate) (*models.PortfolioView, error) {
	return nil, errors.New("not implemented")
}
func (m *mockPortfolioService) DeleteHolding(_ context.Context, _ string) (*models.PortfolioView, error) {
	return nil, errors.New("not implemented")
}
func (m *mockPortfolioService) GetSummary(_ context.Context) (*models.PortfolioSummary, error) {
	return nil, errors.New("not implemented")
}
func (m *mockPortfolioService) GetSectorBreakdown(_ context.Context) ([]models.SectorAllocation, error) {
	return nil, errors.New("not implemented")
}
func (m *mockPortfolioService) RefreshPrices(_ context.Context) (*models.PortfolioView, error) {
	return nil, errors.New("not implemented")
}
func (m *mockPortfolioService) RenderChart(_ context.Context) ([]byte, error) {
	return nil, errors.New("not implemented")
}
func (m *mockPortfolioService) MergeExtracted(_ context.Context, _ []models.ExtractedHolding) (*models.PortfolioView, error) {
	return nil, errors.New("not implemented")
}

func sampleView() *models.PortfolioView {
	return &models.PortfolioView{
		UserID: common.DefaultUserID,
		Holdings: []models.Holding{
			{Symbol: "AAPL", Shares: 10, CostBasis: 1000, MarketValue: 1500, GainLossPct: 50, WeightPct: 75},
			{Symbol: "MSFT", Shares: 2, CostBasis: 600, MarketValue: 500, GainLossPct: -16.7, WeightPct: 25},
		},
		Summary: models.PortfolioSummary{
			TotalValue:       2000,
			TotalCost:        1600,
			TotalGainLoss:    400,
			TotalGainLossPct: 25,
			HoldingCount:     2,
		},
	}
}

func newTestService(ai *mockAIClient, portfolioSvc *mockPortfolioService) (*Service, *mockStorage) {
	storage := &mockStorage{chats: newMemChatStore()}
	var client interfaces.AIClient
	if ai != nil {
		client = ai
	}
	return NewService(storage, client, portfolioSvc, common.NewSilentLogger()), storage
}

// --- Tests ---

func TestChat_WithAI(t *testing.T) {
	ai := &mockAIClient{reply: "Your biggest position is AAPL."}
	svc, _ := newTestService(ai, &mockPortfolioService{view: sampleView()})
	ctx := context.Background()

	resp, err := svc.Chat(ctx, "what is my biggest position?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Fallback {
		t.Error("expected AI reply, not fallback")
	}
	if resp.Message != "Your biggest position is AAPL." {
		t.Errorf("unexpected reply: %q", resp.Message)
	}

	// Snapshot reaches the system prompt
	if !strings.Contains(ai.lastPrompt, "AAPL") || !strings.Contains(ai.lastPrompt, "$2000.00") {
		t.Errorf("expected portfolio snapshot in prompt, got: %s", ai.lastPrompt)
	}

	// Both sides of the turn are persisted
	history, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Role != models.ChatRoleUser || history[1].Role != models.ChatRoleAssistant {
		t.Errorf("unexpected roles: %s, %s", history[0].Role, history[1].Role)
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	svc, _ := newTestService(nil, &mockPortfolioService{view: sampleView()})

	_, err := svc.Chat(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected error for empty message")
	}
	if !common.IsValidationError(err) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestChat_FallbackWithoutAIClient(t *testing.T) {
	svc, _ := newTestService(nil, &mockPortfolioService{view: sampleView()})

	resp, err := svc.Chat(context.Background(), "what is my portfolio worth?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if !resp.Fallback {
		t.Error("expected fallback reply")
	}
	if !strings.Contains(resp.Message, "$2000.00") {
		t.Errorf("expected total value in reply, got: %q", resp.Message)
	}
}

func TestChat_FallbackOnAIError(t *testing.T) {
	ai := &mockAIClient{err: errors.New("rate limited")}
	svc, _ := newTestService(ai, &mockPortfolioService{view: sampleView()})

	resp, err := svc.Chat(context.Background(), "how is my performance?")
	if err != nil {
		t.Fatalf("Chat must not fail on upstream error: %v", err)
	}
	if !resp.Fallback {
		t.Error("expected fallback reply")
	}
	if !strings.Contains(resp.Message, "up $400.00") {
		t.Errorf("expected gain in reply, got: %q", resp.Message)
	}
}

func TestFallbackReply_Keywords(t *testing.T) {
	view := sampleView()

	tests := []struct {
		message string
		want    string
	}{
		{"what's the total value?", "$2000.00"},
		{"am I at a gain or a loss?", "up $400.00"},
		{"how diversified am I?", "AAPL at 75.0%"},
		{"help", "what is my portfolio worth"},
		{"tell me a joke", "2 positions"},
	}
	for _, tt := range tests {
		got := fallbackReply(tt.message, view)
		if !strings.Contains(got, tt.want) {
			t.Errorf("fallbackReply(%q) = %q, want substring %q", tt.message, got, tt.want)
		}
	}
}

func TestFallbackReply_EmptyPortfolio(t *testing.T) {
	for _, message := range []string{"value?", "gains?", "diversification?", "anything"} {
		got := fallbackReply(message, nil)
		if !strings.Contains(strings.ToLower(got), "empty") {
			t.Errorf("fallbackReply(%q) should mention empty portfolio, got: %q", message, got)
		}
	}
}

func TestChat_HistoryCapped(t *testing.T) {
	svc, _ := newTestService(nil, &mockPortfolioService{view: sampleView()})
	ctx := context.Background()

	// Each turn adds 2 messages
	for i := 0; i < models.MaxChatHistory; i++ {
		if _, err := svc.Chat(ctx, fmt.Sprintf("question %d", i)); err != nil {
			t.Fatalf("Chat %d failed: %v", i, err)
		}
	}

	history, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != models.MaxChatHistory {
		t.Errorf("expected history capped at %d, got %d", models.MaxChatHistory, len(history))
	}
}

func TestChat_SurvivesPortfolioFailure(t *testing.T) {
	svc, _ := newTestService(nil, &mockPortfolioService{err: errors.New("storage down")})

	resp, err := svc.Chat(context.Background(), "what is my portfolio worth?")
	if err != nil {
		t.Fatalf("Chat must not fail when portfolio is unavailable: %v", err)
	}
	if resp.Message == "" {
		t.Error("expected a reply")
	}
}

func TestClearHistory(t *testing.T) {
	svc, _ := newTestService(nil, &mockPortfolioService{view: sampleView()})
	ctx := context.Background()

	svc.Chat(ctx, "hello")
	if err := svc.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}

	history, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d messages", len(history))
	}
}
