package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kimblewick/MiraAI/internal/domain"
	"github.com/kimblewick/MiraAI/internal/ports/cache"
)

// Фейки портов для тестов оркестратора, без моков-библиотек

type fakeProfileRepo struct {
	profile *domain.UserProfile
	err     error
}

func (f *fakeProfileRepo) Upsert(_ context.Context, _ *domain.UserProfile) error {
	return nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, _ string) (*domain.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*domain.ConversationSummary
	turns         []domain.ConversationTurn

	createErr error
	getErr    error
	appendErr error

	lastListLimit    int
	lastMessageLimit int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[uuid.UUID]*domain.ConversationSummary),
	}
}

func (f *fakeConversationRepo) Create(_ context.Context, conv *domain.ConversationSummary) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversations[conv.ID] = conv
	return nil
}

func (f *fakeConversationRepo) GetByID(_ context.Context, userID string, id uuid.UUID) (*domain.ConversationSummary, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok || conv.UserID != userID || conv.Deleted {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

func (f *fakeConversationRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastListLimit = limit
	out := make([]domain.ConversationSummary, 0)
	for _, conv := range f.conversations {
		if conv.UserID == userID && !conv.Deleted {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) Rename(_ context.Context, userID string, id uuid.UUID, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok || conv.UserID != userID || conv.Deleted {
		return domain.ErrNotFound
	}
	conv.Title = title
	return nil
}

func (f *fakeConversationRepo) SoftDelete(_ context.Context, userID string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok || conv.UserID != userID {
		return domain.ErrNotFound
	}
	conv.Deleted = true
	return nil
}

func (f *fakeConversationRepo) AppendTurn(_ context.Context, turn *domain.ConversationTurn) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conversations[turn.ConversationID]; !ok {
		return domain.ErrNotFound
	}
	f.turns = append(f.turns, *turn)
	f.conversations[turn.ConversationID].TurnCount++
	return nil
}

func (f *fakeConversationRepo) ListTurns(_ context.Context, userID string, conversationID uuid.UUID, limit int, before string) ([]domain.ConversationTurn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMessageLimit = limit
	out := make([]domain.ConversationTurn, 0)
	for _, turn := range f.turns {
		if turn.ConversationID != conversationID || turn.UserID != userID {
			continue
		}
		if before != "" && turn.Seq >= before {
			continue
		}
		out = append(out, turn)
	}
	// как в реальном репозитории: хвост истории, последние limit ходов
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeConversationRepo) DeleteExpiredTurns(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeConversationRepo) PurgeDeleted(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	if !ok {
		return "", fmt.Errorf("key %s: %w", key, cache.ErrMiss)
	}
	return val, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeCache) Close() error { return nil }

type fakeAstroService struct {
	data  domain.ChartData
	svg   []byte
	err   error
	calls int
}

func (f *fakeAstroService) ComputeChart(_ context.Context, _ *domain.UserProfile) (domain.ChartData, []byte, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.data, f.svg, nil
}

type fakeLLMService struct {
	generation domain.Generation
	title      string
	titleErr   error
}

func (f *fakeLLMService) Generate(_ context.Context, _ domain.PromptPayload) domain.Generation {
	return f.generation
}

func (f *fakeLLMService) GenerateTitle(_ context.Context, _ string) (string, error) {
	if f.titleErr != nil {
		return "", f.titleErr
	}
	return f.title, nil
}

type fakeS3 struct {
	mu      sync.Mutex
	files   map[string][]byte
	putErr  error
	signErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{files: make(map[string][]byte)}
}

func (f *fakeS3) PutFile(_ context.Context, path string, data []byte, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = data
	return nil
}

func (f *fakeS3) GetFile(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[path], nil
}

func (f *fakeS3) GetPresignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://s3.local/" + path, nil
}

type fakeProducer struct {
	events chan domain.TurnEvent
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{events: make(chan domain.TurnEvent, 16)}
}

func (f *fakeProducer) SendTurnEvent(_ context.Context, event domain.TurnEvent) error {
	f.events <- event
	return nil
}

func (f *fakeProducer) Close() error { return nil }

type testDeps struct {
	profiles      *fakeProfileRepo
	conversations *fakeConversationRepo
	cache         *fakeCache
	astro         *fakeAstroService
	llm           *fakeLLMService
	s3            *fakeS3
	producer      *fakeProducer
}

func testProfile() *domain.UserProfile {
	return &domain.UserProfile{
		UserID:        "user-1",
		FirstName:     "Anna",
		LastName:      "Smith",
		BirthDate:     "1990-06-15",
		BirthTime:     "14:30",
		BirthLocation: "New York, NY",
		BirthCountry:  "United States",
		ZodiacSign:    "Gemini",
	}
}

func newTestService(deps *testDeps) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(
		deps.profiles,
		deps.conversations,
		deps.cache,
		deps.astro,
		deps.llm,
		deps.s3,
		deps.producer,
		nil,
		log,
	)
}

func defaultDeps() *testDeps {
	return &testDeps{
		profiles:      &fakeProfileRepo{profile: testProfile()},
		conversations: newFakeConversationRepo(),
		cache:         newFakeCache(),
		astro: &fakeAstroService{
			data: domain.ChartData(`{"data":{},"aspects":[]}`),
			svg:  []byte("<svg/>"),
		},
		llm: &fakeLLMService{
			generation: domain.Generation{Status: domain.GenerationOK, Text: "The stars favor you."},
			title:      "Career Path Question",
		},
		s3:       newFakeS3(),
		producer: newFakeProducer(),
	}
}
