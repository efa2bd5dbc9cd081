package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	llmAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/llm"
	"github.com/kimblewick/MiraAI/internal/domain"
	"github.com/kimblewick/MiraAI/internal/ports/service"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// generateTimeout жёсткий потолок одного хода: меньше таймаута
	// HTTP-клиентов, чтобы деградированный ответ успел уйти пользователю
	generateTimeout = 25 * time.Second

	// fastFailWindow сбой соединения быстрее этого окна не тратил бюджет
	// времени, один повтор допустим
	fastFailWindow = 2 * time.Second

	titleMaxTokens = 30
)

const titleSystemPrompt = `Generate a short title (3-5 words) summarizing the user's message topic. ` +
	`Reply with the title only, no quotes, no punctuation at the end.`

// Service реализует ILLMService: таймаут, классификация исходов
type Service struct {
	client *llmAdapter.Client
	log    *slog.Logger
}

// New создаёт новый сервис генеративной модели
func New(client *llmAdapter.Client, log *slog.Logger) service.ILLMService {
	return &Service{
		client: client,
		log:    log,
	}
}

// Generate вызывает модель и классифицирует исход в замкнутый набор.
// Ошибки наружу не отдаются: оркестратор матчит стратегию по статусу
func (s *Service) Generate(ctx context.Context, payload domain.PromptPayload) domain.Generation {
	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	messages := toOpenAIMessages(payload.Messages)

	started := time.Now()
	text, err := s.client.ChatCompletion(genCtx, messages, 0)
	if err == nil {
		return domain.Generation{Status: domain.GenerationOK, Text: text}
	}

	// Быстрый сбой соединения - один повтор, бюджет времени почти не тронут
	if time.Since(started) < fastFailWindow && isConnectionError(err) && genCtx.Err() == nil {
		s.log.Warn("llm connection failed fast, retrying once", "error", err)
		text, err = s.client.ChatCompletion(genCtx, messages, 0)
		if err == nil {
			return domain.Generation{Status: domain.GenerationOK, Text: text}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn("llm generation timed out", "timeout", generateTimeout)
		return domain.Generation{Status: domain.GenerationTimeout, Err: err}
	}

	s.log.Error("llm generation failed", "error", err)
	return domain.Generation{Status: domain.GenerationError, Err: err}
}

// GenerateTitle просит модель озаглавить диалог по первому сообщению
func (s *Service) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: titleSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: firstMessage},
	}

	title, err := s.client.ChatCompletion(genCtx, messages, titleMaxTokens)
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}

	title = strings.TrimSpace(strings.Trim(strings.TrimSpace(title), `"`))
	if title == "" {
		return "", fmt.Errorf("generate title: model returned empty text")
	}

	return title, nil
}

// toOpenAIMessages конвертирует сообщения промпта в формат клиента
func toOpenAIMessages(messages []domain.PromptMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

// isConnectionError отличает сбой установки соединения от прочих ошибок
func isConnectionError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
