package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kimblewick/MiraAI/internal/domain"
)

// fallbackResponse отдаётся и сохраняется, когда модель не ответила.
// Ход с фолбэком - полноценный ход: пользователь видит его в истории
const fallbackResponse = "I'm sorry, I'm having trouble connecting to the stars right now. " +
	"Please ask me again in a moment."

const onboardingResponse = "I'd love to read your chart, but I need your birth details first. " +
	"Please complete your profile to get started."

// TurnResult итог обработки одного хода
type TurnResult struct {
	ConversationID  *uuid.UUID
	Message         string
	ChartURL        string
	NeedsOnboarding bool
}

// HandleTurn обрабатывает один ход диалога: профиль, карта, промпт,
// генерация, атомарная запись. Деградации (карта, модель, запись после
// успешной генерации) поглощаются - пользователь получает ответ всегда,
// кроме невалидного входа и чужого диалога
func (s *Service) HandleTurn(ctx context.Context, userID string, conversationID *uuid.UUID, message string) (*TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.NewValidationError("message", "message field is required")
	}

	started := time.Now()

	profile, err := s.ProfileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			s.Log.Info("profile missing, onboarding response", "user_id", userID)
			return &TurnResult{
				Message:         onboardingResponse,
				NeedsOnboarding: true,
			}, nil
		}
		return nil, err
	}

	// Чужой или удалённый диалог отсекается до любых дорогих вызовов
	var conv *domain.ConversationSummary
	var recent []domain.ConversationTurn
	if conversationID != nil {
		conv, err = s.ConversationRepo.GetByID(ctx, userID, *conversationID)
		if err != nil {
			return nil, err
		}

		recent, err = s.ConversationRepo.ListTurns(ctx, userID, conv.ID, historyMaxTurns, "")
		if err != nil {
			s.Log.Warn("failed to load history, continuing without it",
				"error", err,
				"conversation_id", conv.ID)
			recent = nil
		}
	}

	chart := s.GetOrCompute(ctx, profile)

	payload := BuildPrompt(profile, chart, recent, message)

	gen := s.LLMService.Generate(ctx, payload)
	responseText := gen.Text
	if gen.Status != domain.GenerationOK {
		s.Log.Warn("generation degraded to fallback",
			"status", gen.Status,
			"error", gen.Err,
			"user_id", userID)
		responseText = fallbackResponse
	}

	// Ответ уже есть - отмена клиента не должна потерять ход
	persistCtx := context.WithoutCancel(ctx)

	turn, persistErr := s.persistTurn(persistCtx, userID, conv, message, responseText, chart.ChartURL)

	result := &TurnResult{
		Message:  responseText,
		ChartURL: chart.ChartURL,
	}

	var seq string
	if persistErr != nil {
		// Запись упала после успешной генерации: логируем, ответ отдаём
		persistErr = fmt.Errorf("%w: %w", domain.ErrPersistence, persistErr)
		s.Log.Error("failed to persist turn, response returned anyway",
			"error", persistErr,
			"user_id", userID)
	} else {
		result.ConversationID = &turn.ConversationID
		seq = turn.Seq
	}

	s.emitTurnEvent(persistCtx, domain.TurnEvent{
		UserID:         userID,
		ConversationID: derefOrNil(result.ConversationID),
		Seq:            seq,
		Status:         gen.Status,
		ChartCacheHit:  chart.CacheHit,
		Degraded:       chart.Unavailable || gen.Status != domain.GenerationOK || persistErr != nil,
		LatencyMs:      time.Since(started).Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	})

	return result, nil
}

// persistTurn создаёт диалог при необходимости и атомарно дописывает ход
func (s *Service) persistTurn(ctx context.Context, userID string, conv *domain.ConversationSummary, message, response, chartURL string) (*domain.ConversationTurn, error) {
	now := time.Now().UTC()

	if conv == nil {
		newConv := &domain.ConversationSummary{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     s.resolveTitle(ctx, message),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.ConversationRepo.Create(ctx, newConv); err != nil {
			return nil, err
		}
		conv = newConv
	}

	turn := &domain.ConversationTurn{
		ConversationID:    conv.ID,
		UserID:            userID,
		Seq:               domain.NewSeqMarker(now),
		UserMessage:       message,
		AssistantResponse: response,
		CreatedAt:         now,
		ExpiresAt:         now.Add(turnTTL),
	}
	if chartURL != "" {
		turn.ChartURL = &chartURL
	}

	if err := s.ConversationRepo.AppendTurn(ctx, turn); err != nil {
		return nil, err
	}

	return turn, nil
}

// emitTurnEvent публикует событие хода fire-and-forget
func (s *Service) emitTurnEvent(ctx context.Context, event domain.TurnEvent) {
	if s.Producer == nil {
		return
	}

	go func() {
		if err := s.Producer.SendTurnEvent(ctx, event); err != nil {
			s.Log.Warn("failed to send turn event", "error", err)
		}
	}()
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func derefOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
