package chat

import (
	"context"
	"strings"
)

const (
	defaultTitle      = "New Conversation"
	titleTruncateLen  = 50
	titleMaxLen       = 100
)

// resolveTitle подбирает заголовок нового диалога по первому сообщению.
// Сначала модель (3-5 слов), при сбое - обрезка сообщения, для пустого -
// дефолт. Сбой генерации заголовка никогда не роняет ход
func (s *Service) resolveTitle(ctx context.Context, firstMessage string) string {
	trimmed := strings.TrimSpace(firstMessage)
	if trimmed == "" {
		return defaultTitle
	}

	title, err := s.LLMService.GenerateTitle(ctx, trimmed)
	if err != nil {
		s.Log.Warn("title generation failed, falling back to truncation", "error", err)
		return truncateTitle(trimmed, titleTruncateLen)
	}

	return truncateTitle(title, titleMaxLen)
}

// truncateTitle обрезает по рунам, не разрывая символ
func truncateTitle(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
