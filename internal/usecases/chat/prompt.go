package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kimblewick/MiraAI/internal/domain"
)

const (
	// historyMaxTurns сколько последних ходов попадает в промпт
	historyMaxTurns = 12

	// historyCharBudget суммарный бюджет символов истории,
	// старые ходы выбрасываются первыми
	historyCharBudget = 6000

	maxAspectsInPrompt = 10
)

const systemPersona = `You are Mira, an empathetic and insightful astrology companion.

Your role is to provide supportive, personalized guidance based on users' astrological birth charts.

Guidelines:
- Be warm, understanding, and non-judgmental
- Interpret astrological data in accessible, meaningful ways
- Focus on personal growth and self-awareness
- Avoid making absolute predictions
- Encourage users to use astrology as a tool for reflection, not fate
- Be concise but thoughtful in your responses

When analyzing charts, consider planetary positions, aspects, and houses to provide nuanced insights.`

const chartUnavailableNote = `Astrology data is temporarily unavailable for this request. ` +
	`Answer from general astrological knowledge for the user's zodiac sign and mention that ` +
	`personalized chart details will be included once the data is available again.`

var keyPlanets = []string{
	"sun", "moon", "mercury", "venus", "mars",
	"jupiter", "saturn", "ascendant", "medium_coeli",
}

var majorAspectTypes = map[string]bool{
	"conjunction": true,
	"opposition":  true,
	"trine":       true,
	"square":      true,
	"sextile":     true,
}

var aspectKeyPlanets = map[string]bool{
	"Sun":       true,
	"Moon":      true,
	"Ascendant": true,
	"Mercury":   true,
	"Venus":     true,
	"Mars":      true,
}

// planetPosition позиция точки карты в ответе провайдера
type planetPosition struct {
	Name       string  `json:"name"`
	Sign       string  `json:"sign"`
	Position   float64 `json:"position"`
	Retrograde bool    `json:"retrograde"`
}

// chartAspect аспект между точками карты
type chartAspect struct {
	Aspect string  `json:"aspect"`
	P1Name string  `json:"p1_name"`
	P2Name string  `json:"p2_name"`
	Orbit  float64 `json:"orbit"`
}

// chartPayload формат полезной нагрузки карты от провайдера
type chartPayload struct {
	Data    map[string]planetPosition `json:"data"`
	Aspects []chartAspect             `json:"aspects"`
}

// BuildPrompt собирает вход модели: персона, история, контекст + вопрос.
// Чистая функция без I/O, результат детерминирован
func BuildPrompt(profile *domain.UserProfile, chart domain.ChartResult, recent []domain.ConversationTurn, message string) domain.PromptPayload {
	messages := make([]domain.PromptMessage, 0, 2+2*len(recent))

	messages = append(messages, domain.PromptMessage{
		Role:    "system",
		Content: systemPersona,
	})

	for _, turn := range trimHistory(recent) {
		messages = append(messages,
			domain.PromptMessage{Role: "user", Content: turn.UserMessage},
			domain.PromptMessage{Role: "assistant", Content: turn.AssistantResponse},
		)
	}

	userContext := formatUserContext(profile, chart)
	messages = append(messages, domain.PromptMessage{
		Role:    "user",
		Content: fmt.Sprintf("%s\n\nQuestion: %s", userContext, message),
	})

	return domain.PromptPayload{Messages: messages}
}

// trimHistory оставляет последние historyMaxTurns ходов и укладывает их
// в бюджет символов, отбрасывая старые первыми
func trimHistory(recent []domain.ConversationTurn) []domain.ConversationTurn {
	if len(recent) > historyMaxTurns {
		recent = recent[len(recent)-historyMaxTurns:]
	}

	total := 0
	for _, turn := range recent {
		total += len(turn.UserMessage) + len(turn.AssistantResponse)
	}

	for len(recent) > 0 && total > historyCharBudget {
		total -= len(recent[0].UserMessage) + len(recent[0].AssistantResponse)
		recent = recent[1:]
	}

	return recent
}

// formatUserContext сжатый астрологический контекст: профиль,
// ключевые планеты и мажорные аспекты
func formatUserContext(profile *domain.UserProfile, chart domain.ChartResult) string {
	var b strings.Builder

	b.WriteString("User Profile:\n")
	b.WriteString(fmt.Sprintf("- Zodiac Sign: %s\n", valueOrUnknown(profile.ZodiacSign)))
	b.WriteString(fmt.Sprintf("- Birth Date: %s\n", valueOrUnknown(profile.BirthDate)))
	b.WriteString(fmt.Sprintf("- Birth Location: %s\n", valueOrUnknown(profile.BirthLocation)))

	if chart.Unavailable || len(chart.Data) == 0 {
		b.WriteString("\n")
		b.WriteString(chartUnavailableNote)
		return b.String()
	}

	var payload chartPayload
	if err := json.Unmarshal(chart.Data, &payload); err != nil {
		b.WriteString("\n")
		b.WriteString(chartUnavailableNote)
		return b.String()
	}

	b.WriteString("\nKey Planetary Positions:\n")
	planetLines := formatPlanets(payload.Data)
	if len(planetLines) == 0 {
		b.WriteString("  (No planetary data available)\n")
	} else {
		for _, line := range planetLines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nMajor Aspects:\n")
	aspectLines := formatAspects(payload.Aspects)
	if len(aspectLines) == 0 {
		b.WriteString("  (No major aspects found)\n")
	} else {
		for _, line := range aspectLines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatPlanets только ключевые точки, в фиксированном порядке
func formatPlanets(data map[string]planetPosition) []string {
	lines := make([]string, 0, len(keyPlanets))
	for _, key := range keyPlanets {
		planet, ok := data[key]
		if !ok {
			continue
		}

		name := planet.Name
		if name == "" {
			name = capitalize(key)
		}
		sign := planet.Sign
		if sign == "" {
			sign = "Unknown"
		}

		retro := ""
		if planet.Retrograde {
			retro = " (R)"
		}

		lines = append(lines, fmt.Sprintf("  %s: %s %.1f°%s", name, sign, planet.Position, retro))
	}
	return lines
}

// formatAspects только мажорные аспекты с участием ключевых планет, максимум 10
func formatAspects(aspects []chartAspect) []string {
	lines := make([]string, 0, maxAspectsInPrompt)
	for i, aspect := range aspects {
		if i >= 20 {
			break
		}

		aspectType := strings.ToLower(aspect.Aspect)
		if !majorAspectTypes[aspectType] {
			continue
		}
		if !aspectKeyPlanets[aspect.P1Name] && !aspectKeyPlanets[aspect.P2Name] {
			continue
		}

		lines = append(lines, fmt.Sprintf("  %s %s %s (orb: %.1f°)",
			aspect.P1Name, aspectType, aspect.P2Name, aspect.Orbit))
		if len(lines) >= maxAspectsInPrompt {
			break
		}
	}
	return lines
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
