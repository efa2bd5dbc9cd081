package chat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimblewick/MiraAI/internal/domain"
)

const sampleChart = `{
	"data": {
		"sun": {"name": "Sun", "sign": "Gem", "position": 24.5, "retrograde": false},
		"moon": {"name": "Moon", "sign": "Lib", "position": 12.3, "retrograde": false},
		"mercury": {"name": "Mercury", "sign": "Can", "position": 3.1, "retrograde": true},
		"pluto": {"name": "Pluto", "sign": "Sco", "position": 15.0, "retrograde": false}
	},
	"aspects": [
		{"aspect": "conjunction", "p1_name": "Sun", "p2_name": "Mercury", "orbit": 2.1},
		{"aspect": "quintile", "p1_name": "Sun", "p2_name": "Moon", "orbit": 1.0},
		{"aspect": "trine", "p1_name": "Jupiter", "p2_name": "Pluto", "orbit": 3.3},
		{"aspect": "square", "p1_name": "Moon", "p2_name": "Saturn", "orbit": 4.0}
	]
}`

func chartResult(data string) domain.ChartResult {
	return domain.ChartResult{Data: domain.ChartData(data)}
}

func TestBuildPrompt_Structure(t *testing.T) {
	recent := []domain.ConversationTurn{
		{UserMessage: "first question", AssistantResponse: "first answer"},
		{UserMessage: "second question", AssistantResponse: "second answer"},
	}

	payload := BuildPrompt(testProfile(), chartResult(sampleChart), recent, "What about love?")

	require.Len(t, payload.Messages, 6)
	assert.Equal(t, "system", payload.Messages[0].Role)
	assert.Contains(t, payload.Messages[0].Content, "Mira")

	assert.Equal(t, "user", payload.Messages[1].Role)
	assert.Equal(t, "first question", payload.Messages[1].Content)
	assert.Equal(t, "assistant", payload.Messages[2].Role)
	assert.Equal(t, "first answer", payload.Messages[2].Content)

	last := payload.Messages[5]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "Question: What about love?")
	assert.Contains(t, last.Content, "Zodiac Sign: Gemini")
}

func TestBuildPrompt_ChartContext(t *testing.T) {
	payload := BuildPrompt(testProfile(), chartResult(sampleChart), nil, "hi")

	context := payload.Messages[len(payload.Messages)-1].Content

	assert.Contains(t, context, "Sun: Gem 24.5°")
	assert.Contains(t, context, "Mercury: Can 3.1° (R)")
	// Плутон не входит в ключевые точки
	assert.NotContains(t, context, "Pluto: Sco")

	assert.Contains(t, context, "Sun conjunction Mercury (orb: 2.1°)")
	assert.Contains(t, context, "Moon square Saturn (orb: 4.0°)")
	// Минорный аспект отфильтрован
	assert.NotContains(t, context, "quintile")
	// Аспект без ключевых планет отфильтрован
	assert.NotContains(t, context, "Jupiter trine Pluto")
}

func TestBuildPrompt_ChartUnavailable(t *testing.T) {
	payload := BuildPrompt(testProfile(), domain.ChartResult{Unavailable: true}, nil, "hi")

	context := payload.Messages[len(payload.Messages)-1].Content
	assert.Contains(t, context, "temporarily unavailable")
	assert.NotContains(t, context, "Key Planetary Positions")
}

func TestBuildPrompt_CorruptedChartDegrades(t *testing.T) {
	payload := BuildPrompt(testProfile(), chartResult("{broken"), nil, "hi")

	context := payload.Messages[len(payload.Messages)-1].Content
	assert.Contains(t, context, "temporarily unavailable")
}

func TestTrimHistory_CapsTurnCount(t *testing.T) {
	recent := make([]domain.ConversationTurn, 0, 20)
	for i := 0; i < 20; i++ {
		recent = append(recent, domain.ConversationTurn{
			UserMessage:       fmt.Sprintf("q%d", i),
			AssistantResponse: fmt.Sprintf("a%d", i),
		})
	}

	trimmed := trimHistory(recent)

	require.Len(t, trimmed, historyMaxTurns)
	// Остаются самые свежие
	assert.Equal(t, "q8", trimmed[0].UserMessage)
	assert.Equal(t, "q19", trimmed[len(trimmed)-1].UserMessage)
}

func TestTrimHistory_DropsOldestOverCharBudget(t *testing.T) {
	big := strings.Repeat("x", historyCharBudget/2)
	recent := []domain.ConversationTurn{
		{UserMessage: big, AssistantResponse: big},
		{UserMessage: "recent question", AssistantResponse: "recent answer"},
	}

	trimmed := trimHistory(recent)

	require.Len(t, trimmed, 1)
	assert.Equal(t, "recent question", trimmed[0].UserMessage)
}

func TestFormatAspects_CapsAtTen(t *testing.T) {
	aspects := make([]chartAspect, 0, 15)
	for i := 0; i < 15; i++ {
		aspects = append(aspects, chartAspect{
			Aspect: "trine",
			P1Name: "Sun",
			P2Name: "Moon",
			Orbit:  float64(i),
		})
	}

	lines := formatAspects(aspects)

	assert.Len(t, lines, maxAspectsInPrompt)
}
