package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTitle_EmptyMessage(t *testing.T) {
	svc := newTestService(defaultDeps())

	assert.Equal(t, defaultTitle, svc.resolveTitle(context.Background(), "  "))
}

func TestResolveTitle_FromModel(t *testing.T) {
	deps := defaultDeps()
	deps.llm.title = "Love And Venus"
	svc := newTestService(deps)

	assert.Equal(t, "Love And Venus", svc.resolveTitle(context.Background(), "tell me about venus"))
}

func TestResolveTitle_ModelTitleTruncated(t *testing.T) {
	deps := defaultDeps()
	deps.llm.title = strings.Repeat("t", titleMaxLen+20)
	svc := newTestService(deps)

	title := svc.resolveTitle(context.Background(), "long one")

	assert.Len(t, []rune(title), titleMaxLen)
}

func TestResolveTitle_FallsBackToTruncatedMessage(t *testing.T) {
	deps := defaultDeps()
	deps.llm.titleErr = errors.New("model down")
	svc := newTestService(deps)

	message := strings.Repeat("m", titleTruncateLen+30)
	title := svc.resolveTitle(context.Background(), message)

	assert.Equal(t, message[:titleTruncateLen], title)
}

func TestTruncateTitle_RuneSafe(t *testing.T) {
	title := truncateTitle("звёзды и планеты", 6)

	assert.Equal(t, "звёзды", title)
}
