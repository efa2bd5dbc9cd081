package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kimblewick/MiraAI/internal/ports/repository"
)

const (
	retentionReaperName = "retention-reaper"

	// purgeAfter срок, после которого soft-deleted диалоги удаляются физически
	purgeAfter = 30 * 24 * time.Hour
)

// RetentionReaper джоба очистки: истёкшие ходы и давно удалённые диалоги,
// каждый день в 04:00 UTC
type RetentionReaper struct {
	conversations repository.IConversationRepo
	log           *slog.Logger
}

func NewRetentionReaper(
	conversations repository.IConversationRepo,
	log *slog.Logger,
) *RetentionReaper {
	return &RetentionReaper{
		conversations: conversations,
		log:           log,
	}
}

func (j *RetentionReaper) Name() string {
	return retentionReaperName
}

// NextRun каждый день в 04:00 UTC
func (j *RetentionReaper) NextRun(now time.Time) time.Time {
	nowUTC := now.UTC()
	next := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 4, 0, 0, 0, time.UTC)
	if next.Before(nowUTC) || next.Equal(nowUTC) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Run удаляет ходы с истёкшим TTL и чистит давно soft-deleted диалоги
func (j *RetentionReaper) Run(ctx context.Context) error {
	now := time.Now().UTC()

	expired, err := j.conversations.DeleteExpiredTurns(ctx, now)
	if err != nil {
		return fmt.Errorf("delete expired turns: %w", err)
	}

	purged, err := j.conversations.PurgeDeleted(ctx, now.Add(-purgeAfter))
	if err != nil {
		return fmt.Errorf("purge deleted conversations: %w", err)
	}

	j.log.Info("retention reaper finished",
		"expired_turns", expired,
		"purged_conversations", purged,
	)

	return nil
}
