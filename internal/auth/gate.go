// ABOUTME: Allow-list gate deciding which chat IDs may operate the bot
// ABOUTME: Every entry point checks here before any state mutation or router call

package auth

import (
	"context"
	"log/slog"
)

// AuditRecorder receives authorization and provisioning events for the
// audit trail. Implementations must never block handling; failures are
// theirs to log.
type AuditRecorder interface {
	Record(ctx context.Context, chatID int64, action, detail string)
}

// Gate answers whether a chat ID is allowed to use the bot. The
// allow-list is fixed at construction and never mutated, so lookups need
// no locking.
type Gate struct {
	allowed map[int64]struct{}
	audit   AuditRecorder
	logger  *slog.Logger
}

// NewGate builds a Gate from the configured chat IDs. audit may be nil.
func NewGate(chatIDs []int64, audit AuditRecorder, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		allowed[id] = struct{}{}
	}
	return &Gate{
		allowed: allowed,
		audit:   audit,
		logger:  logger.With("component", "auth"),
	}
}

// Authorized reports whether chatID is on the allow-list. Denials are
// logged at warn level and recorded in the audit trail; nothing about
// the denied request's content is kept.
func (g *Gate) Authorized(ctx context.Context, chatID int64) bool {
	if _, ok := g.allowed[chatID]; ok {
		g.logger.Debug("access granted", "chat_id", chatID)
		return true
	}

	g.logger.Warn("access denied", "chat_id", chatID)
	if g.audit != nil {
		g.audit.Record(ctx, chatID, "access_denied", "")
	}
	return false
}

// Empty reports whether the allow-list has no entries at all. Main warns
// on startup when this is the case: the bot runs but authorizes no one.
func (g *Gate) Empty() bool {
	return len(g.allowed) == 0
}
