// ABOUTME: Read-only dashboard actions: the PPPoE account list and online/offline stats
// ABOUTME: Formats router data for chat display; backend failures become user-visible strings

package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/netkelola/pppoe-gateway/internal/routeros"
)

// RouterReader is what the dashboard needs from the router.
type RouterReader interface {
	ListSecrets(ctx context.Context) ([]routeros.Secret, error)
	Stats(ctx context.Context) (routeros.Stats, error)
}

// Controller serves the menu actions that need no conversation state.
// Every method returns display text; errors never escape past it.
type Controller struct {
	router RouterReader
	logger *slog.Logger
}

// New creates a dashboard controller.
func New(router RouterReader, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		router: router,
		logger: logger.With("component", "dashboard"),
	}
}

// AccountList formats all PPPoE secrets as "name - profile" lines.
func (c *Controller) AccountList(ctx context.Context) string {
	secrets, err := c.router.ListSecrets(ctx)
	if err != nil {
		c.logger.Error("account listing failed", "error", err)
		return fmt.Sprintf("⚠️ Error: %v", err)
	}
	if len(secrets) == 0 {
		return "❌ Tidak ada user PPPoE yang terdaftar."
	}

	var b strings.Builder
	b.WriteString("📋 Daftar User PPPoE:\n")
	for _, s := range secrets {
		profile := s.Profile
		if profile == "" {
			profile = "No Profile"
		}
		fmt.Fprintf(&b, "%s - %s\n", s.Name, profile)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Stats formats the online/offline/total subscriber counts.
func (c *Controller) Stats(ctx context.Context) string {
	stats, err := c.router.Stats(ctx)
	if err != nil {
		c.logger.Error("stats query failed", "error", err)
		return fmt.Sprintf("⚠️ Error: %v", err)
	}

	return fmt.Sprintf(
		"📊 Statistik PPPoE:\n🟢 Online: %d\n🔴 Offline: %d\n👥 Total: %d",
		stats.Online, stats.Offline, stats.Total,
	)
}
