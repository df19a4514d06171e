// ABOUTME: Conversational state machine for provisioning a new PPPoE secret
// ABOUTME: Collects username, password, and profile across messages, then commits behind a confirm gate

package provision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/netkelola/pppoe-gateway/internal/session"
)

// RouterClient is what the machine needs from the router: the profile
// menu for the selection step and the final account creation.
type RouterClient interface {
	ListProfiles(ctx context.Context) ([]string, error)
	CreateSecret(ctx context.Context, name, password, profile string) error
}

// AuditRecorder receives provisioning outcomes for the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, chatID int64, action, detail string)
}

// Reply is what the machine wants said back to the operator. When
// Profiles is non-empty the frontend renders one selection button per
// profile beneath the text.
type Reply struct {
	Text     string
	Profiles []string
}

// Machine drives the provisioning conversation. All methods serialize
// per actor through the session store's locks: two events from the same
// chat never interleave, while distinct chats proceed concurrently.
type Machine struct {
	sessions *session.Store
	router   RouterClient
	audit    AuditRecorder
	logger   *slog.Logger
}

// New creates a provisioning machine. audit may be nil.
func New(sessions *session.Store, router RouterClient, audit AuditRecorder, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		sessions: sessions,
		router:   router,
		audit:    audit,
		logger:   logger.With("component", "provision"),
	}
}

// Start begins a new provisioning flow for the actor. Any draft already
// in progress is replaced wholesale.
func (m *Machine) Start(ctx context.Context, chatID int64) Reply {
	m.sessions.Lock(chatID)
	defer m.sessions.Unlock(chatID)

	m.sessions.Set(chatID, session.Draft{Step: session.StepAwaitingUsername})
	m.logger.Info("provisioning started", "chat_id", chatID)

	return Reply{Text: "👤 Masukkan username untuk user PPPoE baru:"}
}

// HandleText feeds a free-text message into the flow. The second return
// is false when the actor has no active flow; the frontend then ignores
// the message entirely (dashboard actions have their own entry points).
func (m *Machine) HandleText(ctx context.Context, chatID int64, text string) (Reply, bool) {
	m.sessions.Lock(chatID)
	defer m.sessions.Unlock(chatID)

	draft := m.sessions.Get(chatID)

	switch draft.Step {
	case session.StepAwaitingUsername:
		draft.Username = text
		draft.Step = session.StepAwaitingPassword
		m.sessions.Set(chatID, draft)
		return Reply{Text: "🔑 Masukkan password untuk user baru:"}, true

	case session.StepAwaitingPassword:
		draft.Password = text
		return m.promptProfiles(ctx, chatID, draft), true

	case session.StepAwaitingProfile:
		// A profile click is expected here; free text is rejected, not
		// stored, so a stray message can't overwrite the selection step.
		return Reply{Text: "📦 Pilih profile dengan menekan salah satu tombol."}, true

	case session.StepAwaitingConfirm:
		return m.finish(ctx, chatID, draft, text), true

	default:
		return Reply{}, false
	}
}

// SelectProfile feeds a profile button click into the flow. Clicks
// arriving outside the selection step (stale keyboards, replayed
// callbacks) are answered with a notice and change nothing.
func (m *Machine) SelectProfile(ctx context.Context, chatID int64, name string) Reply {
	m.sessions.Lock(chatID)
	defer m.sessions.Unlock(chatID)

	draft := m.sessions.Get(chatID)
	if draft.Step != session.StepAwaitingProfile {
		m.logger.Debug("profile selection outside flow", "chat_id", chatID, "step", draft.Step)
		return Reply{Text: "Tidak ada proses penambahan user yang aktif."}
	}

	draft.Profile = name
	draft.Step = session.StepAwaitingConfirm
	m.sessions.Set(chatID, draft)

	text := fmt.Sprintf(
		"📝 Konfirmasi user baru:\nUsername: %s\nPassword: %s\nProfile: %s\n\nKetik \"ya\" untuk menyimpan, atau apa saja untuk membatalkan.",
		draft.Username, draft.Password, draft.Profile,
	)
	return Reply{Text: text}
}

// promptProfiles queries the router for the profile menu. Both a backend
// failure and a genuinely empty menu abort the flow back to Idle, with
// distinct messages so the operator knows which happened.
func (m *Machine) promptProfiles(ctx context.Context, chatID int64, draft session.Draft) Reply {
	profiles, err := m.router.ListProfiles(ctx)
	if err != nil {
		m.logger.Error("profile listing failed", "chat_id", chatID, "error", err)
		m.sessions.Clear(chatID)
		return Reply{Text: fmt.Sprintf("⚠️ Gagal mengambil daftar profile: %v", err)}
	}
	if len(profiles) == 0 {
		m.logger.Warn("no profiles configured on router", "chat_id", chatID)
		m.sessions.Clear(chatID)
		return Reply{Text: "❌ Tidak ada profile yang tersedia di router. Penambahan user dibatalkan."}
	}

	draft.Step = session.StepAwaitingProfile
	m.sessions.Set(chatID, draft)

	return Reply{
		Text:     "📦 Pilih profile untuk user baru:",
		Profiles: profiles,
	}
}

// finish resolves the confirm gate: a case-insensitive "ya" commits, any
// other text cancels. The draft is cleared either way, so a repeated
// "ya" afterwards hits the Idle path and never commits twice.
func (m *Machine) finish(ctx context.Context, chatID int64, draft session.Draft, text string) Reply {
	m.sessions.Clear(chatID)

	if !strings.EqualFold(strings.TrimSpace(text), "ya") {
		m.logger.Info("provisioning cancelled", "chat_id", chatID)
		if m.audit != nil {
			m.audit.Record(ctx, chatID, "provision_cancelled", draft.Username)
		}
		return Reply{Text: "❌ Penambahan user dibatalkan."}
	}

	if err := m.router.CreateSecret(ctx, draft.Username, draft.Password, draft.Profile); err != nil {
		m.logger.Error("secret creation failed", "chat_id", chatID, "username", draft.Username, "error", err)
		return Reply{Text: fmt.Sprintf("⚠️ Gagal membuat user: %v", err)}
	}

	m.logger.Info("secret created", "chat_id", chatID, "username", draft.Username, "profile", draft.Profile)
	if m.audit != nil {
		m.audit.Record(ctx, chatID, "secret_created", draft.Username)
	}
	return Reply{Text: fmt.Sprintf("✅ User PPPoE %q berhasil dibuat dengan profile %q.", draft.Username, draft.Profile)}
}
