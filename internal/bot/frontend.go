// ABOUTME: Telegram frontend binding the gate, dashboard, and provisioning machine to telebot
// ABOUTME: Owns keyboard rendering and callback acknowledgement; no business logic lives here

package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/netkelola/pppoe-gateway/internal/auth"
	"github.com/netkelola/pppoe-gateway/internal/dashboard"
	"github.com/netkelola/pppoe-gateway/internal/dedupe"
	"github.com/netkelola/pppoe-gateway/internal/provision"
)

const deniedText = "🚫 Anda tidak memiliki izin untuk menggunakan bot ini."

// Frontend wires the Telegram transport to the rest of the system.
type Frontend struct {
	bot     *tele.Bot
	gate    *auth.Gate
	machine *provision.Machine
	dash    *dashboard.Controller
	guard   *dedupe.Guard
	logger  *slog.Logger

	ctx context.Context
}

// New builds the frontend and registers its handlers. The bot does not
// poll until Run is called.
func New(token string, gate *auth.Gate, machine *provision.Machine, dash *dashboard.Controller, guard *dedupe.Guard, logger *slog.Logger) (*Frontend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	f := &Frontend{
		bot:     b,
		gate:    gate,
		machine: machine,
		dash:    dash,
		guard:   guard,
		logger:  logger.With("component", "bot"),
		ctx:     context.Background(),
	}

	b.Handle("/start", f.onStart)
	b.Handle(tele.OnText, f.onText)
	b.Handle(tele.OnCallback, f.onCallback)

	return f, nil
}

// Run starts long polling and blocks until ctx is cancelled.
func (f *Frontend) Run(ctx context.Context) {
	f.ctx = ctx
	go func() {
		<-ctx.Done()
		f.bot.Stop()
	}()

	f.logger.Info("bot polling started", "username", f.bot.Me.Username)
	f.bot.Start()
}

// onStart shows the main menu to authorized operators.
func (f *Frontend) onStart(c tele.Context) error {
	chatID := c.Chat().ID
	f.logger.Info("/start received", "chat_id", chatID)

	if !f.gate.Authorized(f.ctx, chatID) {
		return c.Send(deniedText)
	}

	menu := &tele.ReplyMarkup{}
	menu.InlineKeyboard = [][]tele.InlineButton{
		{{Text: "🔍 Cek User PPPoE", Data: "cekuser"}},
		{{Text: "📊 Cek Statistik", Data: "cekstats"}},
		{{Text: "➕ Tambah User PPPoE", Data: "tambahuser"}},
	}
	return c.Send("📌 Pilih menu di bawah:", menu)
}

// onText feeds free-text messages into the provisioning flow. Text from
// operators with no active flow is ignored; the dashboard is driven by
// buttons, not typed commands.
func (f *Frontend) onText(c tele.Context) error {
	chatID := c.Chat().ID

	if !f.gate.Authorized(f.ctx, chatID) {
		return c.Send(deniedText)
	}

	reply, handled := f.machine.HandleText(f.ctx, chatID, c.Text())
	if !handled {
		return nil
	}
	return f.send(c, reply)
}

// onCallback handles button clicks: authorization, duplicate-delivery
// guard, acknowledgement, then routing. Profile selections are routed
// ahead of the menu payloads.
func (f *Frontend) onCallback(c tele.Context) error {
	cb := c.Callback()
	chatID := c.Chat().ID
	f.logger.Debug("callback received", "chat_id", chatID, "data", cb.Data)

	if !f.gate.Authorized(f.ctx, chatID) {
		return c.Respond(&tele.CallbackResponse{Text: deniedText, ShowAlert: true})
	}

	if f.guard != nil && f.guard.Seen(cb.ID) {
		f.logger.Debug("duplicate callback dropped", "chat_id", chatID, "callback_id", cb.ID)
		return c.Respond(&tele.CallbackResponse{})
	}

	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		f.logger.Warn("callback ack failed", "chat_id", chatID, "error", err)
	}

	kind, arg := routeCallback(cb.Data)
	switch kind {
	case CallbackProfile:
		return f.send(c, f.machine.SelectProfile(f.ctx, chatID, arg))
	case CallbackAccountList:
		return c.Send(f.dash.AccountList(f.ctx))
	case CallbackStats:
		return c.Send(f.dash.Stats(f.ctx))
	case CallbackAddUser:
		return f.send(c, f.machine.Start(f.ctx, chatID))
	default:
		f.logger.Debug("unknown callback payload", "chat_id", chatID, "data", cb.Data)
		return nil
	}
}

// send renders a machine reply, attaching one selection button per
// profile when the reply carries a profile menu.
func (f *Frontend) send(c tele.Context, reply provision.Reply) error {
	if len(reply.Profiles) == 0 {
		return c.Send(reply.Text)
	}

	markup := &tele.ReplyMarkup{}
	for _, name := range reply.Profiles {
		markup.InlineKeyboard = append(markup.InlineKeyboard, []tele.InlineButton{
			{Text: name, Data: profilePrefix + name},
		})
	}
	return c.Send(reply.Text, markup)
}
