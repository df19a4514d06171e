// ABOUTME: Entry point for the pppoe-gateway Telegram bot
// ABOUTME: Loads configuration, wires components, and runs the long-polling frontend

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/netkelola/pppoe-gateway/internal/auth"
	"github.com/netkelola/pppoe-gateway/internal/bot"
	"github.com/netkelola/pppoe-gateway/internal/config"
	"github.com/netkelola/pppoe-gateway/internal/dashboard"
	"github.com/netkelola/pppoe-gateway/internal/dedupe"
	"github.com/netkelola/pppoe-gateway/internal/provision"
	"github.com/netkelola/pppoe-gateway/internal/routeros"
	"github.com/netkelola/pppoe-gateway/internal/session"
	"github.com/netkelola/pppoe-gateway/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
 _ __  _ __  _ __   ___   ___        __ _  __ _| |_ _____      ____ _ _   _
| '_ \| '_ \| '_ \ / _ \ / _ \_____ / _' |/ _' | __/ _ \ \ /\ / / _' | | | |
| |_) | |_) | |_) | (_) |  __/_____| (_| | (_| | ||  __/\ V  V / (_| | |_| |
| .__/| .__/| .__/ \___/ \___|      \__, |\__,_|\__\___| \_/\_/ \__,_|\__, |
|_|   |_|   |_|                     |___/                             |___/
`

// getConfigPath returns the path to the gateway config file.
// Priority: PPPOE_CONFIG env var > ./gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("PPPOE_CONFIG"); envPath != "" {
		return envPath
	}
	return "gateway.yaml"
}

// logLevel maps the configured level name to a slog level.
func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	var audit *store.AuditStore
	if cfg.Audit.Path != "" {
		audit, err = store.Open(cfg.Audit.Path, logger)
		if err != nil {
			return fmt.Errorf("opening audit store: %w", err)
		}
		defer audit.Close()
	}

	// auth.Gate and provision.Machine each declare their own recorder
	// interface; a nil *AuditStore must stay a nil interface value.
	var gateAudit auth.AuditRecorder
	var machineAudit provision.AuditRecorder
	if audit != nil {
		gateAudit = audit
		machineAudit = audit
	}

	gate := auth.NewGate(cfg.Telegram.AllowedChatIDs, gateAudit, logger)
	if gate.Empty() {
		logger.Warn("allowed_chat_ids is empty; the bot will authorize no one")
	}

	router := routeros.New(cfg.Mikrotik.Address, cfg.Mikrotik.Username, cfg.Mikrotik.Password, logger)
	sessions := session.NewStore()
	machine := provision.New(sessions, router, machineAudit, logger)
	dash := dashboard.New(router, logger)

	guard := dedupe.New(5*time.Minute, 1024)
	defer guard.Close()

	frontend, err := bot.New(cfg.Telegram.Token, gate, machine, dash, guard, logger)
	if err != nil {
		return err
	}

	logger.Info("pppoe-gateway starting",
		"mikrotik", cfg.Mikrotik.Address,
		"operators", len(cfg.Telegram.AllowedChatIDs),
	)

	frontend.Run(ctx)

	logger.Info("pppoe-gateway stopped")
	return nil
}
