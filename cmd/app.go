package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/PolarWolf314/hexalock/internal/audit"
	"github.com/PolarWolf314/hexalock/internal/configs"
	"github.com/PolarWolf314/hexalock/internal/db"
	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/notify"
	"github.com/PolarWolf314/hexalock/internal/otp"
	"github.com/PolarWolf314/hexalock/internal/secrets"
	"github.com/PolarWolf314/hexalock/internal/workflows"
)

// app is everything one command invocation needs, built from configuration.
type app struct {
	settings *configs.Settings
	cfg      *configs.Config
	conn     *sql.DB
	wf       *workflows.Workflow
}

// loadConfig resolves settings and the effective configuration.
func loadConfig() (*configs.Settings, *configs.Config, string, error) {
	settings, err := configs.LoadSettings()
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}

	path := configPath
	if path == "" {
		path = settings.ConfigPath()
	}
	Logger.Debugf("Loading configuration from %s", path)
	if info, statErr := os.Stat(path); statErr == nil && info.Mode().Perm()&0o077 != 0 {
		Logger.WarnfAlways("Config file %s has overly permissive permissions (%o), consider running 'chmod 600 %s'",
			path, info.Mode().Perm(), path)
	}

	cfg, err := configs.Load(settings, path, nil)
	if err != nil {
		return nil, nil, "", err
	}
	if userFlag != "" {
		cfg.User = userFlag
	}

	return settings, cfg, path, nil
}

// openApp opens the database and wires the workflow. Notifications that print
// go to out. The caller must Close the app.
func openApp(ctx context.Context, out io.Writer) (*app, error) {
	settings, cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	Logger.Debugf("Opening database %s", cfg.Database.Path)
	conn, err := db.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if v, err := db.Version(ctx, conn); err == nil {
		Logger.Debugf("Database schema version %d", v)
	}

	auditLog := newAuditLog(cfg, conn)
	notifier, err := newNotifier(cfg, out)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	cipher := secrets.NewCipher(secrets.WithMaxAge(time.Duration(cfg.Cipher.MaxPayloadAge)))
	wf := workflows.New(otp.NewSQLiteStore(conn), auditLog, notifier,
		workflows.WithCipher(cipher),
		workflows.WithKDFParams(cfg.KDF),
		workflows.WithLogger(Logger),
	)
	Logger.Debugf("Using %s audit log and %s notifier", cfg.Audit.Backend, cfg.Notify.Backend)

	return &app{settings: settings, cfg: cfg, conn: conn, wf: wf}, nil
}

func (a *app) Close() error {
	return a.conn.Close()
}

func newAuditLog(cfg *configs.Config, conn *sql.DB) audit.Log {
	if cfg.Audit.Backend == configs.AuditJSONL {
		return audit.NewFileLog(cfg.Audit.Path)
	}
	return audit.NewSQLiteLog(conn)
}

func newNotifier(cfg *configs.Config, out io.Writer) (notify.Sender, error) {
	switch cfg.Notify.Backend {
	case configs.NotifyOutbox:
		return notify.NewOutboxSender(cfg.Notify.OutboxDir), nil
	case configs.NotifyPostmark:
		return notify.NewPostmarkSender(cfg.Notify.Postmark)
	default:
		return notify.NewConsoleSender(out), nil
	}
}

// workflowForInspect returns a workflow without storage. It only serves
// operations that read files and never audit, such as Inspect.
func workflowForInspect() *workflows.Workflow {
	return workflows.New(nil, nil, nil, workflows.WithLogger(Logger))
}
