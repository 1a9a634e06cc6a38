package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/trueinspo/babytimer/internal/config"
	"github.com/trueinspo/babytimer/internal/models"
	"github.com/trueinspo/babytimer/internal/pathutil"
	"github.com/trueinspo/babytimer/internal/state"
	"github.com/trueinspo/babytimer/internal/ui"
	"github.com/trueinspo/babytimer/live"
	"github.com/trueinspo/babytimer/mailbox"
	"github.com/trueinspo/babytimer/notify"
	"github.com/trueinspo/babytimer/store"
	"github.com/trueinspo/babytimer/timer"
)

// env holds everything a command needs to read and change records.
type env struct {
	cfg      *config.Config
	db       *store.Client
	shared   *mailbox.SQLite
	box      *mailbox.Mailbox
	cache    *state.Cache
	mqtt     *live.MQTTSurface
	manager  *timer.Manager
	notifier notify.Notifier
	out      io.Writer
	quiet    bool
}

// loadConfig builds the configuration from the first run prompt, the config
// file and the command line, in that order.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := pathutil.ConfigFilePath()

	cfg, err := config.New(
		config.WithPromptConfig(path),
		config.WithViperConfig(path),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	setLogLevel(cfg.Settings.LogLevel)

	return cfg, nil
}

// openEnv opens the record store and the shared mailbox and loads every
// record into the cache. Commands posted by external controls are applied
// before the caller sees the records.
func openEnv(ctx *cli.Context) (*env, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		cache:    state.NewCache(),
		notifier: notify.NewDesktop(pathutil.Dir(), cfg.Notifications.Enabled),
		out:      os.Stdout,
	}

	if err := e.notifier.RequestPermission(); err != nil {
		slog.Debug("notifications unavailable", slog.Any("error", err))
	}

	e.db, err = store.NewClient(pathutil.DBFilePath())
	if err != nil {
		return nil, err
	}

	e.shared, err = mailbox.OpenSQLite(pathutil.SharedDBPath())
	if err != nil {
		_ = e.db.Close()
		return nil, err
	}

	e.box = mailbox.New(e.shared)

	for _, coll := range []models.Collection{models.Feedings, models.Sleeps} {
		records, err := e.db.List(coll)
		if err != nil {
			e.Close()
			return nil, err
		}

		e.cache.Replace(coll, records)
	}

	opts := []timer.Option{timer.OnStop(e.stopped)}

	if surface := e.surface(); surface != nil {
		opts = append(opts, timer.WithLive(live.NewBridge(
			surface,
			live.WithTitles(cfg.Titles()),
			live.WithDismissAfter(cfg.Live.DismissAfter),
		)))
	}

	e.manager = timer.NewManager(e.db, e.cache, opts...)

	e.activate(ctx.Context)

	return e, nil
}

// surface returns the configured live surface or nil when it is disabled.
// An unreachable broker is logged and leaves the live display off.
func (e *env) surface() live.Surface {
	switch e.cfg.Live.Surface {
	case config.SurfaceKV:
		return live.NewKVSurface(e.shared)
	case config.SurfaceMQTT:
		m := e.cfg.Live.MQTT

		s, err := live.NewMQTTSurface(live.MQTTConfig{
			Broker:   m.Broker,
			ClientID: m.ClientID,
			Topic:    m.Topic,
			Username: m.Username,
			Password: m.Password,
			QoS:      byte(m.QoS),
		}, e.box)
		if err != nil {
			slog.Warn("live surface unavailable", slog.Any("error", err))
			return live.Unsupported{}
		}

		e.mqtt = s

		return s
	}

	return nil
}

// activate applies a pending external command and brings the live display
// in line with the records.
func (e *env) activate(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	cmd, err := e.manager.Drain(ctx, e.box)
	if err != nil {
		slog.Warn("external command not applied", slog.Any("error", err))
		e.persistenceWarning(err)
	}

	if cmd != nil {
		slog.Info("applied external command", slog.String("action", string(cmd.Action)))
	}

	e.manager.Reconcile(ctx)
}

// persistenceWarning tells the user that a change may not have been saved.
func (e *env) persistenceWarning(err error) {
	if !errors.Is(err, timer.ErrPersistence) {
		return
	}

	_ = e.notifier.Send(notify.TagPersistence, "Change not saved", err.Error())
}

func (e *env) Close() {
	if e.mqtt != nil {
		e.mqtt.Close()
	}

	if e.shared != nil {
		_ = e.shared.Close()
	}

	if e.db != nil {
		_ = e.db.Close()
	}
}
