package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/trueinspo/babytimer/internal/models"
)

type (
	// Config holds all configuration settings
	Config struct {
		Baby          BabyConfig         `mapstructure:"baby"`
		Feeding       FeedingConfig      `mapstructure:"feeding"`
		Sleep         SleepConfig        `mapstructure:"sleep"`
		Live          LiveConfig         `mapstructure:"live"`
		Mailbox       MailboxConfig      `mapstructure:"mailbox"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Display       DisplayConfig      `mapstructure:"display"`
		Settings      SettingsConfig     `mapstructure:"settings"`
		CLI           CLIConfig          `mapstructure:"-"`
	}

	// BabyConfig holds the baby's profile
	BabyConfig struct {
		Name      string `mapstructure:"name"`
		BirthDate string `mapstructure:"birth_date"`
	}

	// FeedingConfig holds breastfeeding timer settings
	FeedingConfig struct {
		DefaultSide models.Side `mapstructure:"default_side"`
		Title       string      `mapstructure:"title"`
	}

	// SleepConfig holds sleep timer settings
	SleepConfig struct {
		DefaultType models.SleepType `mapstructure:"default_type"`
		Title       string           `mapstructure:"title"`
	}

	// LiveConfig selects and configures the live activity surface
	LiveConfig struct {
		Surface      SurfaceKind   `mapstructure:"surface"`
		DismissAfter time.Duration `mapstructure:"dismiss_after"`
		MQTT         MQTTConfig    `mapstructure:"mqtt"`
	}

	// MQTTConfig holds the broker settings of the mqtt surface
	MQTTConfig struct {
		Broker   string `mapstructure:"broker"`
		ClientID string `mapstructure:"client_id"`
		Topic    string `mapstructure:"topic"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		QoS      int    `mapstructure:"qos"`
	}

	// MailboxConfig holds external action mailbox settings
	MailboxConfig struct {
		PollInterval time.Duration `mapstructure:"poll_interval"`
	}

	// NotificationConfig holds notification settings
	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		VolumeUnit     models.VolumeUnit `mapstructure:"volume_unit"`
		DarkTheme      bool              `mapstructure:"dark_theme"`
		TwentyFourHour bool              `mapstructure:"24hr_clock"`
	}

	// SettingsConfig holds miscellaneous settings
	SettingsConfig struct {
		Cmd      string `mapstructure:"cmd"`
		LogLevel string `mapstructure:"log_level"`
	}

	// CLIConfig holds values that only live for a single invocation
	CLIConfig struct {
		At          time.Time
		Interactive bool
	}

	// Option is a function that modifies Config
	Option func(*Config) error

	// SurfaceKind names a live activity surface implementation.
	SurfaceKind string
)

const Version = "v0.3.0"

const (
	SurfaceKV   SurfaceKind = "kv"
	SurfaceMQTT SurfaceKind = "mqtt"
	SurfaceOff  SurfaceKind = "off"
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config with default values and applies options
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// Titles maps each timed kind to the title shown on the live surface.
func (c *Config) Titles() map[models.Kind]string {
	return map[models.Kind]string{
		models.KindBreastfeeding: c.Feeding.Title,
		models.KindSleep:         c.Sleep.Title,
	}
}

// Metadata returns the defaults applied to a newly started timer.
func (c *Config) Metadata() models.Metadata {
	return models.Metadata{
		Side:      c.Feeding.DefaultSide,
		SleepType: c.Sleep.DefaultType,
	}
}

// TimeFormat returns the clock layout used when printing times.
func (c *Config) TimeFormat() string {
	if c.Display.TwentyFourHour {
		return "15:04"
	}

	return "03:04 PM"
}

// BirthDate returns the baby's birth date, if one is set, as midnight local
// time.
func (c *Config) BirthDate() (time.Time, bool) {
	if c.Baby.BirthDate == "" {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(time.DateOnly, c.Baby.BirthDate, time.Local)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func (s SurfaceKind) String() string {
	return string(s)
}

func (s SurfaceKind) valid() bool {
	switch s {
	case SurfaceKV, SurfaceMQTT, SurfaceOff:
		return true
	}

	return false
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"surface=%s side=%s sleep=%s notify=%t",
		c.Live.Surface,
		c.Feeding.DefaultSide,
		c.Sleep.DefaultType,
		c.Notifications.Enabled,
	)
}
