package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/trueinspo/babytimer/internal/osutil"
)

const (
	keyBabyName             = "baby.name"
	keyBabyBirthDate        = "baby.birth_date"
	keyFeedingDefaultSide   = "feeding.default_side"
	keyFeedingTitle         = "feeding.title"
	keySleepDefaultType     = "sleep.default_type"
	keySleepTitle           = "sleep.title"
	keyLiveSurface          = "live.surface"
	keyLiveDismissAfter     = "live.dismiss_after"
	keyMQTTBroker           = "live.mqtt.broker"
	keyMQTTClientID         = "live.mqtt.client_id"
	keyMQTTTopic            = "live.mqtt.topic"
	keyMQTTQoS              = "live.mqtt.qos"
	keyMQTTUsername         = "live.mqtt.username"
	keyMQTTPassword         = "live.mqtt.password"
	keyMailboxPollInterval  = "mailbox.poll_interval"
	keyNotificationsEnabled = "notifications.enabled"
	keyDarkTheme            = "display.dark_theme"
	keyTwentyFourHour       = "display.24hr_clock"
	keyVolumeUnit           = "display.volume_unit"
	keySessionCmd           = "settings.cmd"
	keyLogLevel             = "settings.log_level"
)

// WithViperConfig returns an Option that loads configuration from Viper. A
// default config file is written when none exists yet.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		err = os.MkdirAll(filepath.Dir(configPath), osutil.DirPermission)
		if err != nil {
			return errWriteConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and any values chosen in the
// first run prompt.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyBabyName, "")
	v.SetDefault(keyBabyBirthDate, "")
	v.SetDefault(keyFeedingDefaultSide, "left")
	v.SetDefault(keyFeedingTitle, "Feeding")
	v.SetDefault(keySleepDefaultType, "nap")
	v.SetDefault(keySleepTitle, "Sleeping")
	v.SetDefault(keyLiveSurface, string(SurfaceKV))
	v.SetDefault(keyLiveDismissAfter, "4s")
	v.SetDefault(keyMQTTBroker, "")
	v.SetDefault(keyMQTTClientID, "babytimer")
	v.SetDefault(keyMQTTTopic, "babytimer")
	v.SetDefault(keyMQTTQoS, 1)
	v.SetDefault(keyMQTTUsername, "")
	v.SetDefault(keyMQTTPassword, "")
	v.SetDefault(keyMailboxPollInterval, "1s")
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyVolumeUnit, "ml")
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyLogLevel, "info")

	if c.Baby.Name != "" {
		v.Set(keyBabyName, c.Baby.Name)
	}

	if c.Baby.BirthDate != "" {
		v.Set(keyBabyBirthDate, c.Baby.BirthDate)
	}

	if c.Display.VolumeUnit != "" {
		v.Set(keyVolumeUnit, string(c.Display.VolumeUnit))
	}

	if c.Feeding.DefaultSide != "" {
		v.Set(keyFeedingDefaultSide, string(c.Feeding.DefaultSide))
	}

	if c.Sleep.DefaultType != "" {
		v.Set(keySleepDefaultType, string(c.Sleep.DefaultType))
	}

	if c.Live.Surface != "" {
		v.Set(keyLiveSurface, string(c.Live.Surface))
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	cli := c.CLI

	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	c.CLI = cli

	return nil
}
