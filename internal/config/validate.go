package config

import (
	"slices"
	"strings"
	"time"
)

var (
	minDismissAfter = time.Duration(0)
	maxDismissAfter = 1 * time.Hour

	minPollInterval = 100 * time.Millisecond
	maxPollInterval = 1 * time.Minute

	logLevels = []string{"debug", "info", "warn", "error"}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if !c.Feeding.DefaultSide.Valid() {
		return errInvalidSide.Fmt(c.Feeding.DefaultSide)
	}

	if !c.Sleep.DefaultType.Valid() {
		return errInvalidSleepType.Fmt(c.Sleep.DefaultType)
	}

	if strings.TrimSpace(c.Feeding.Title) == "" {
		return errEmptyTitle.Fmt("feeding")
	}

	if strings.TrimSpace(c.Sleep.Title) == "" {
		return errEmptyTitle.Fmt("sleep")
	}

	if !c.Display.VolumeUnit.Valid() {
		return errInvalidVolumeUnit.Fmt(c.Display.VolumeUnit)
	}

	if c.Baby.BirthDate != "" {
		if _, err := time.Parse(time.DateOnly, c.Baby.BirthDate); err != nil {
			return errInvalidBirthDate.Fmt(c.Baby.BirthDate)
		}
	}

	if err := c.validateLive(); err != nil {
		return err
	}

	if c.Mailbox.PollInterval < minPollInterval ||
		c.Mailbox.PollInterval > maxPollInterval {
		return errInvalidInterval.Fmt(
			"mailbox poll interval",
			minPollInterval,
			maxPollInterval,
		)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Settings.LogLevel)) {
		return errInvalidLogLevel.Fmt(c.Settings.LogLevel)
	}

	return nil
}

func (c *Config) validateLive() error {
	if !c.Live.Surface.valid() {
		return errInvalidSurface.Fmt(c.Live.Surface)
	}

	if c.Live.DismissAfter < minDismissAfter ||
		c.Live.DismissAfter > maxDismissAfter {
		return errInvalidInterval.Fmt(
			"live dismiss delay",
			minDismissAfter,
			maxDismissAfter,
		)
	}

	if c.Live.Surface != SurfaceMQTT {
		return nil
	}

	if strings.TrimSpace(c.Live.MQTT.Broker) == "" {
		return errMissingBroker
	}

	if c.Live.MQTT.QoS < 0 || c.Live.MQTT.QoS > 2 {
		return errInvalidQoS.Fmt(c.Live.MQTT.QoS)
	}

	return nil
}
