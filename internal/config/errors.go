package config

import "github.com/trueinspo/babytimer/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidSide = &apperr.Error{
		Message: "default side must be one of left, right or both, got %q",
	}

	errInvalidSleepType = &apperr.Error{
		Message: "default sleep type must be nap or night, got %q",
	}

	errInvalidSurface = &apperr.Error{
		Message: "live surface must be one of kv, mqtt or off, got %q",
	}

	errMissingBroker = &apperr.Error{
		Message: "the mqtt surface requires live.mqtt.broker to be set",
	}

	errInvalidQoS = &apperr.Error{
		Message: "mqtt qos must be 0, 1 or 2, got %d",
	}

	errInvalidInterval = &apperr.Error{
		Message: "%s must be between %v and %v",
	}

	errEmptyTitle = &apperr.Error{
		Message: "%s title cannot be empty",
	}

	errInvalidVolumeUnit = &apperr.Error{
		Message: "unknown volume unit: %s (use ml or oz)",
	}

	errInvalidBirthDate = &apperr.Error{
		Message: "invalid birth date: %s (use YYYY-MM-DD)",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "unknown log level: %s",
	}

	errInvalidAt = &apperr.Error{
		Message: "invalid --at time",
	}
)
