// conf/validate.go

package conf

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateWebServerSettings(settings); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(settings); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateIngestSettings(&settings.Ingest); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateForecastSettings(&settings.Forecast); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateIdentitySettings(&settings.Identity); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateMQTTSettings(&settings.Integrations.MQTT); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateTelemetrySettings(&settings.Telemetry); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateWebServerSettings checks the web server listen port
func validateWebServerSettings(settings *Settings) error {
	var errs []string

	if settings.WebServer.Enabled {
		port, err := strconv.Atoi(settings.WebServer.Port)
		if err != nil || port < 1 || port > 65535 {
			errs = append(errs, "WebServer port must be a number between 1 and 65535")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateOutputSettings checks that exactly one database backend is usable
func validateOutputSettings(settings *Settings) error {
	var errs []string

	if !settings.Output.SQLite.Enabled && !settings.Output.MySQL.Enabled {
		errs = append(errs, "at least one database backend must be enabled (output.sqlite or output.mysql)")
	}

	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		errs = append(errs, "SQLite database path must not be empty")
	}

	if settings.Output.MySQL.Enabled {
		if settings.Output.MySQL.Database == "" {
			errs = append(errs, "MySQL database name must not be empty")
		}
		if settings.Output.MySQL.Host == "" {
			errs = append(errs, "MySQL host must not be empty")
		}
		if port, err := strconv.Atoi(settings.Output.MySQL.Port); err != nil || port < 1 || port > 65535 {
			errs = append(errs, "MySQL port must be a number between 1 and 65535")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateIngestSettings checks ingestion limits
func validateIngestSettings(settings *IngestSettings) error {
	var errs []string

	if settings.MaxUploadSizeMB < 1 {
		errs = append(errs, "ingest max upload size must be at least 1 MB")
	}

	if settings.BatchSize < 1 {
		errs = append(errs, "ingest batch size must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateForecastSettings checks the forecast engine configuration
func validateForecastSettings(settings *ForecastSettings) error {
	var errs []string

	if settings.Model == "" {
		errs = append(errs, "forecast model must not be empty")
	}

	if settings.Periods < 1 {
		errs = append(errs, "forecast periods must be at least 1")
	}

	if settings.IntervalWidth <= 0 || settings.IntervalWidth >= 1 {
		errs = append(errs, "forecast interval width must be between 0 and 1 exclusive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateIdentitySettings checks the identity provider configuration
func validateIdentitySettings(settings *IdentitySettings) error {
	var errs []string

	if settings.Provider != "static" {
		errs = append(errs, fmt.Sprintf("unsupported identity provider: %s", settings.Provider))
	}

	if settings.UserID == "" {
		errs = append(errs, "identity user id must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateMQTTSettings checks the MQTT integration configuration
func validateMQTTSettings(settings *MQTTSettings) error {
	var errs []string

	if settings.Enabled {
		if settings.Broker == "" {
			errs = append(errs, "MQTT broker URL must not be empty when MQTT is enabled")
		}
		if settings.Topic == "" {
			errs = append(errs, "MQTT topic must not be empty when MQTT is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateTelemetrySettings checks the Prometheus endpoint configuration
func validateTelemetrySettings(settings *TelemetrySettings) error {
	var errs []string

	if settings.Enabled {
		host, port, err := net.SplitHostPort(settings.Listen)
		if err != nil {
			errs = append(errs, "telemetry listen address must be in host:port format")
		} else {
			if host != "" && net.ParseIP(host) == nil {
				errs = append(errs, "telemetry listen host must be a valid IP address or empty")
			}
			if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
				errs = append(errs, "telemetry listen port must be a number between 1 and 65535")
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
