package conf

import (
	"testing"
)

func validSettings() *Settings {
	s := &Settings{}
	s.Main.Name = "GreenPulse"
	s.WebServer.Enabled = true
	s.WebServer.Port = "8080"
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "greenpulse.db"
	s.Ingest.MaxUploadSizeMB = 25
	s.Ingest.BatchSize = 500
	s.Forecast.Model = "seasonal-trend"
	s.Forecast.Periods = 12
	s.Forecast.IntervalWidth = 0.8
	s.Identity.Provider = "static"
	s.Identity.UserID = "1"
	s.Identity.Username = "dev"
	return s
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{
			name:    "default settings - should pass",
			mutate:  func(s *Settings) {},
			wantErr: false,
		},
		{
			name: "invalid web server port - should fail",
			mutate: func(s *Settings) {
				s.WebServer.Port = "notaport"
			},
			wantErr: true,
		},
		{
			name: "web server disabled with invalid port - should pass",
			mutate: func(s *Settings) {
				s.WebServer.Enabled = false
				s.WebServer.Port = "notaport"
			},
			wantErr: false,
		},
		{
			name: "no database backend enabled - should fail",
			mutate: func(s *Settings) {
				s.Output.SQLite.Enabled = false
			},
			wantErr: true,
		},
		{
			name: "sqlite enabled without path - should fail",
			mutate: func(s *Settings) {
				s.Output.SQLite.Path = ""
			},
			wantErr: true,
		},
		{
			name: "mysql enabled with valid settings - should pass",
			mutate: func(s *Settings) {
				s.Output.SQLite.Enabled = false
				s.Output.MySQL.Enabled = true
				s.Output.MySQL.Database = "greenpulse"
				s.Output.MySQL.Host = "localhost"
				s.Output.MySQL.Port = "3306"
			},
			wantErr: false,
		},
		{
			name: "mysql enabled with out of range port - should fail",
			mutate: func(s *Settings) {
				s.Output.MySQL.Enabled = true
				s.Output.MySQL.Database = "greenpulse"
				s.Output.MySQL.Host = "localhost"
				s.Output.MySQL.Port = "99999"
			},
			wantErr: true,
		},
		{
			name: "zero ingest batch size - should fail",
			mutate: func(s *Settings) {
				s.Ingest.BatchSize = 0
			},
			wantErr: true,
		},
		{
			name: "forecast interval width of 1 - should fail",
			mutate: func(s *Settings) {
				s.Forecast.IntervalWidth = 1.0
			},
			wantErr: true,
		},
		{
			name: "forecast periods of zero - should fail",
			mutate: func(s *Settings) {
				s.Forecast.Periods = 0
			},
			wantErr: true,
		},
		{
			name: "unsupported identity provider - should fail",
			mutate: func(s *Settings) {
				s.Identity.Provider = "oauth"
			},
			wantErr: true,
		},
		{
			name: "mqtt enabled without broker - should fail",
			mutate: func(s *Settings) {
				s.Integrations.MQTT.Enabled = true
				s.Integrations.MQTT.Topic = "greenpulse/emissions"
			},
			wantErr: true,
		},
		{
			name: "mqtt enabled with broker and topic - should pass",
			mutate: func(s *Settings) {
				s.Integrations.MQTT.Enabled = true
				s.Integrations.MQTT.Broker = "tcp://localhost:1883"
				s.Integrations.MQTT.Topic = "greenpulse/emissions"
			},
			wantErr: false,
		},
		{
			name: "telemetry enabled with bad listen address - should fail",
			mutate: func(s *Settings) {
				s.Telemetry.Enabled = true
				s.Telemetry.Listen = "nonsense"
			},
			wantErr: true,
		},
		{
			name: "telemetry enabled with valid listen address - should pass",
			mutate: func(s *Settings) {
				s.Telemetry.Enabled = true
				s.Telemetry.Listen = "0.0.0.0:8090"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := validSettings()
			tt.mutate(settings)

			err := ValidateSettings(settings)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
