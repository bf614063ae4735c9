package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/observability"
)

// RecordEvent is the JSON payload published for each manually ingested
// emission record.
type RecordEvent struct {
	BusinessID      string  `json:"business_id"`
	SourceCategory  string  `json:"source_category"`
	EmissionsKgCO2e float64 `json:"emissions_kgCO2e"`
	Date            string  `json:"date"`
}

// UploadEvent is the JSON payload published once per bulk CSV upload.
type UploadEvent struct {
	Records    int       `json:"records"`
	Businesses []string  `json:"businesses"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// uploadTopicSuffix separates bulk upload summaries from per-record events.
const uploadTopicSuffix = "/uploads"

// Publisher publishes ingest events to the configured MQTT topic.
// Publishing is best effort: failures are logged and never propagated
// to the caller, so a broker outage cannot fail an ingest request.
type Publisher struct {
	client  Client
	topic   string
	timeout time.Duration
}

// NewPublisher creates a Publisher from the MQTT integration settings.
// When the integration is disabled it returns a Publisher whose methods
// are no-ops.
func NewPublisher(settings *conf.Settings, obs *observability.Metrics) *Publisher {
	if settings == nil || !settings.Integrations.MQTT.Enabled {
		return &Publisher{}
	}

	config := DefaultConfig()
	config.Broker = settings.Integrations.MQTT.Broker
	config.ClientID = settings.Main.Name
	config.Username = settings.Integrations.MQTT.Username
	config.Password = settings.Integrations.MQTT.Password
	config.Retain = settings.Integrations.MQTT.Retain
	if settings.Integrations.MQTT.Topic != "" {
		config.Topic = settings.Integrations.MQTT.Topic
	}

	return &Publisher{
		client:  NewClient(config, obs),
		topic:   config.Topic,
		timeout: config.PublishTimeout,
	}
}

// Enabled reports whether the publisher has a configured client.
func (p *Publisher) Enabled() bool {
	return p != nil && p.client != nil
}

// Start connects to the broker. A failed initial connection is logged
// and left to the client's reconnect handling.
func (p *Publisher) Start(ctx context.Context) {
	if !p.Enabled() {
		return
	}
	if err := p.client.Connect(ctx); err != nil {
		getLogger().Warn("initial MQTT connection failed, will keep retrying", "error", err)
	}
}

// Stop disconnects from the broker.
func (p *Publisher) Stop() {
	if p.Enabled() {
		p.client.Disconnect()
	}
}

// PublishRecord publishes a single ingest event for the given record.
func (p *Publisher) PublishRecord(record *datastore.Record) {
	if !p.Enabled() || record == nil {
		return
	}
	p.publish(p.topic, RecordEvent{
		BusinessID:      record.BusinessID,
		SourceCategory:  record.SourceCategory,
		EmissionsKgCO2e: record.EmissionsKgCO2e,
		Date:            record.Date,
	})
}

// PublishUpload publishes one summary event for a bulk CSV upload.
func (p *Publisher) PublishUpload(records int, businesses []string) {
	if !p.Enabled() {
		return
	}
	p.publish(p.topic+uploadTopicSuffix, UploadEvent{
		Records:    records,
		Businesses: businesses,
		UploadedAt: time.Now().UTC(),
	})
}

func (p *Publisher) publish(topic string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		getLogger().Error("failed to marshal MQTT event", "topic", topic, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, topic, string(payload)); err != nil {
		getLogger().Warn("failed to publish MQTT event", "topic", topic, "error", err)
	}
}
