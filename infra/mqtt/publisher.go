// Package mqtt delivers device commands and outage warnings to a
// home-automation broker. It is the engine's boundary to the external
// notification and switching fabric.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/gridmate/gridmate/core/model"
	"github.com/gridmate/gridmate/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	MaxRetries  int    `json:"max_retries"`
	BackoffMS   int    `json:"backoff_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = "home"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

// Publisher delivers commands and alerts over MQTT.
type Publisher interface {
	PublishCommand(deviceID string, status model.DeviceStatus) (string, error)
	PublishAlert(message string) error
	Close()
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoPublisher implements Publisher using Eclipse Paho.
type PahoPublisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewPahoPublisher connects to the MQTT broker.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	log := logger.New("mqtt-publisher")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoPublisher{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// PublishCommand sends a switch command to the device topic and returns the
// command identifier.
func (p *PahoPublisher) PublishCommand(deviceID string, status model.DeviceStatus) (string, error) {
	cmdID := uuid.NewString()
	cmd := struct {
		CommandID string             `json:"command_id"`
		DeviceID  string             `json:"device_id"`
		Status    model.DeviceStatus `json:"status"`
		Timestamp int64              `json:"timestamp"`
	}{
		CommandID: cmdID,
		DeviceID:  deviceID,
		Status:    status,
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return "", err
	}
	topic := fmt.Sprintf("%s/devices/%s/set", p.prefix, deviceID)
	if err := p.publish(topic, payload); err != nil {
		return "", err
	}
	p.log.Infof("sent command %s to %s", cmdID, topic)
	return cmdID, nil
}

// PublishAlert delivers an outage warning on the alerts topic.
func (p *PahoPublisher) PublishAlert(message string) error {
	alert := struct {
		ID        string `json:"id"`
		Message   string `json:"message"`
		Timestamp int64  `json:"timestamp"`
	}{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return p.publish(fmt.Sprintf("%s/alerts", p.prefix), payload)
}

func (p *PahoPublisher) publish(topic string, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		p.log.Warnf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(p.backoff * time.Duration(attempt+1))
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() {
	p.cli.Disconnect(250)
}

// NopPublisher drops all messages. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCommand(string, model.DeviceStatus) (string, error) { return "", nil }
func (NopPublisher) PublishAlert(string) error                                 { return nil }
func (NopPublisher) Close()                                                    {}
