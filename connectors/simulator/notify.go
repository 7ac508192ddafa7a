package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/refinelab/feedplan/infra/logger"
)

// NotifyConfig defines the MQTT subscription announcing completed runs.
type NotifyConfig struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SetDefaults applies sane defaults.
func (c *NotifyConfig) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "feedplan/runs/completed"
	}
	if c.ClientID == "" {
		c.ClientID = "feedplan-" + uuid.NewString()
	}
}

// Validate checks mandatory fields.
func (c NotifyConfig) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("broker is required when notify is enabled")
	}
	return nil
}

type notification struct {
	RunID string `json:"run_id"`
}

func decodeNotification(payload []byte) (string, error) {
	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return "", fmt.Errorf("decode notification: %w", err)
	}
	if n.RunID == "" {
		return "", fmt.Errorf("notification without run_id")
	}
	return n.RunID, nil
}

// Notifier subscribes to run-complete announcements from the simulation
// service so the dashboard re-fetches without polling.
type Notifier struct {
	cfg NotifyConfig
	log logger.Logger
}

// NewNotifier creates a Notifier for the given subscription.
func NewNotifier(cfg NotifyConfig) *Notifier {
	cfg.SetDefaults()
	return &Notifier{cfg: cfg, log: logger.New("simulator-notify")}
}

// Start connects to the broker and invokes handler for every announced run
// until the context is cancelled. Malformed payloads are logged and skipped.
func (n *Notifier) Start(ctx context.Context, handler func(runID string)) error {
	opts := paho.NewClientOptions().
		AddBroker(n.cfg.Broker).
		SetClientID(n.cfg.ClientID).
		SetUsername(n.cfg.Username).
		SetPassword(n.cfg.Password).
		SetAutoReconnect(true)
	client := paho.NewClient(opts)
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	defer client.Disconnect(250)

	cb := func(_ paho.Client, msg paho.Message) {
		runID, err := decodeNotification(msg.Payload())
		if err != nil {
			n.log.Warnf("run notification dropped: %v", err)
			return
		}
		handler(runID)
	}
	if err := waitSubscribed(client.Subscribe(n.cfg.Topic, n.cfg.QoS, cb), n.cfg.Topic); err != nil {
		return err
	}
	n.log.Infof("subscribed to %s", n.cfg.Topic)
	<-ctx.Done()
	return nil
}

type subscribeToken interface {
	WaitTimeout(time.Duration) bool
	Error() error
}

// waitSubscribed confirms the subscription completed within the timeout. A
// token that times out is a failure even when it carries no error yet.
func waitSubscribed(tok subscribeToken, topic string) error {
	if !tok.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt subscribe %s: timed out", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", topic, err)
	}
	return nil
}
