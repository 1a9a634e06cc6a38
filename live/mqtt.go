package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/trueinspo/babytimer/mailbox"
)

const (
	mqttConnectTimeout = 5 * time.Second
	mqttPublishTimeout = 3 * time.Second
)

// MQTTConfig holds the broker settings of an MQTTSurface.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	Username string
	Password string
	QoS      byte
}

// MQTTSurface publishes the display as a retained message on <topic>/live so
// a remote screen can render it. Remote buttons publish commands on
// <topic>/commands; they are forwarded into the mailbox.
type MQTTSurface struct {
	client mqtt.Client
	box    *mailbox.Mailbox
	last   *SurfaceState
	now    func() time.Time
	topic  string
	qos    byte
	mu     sync.Mutex
}

// NewMQTTSurface connects to the broker and subscribes to both topics.
func NewMQTTSurface(cfg MQTTConfig, box *mailbox.Mailbox) (*MQTTSurface, error) {
	s := &MQTTSurface{
		box:   box,
		now:   time.Now,
		topic: cfg.Topic,
		qos:   cfg.QoS,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.OnConnect = s.onConnect
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		slog.Warn("mqtt connection lost", slog.Any("error", err))
	}

	s.client = mqtt.NewClient(opts)

	token := s.client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("connecting to %s: timed out", cfg.Broker)
	}

	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Broker, err)
	}

	return s, nil
}

func (s *MQTTSurface) liveTopic() string {
	return s.topic + "/live"
}

func (s *MQTTSurface) commandTopic() string {
	return s.topic + "/commands"
}

func (s *MQTTSurface) onConnect(client mqtt.Client) {
	slog.Debug("mqtt connected", slog.String("topic", s.topic))

	client.Subscribe(s.liveTopic(), s.qos, s.handleLive)
	client.Subscribe(s.commandTopic(), s.qos, s.handleCommand)
}

// handleLive caches the retained display so a new process can adopt it.
func (s *MQTTSurface) handleLive(_ mqtt.Client, msg mqtt.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(msg.Payload()) == 0 {
		s.last = nil
		return
	}

	var st SurfaceState

	if err := json.Unmarshal(msg.Payload(), &st); err != nil {
		slog.Warn("ignoring malformed live message", slog.Any("error", err))
		return
	}

	s.last = &st
}

func (s *MQTTSurface) handleCommand(_ mqtt.Client, msg mqtt.Message) {
	var cmd mailbox.Command

	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		slog.Warn("ignoring malformed remote command", slog.Any("error", err))
		return
	}

	if err := s.box.Post(context.Background(), cmd); err != nil {
		slog.Warn("forwarding remote command failed",
			slog.String("action", string(cmd.Action)),
			slog.Any("error", err),
		)
	}
}

func (s *MQTTSurface) Supported() bool {
	return s.client != nil && s.client.IsConnectionOpen()
}

func (s *MQTTSurface) Request(
	ctx context.Context,
	attrs Attributes,
	state ContentState,
) (Activity, error) {
	err := s.publish(ctx, &SurfaceState{
		Attributes:    attrs,
		Authoritative: state,
		Phase:         PhaseActive,
	})
	if err != nil {
		return nil, err
	}

	return &mqttActivity{surface: s, attrs: attrs}, nil
}

func (s *MQTTSurface) Current(context.Context) (Activity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil || s.last.Phase != PhaseActive {
		return nil, false, nil
	}

	return &mqttActivity{surface: s, attrs: s.last.Attributes}, true, nil
}

func (s *MQTTSurface) publish(ctx context.Context, st *SurfaceState) error {
	var payload []byte

	if st != nil {
		st.UpdatedAt = s.now()

		b, err := json.Marshal(st)
		if err != nil {
			return err
		}

		payload = b
	}

	token := s.client.Publish(s.liveTopic(), s.qos, true, payload)

	timeout := mqttPublishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publishing to %s: timed out", s.liveTopic())
	}

	if err := token.Error(); err != nil {
		return err
	}

	s.mu.Lock()
	s.last = st
	s.mu.Unlock()

	return nil
}

// Close disconnects from the broker.
func (s *MQTTSurface) Close() {
	s.client.Disconnect(250)
}

type mqttActivity struct {
	surface *MQTTSurface
	attrs   Attributes
}

func (a *mqttActivity) Attributes() Attributes {
	return a.attrs
}

func (a *mqttActivity) Update(ctx context.Context, state ContentState) error {
	return a.surface.publish(ctx, &SurfaceState{
		Attributes:    a.attrs,
		Authoritative: state,
		Phase:         PhaseActive,
	})
}

func (a *mqttActivity) End(
	ctx context.Context,
	state ContentState,
	policy DismissalPolicy,
) error {
	if policy.After <= 0 {
		// an empty retained payload clears the topic
		return a.surface.publish(ctx, nil)
	}

	dismissAt := a.surface.now().Add(policy.After)

	return a.surface.publish(ctx, &SurfaceState{
		Attributes:    a.attrs,
		Authoritative: state,
		Phase:         PhaseEnded,
		DismissAt:     &dismissAt,
	})
}
