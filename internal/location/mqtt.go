package location

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"placemark-api/internal/models"
)

// Provider tracks the device position feed. Positions arrive either over
// MQTT (the device publishes to a position topic) or as client reports
// through the HTTP facade. The latest position backs one-shot reads and
// watchers get every update until they dispose their subscription.
type Provider struct {
	mu     sync.RWMutex
	last   *models.Coordinate
	subs   map[int]chan models.Coordinate
	subSeq int

	client mqtt.Client
	topic  string
}

type positionPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// New creates a provider without a broker connection. It is fully usable in
// this state; Report is then the only position source.
func New() *Provider {
	return &Provider{subs: make(map[int]chan models.Coordinate)}
}

// Connect attaches the provider to an MQTT broker and subscribes to the
// position topic. The subscription is re-established automatically after a
// reconnect.
func (p *Provider) Connect(ctx context.Context, broker, clientID, topic string) error {
	p.topic = topic

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(c mqtt.Client) {
			if token := c.Subscribe(p.topic, 1, p.handleMessage); token.Wait() && token.Error() != nil {
				log.Error().Err(token.Error()).Str("topic", p.topic).Msg("position topic subscribe failed")
				return
			}
			log.Info().Str("topic", p.topic).Msg("subscribed to position feed")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("location: connect to broker %q: %w", broker, err)
	}

	p.mu.Lock()
	p.client = client
	p.mu.Unlock()
	return nil
}

// Close disconnects from the broker, if connected.
func (p *Provider) Close() {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.mu.Unlock()

	if client != nil {
		client.Disconnect(250)
	}
}

func (p *Provider) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var payload positionPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("malformed position payload")
		return
	}

	coord := models.Coordinate{Latitude: payload.Latitude, Longitude: payload.Longitude}
	if !coord.Valid() {
		log.Warn().
			Float64("latitude", coord.Latitude).
			Float64("longitude", coord.Longitude).
			Msg("position payload out of range")
		return
	}

	p.Report(coord)
}

// Report records a position update and fans it out to watchers. Slow
// watchers miss intermediate updates instead of blocking the feed.
func (p *Provider) Report(c models.Coordinate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = &c
	for _, ch := range p.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// RequestPermission reports whether a position feed exists at all. There is
// no OS prompt on this side; the device gates its own sensors.
func (p *Provider) RequestPermission(ctx context.Context) (models.PermissionDecision, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.client != nil || p.last != nil {
		return models.PermissionGranted, nil
	}
	return models.PermissionDenied, nil
}

// CurrentPosition returns the last known position.
func (p *Provider) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.last == nil {
		return models.Coordinate{}, models.ErrPositionUnavailable
	}
	return *p.last, nil
}

// Watch subscribes to position updates. The subscription lives until the
// stop function is called or the context ends; callers must stop it when the
// owning screen or session goes away.
func (p *Provider) Watch(ctx context.Context) (<-chan models.Coordinate, func(), error) {
	p.mu.Lock()
	id := p.subSeq
	p.subSeq++
	ch := make(chan models.Coordinate, 1)
	p.subs[id] = ch
	p.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}

	go func() {
		<-ctx.Done()
		stop()
	}()

	return ch, stop, nil
}
