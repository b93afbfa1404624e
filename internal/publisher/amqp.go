package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fortuna/standings/internal/standings"
	"github.com/streadway/amqp"
)

// DefaultExchange is the topic exchange standings messages are published to
const DefaultExchange = "standings"

// Envelope is the JSON body of a published standings message
type Envelope struct {
	LeagueKey string `json:"league_key"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// NewEnvelope wraps a message for a league
func NewEnvelope(leagueKey string, msg standings.Message) Envelope {
	return Envelope{
		LeagueKey: leagueKey,
		Kind:      string(msg.Kind),
		Text:      msg.Text,
		Timestamp: time.Now().Unix(),
	}
}

// RoutingKey returns the topic routing key for a league
func RoutingKey(leagueKey string) string {
	return StreamPrefix + leagueKey
}

// AMQPPublisher delivers standings messages to a chat bot over AMQP
type AMQPPublisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher connects to the broker and declares the exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &AMQPPublisher{url: url, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}

	p.conn = conn
	p.channel = channel
	log.Printf("[amqp] ✓ Connected, publishing to exchange %s", p.exchange)
	return nil
}

// PublishStandings publishes one message with routing key standings.<leagueKey>
func (p *AMQPPublisher) PublishStandings(ctx context.Context, leagueKey string, msg standings.Message) error {
	body, err := json.Marshal(NewEnvelope(leagueKey, msg))
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		log.Println("[amqp] Connection lost, reconnecting...")
		if err := p.connect(); err != nil {
			return err
		}
	}

	return p.channel.Publish(p.exchange, RoutingKey(leagueKey), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Close closes the channel and connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
