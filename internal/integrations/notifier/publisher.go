// Package notifier publishes booking lifecycle events to a RabbitMQ topic
// exchange. Delivery of emails and SMS is done by a separate consumer.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Channel подмножество *amqp.Channel, используемое издателем
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher издатель событий бронирований
type Publisher struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string
	timeout  time.Duration
	now      func() time.Time
	log      Logger
}

// Dial подключается к брокеру и объявляет durable topic exchange
func Dial(url, exchange string, timeout time.Duration, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	log.Info("Notifier: connected, publishing to exchange %s", exchange)

	p := NewPublisher(channel, exchange, timeout, log)
	p.conn = conn
	return p, nil
}

// NewPublisher создает издателя поверх открытого канала
func NewPublisher(channel Channel, exchange string, timeout time.Duration, log Logger) *Publisher {
	return &Publisher{
		channel:  channel,
		exchange: exchange,
		timeout:  timeout,
		now:      time.Now,
		log:      log,
	}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *domain.Booking) error {
	return p.publish(ctx, EventBookingCreated, booking)
}

func (p *Publisher) BookingUpdated(ctx context.Context, booking *domain.Booking) error {
	return p.publish(ctx, EventBookingUpdated, booking)
}

func (p *Publisher) BookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return p.publish(ctx, EventBookingCancelled, booking)
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	body, err := json.Marshal(newEvent(eventType, booking, p.now()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, eventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    booking.ID.String(),
		Timestamp:    p.now().UTC(),
		Type:         eventType,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %s for booking %s: %v", ErrPublish, eventType, booking.ID, err)
	}

	p.log.Info("Notifier: published %s for booking %s", eventType, booking.Number)
	return nil
}

// Noop издатель для выключенных уведомлений
type Noop struct{}

func (Noop) BookingCreated(context.Context, *domain.Booking) error   { return nil }
func (Noop) BookingUpdated(context.Context, *domain.Booking) error   { return nil }
func (Noop) BookingCancelled(context.Context, *domain.Booking) error { return nil }
func (Noop) Close() error                                            { return nil }
