// setup.go
package rabbit

import (
	"context"
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/rabbitmq/amqp091-go"
)

const (
	CarrierStatusExchange = "carrier_status"
	StatusUpdatesQueue    = "order_tracking_status_updates"
)

// SetupConsumers declara la cola, la bindea al exchange fanout del transportista
// y consume en una goroutine hasta que se cierre el canal o el contexto.
func SetupConsumers(ctx context.Context, ch *amqp091.Channel, consumer *StatusUpdateConsumer) error {
	// 1. Declarar exchange y queue
	if err := ch.ExchangeDeclare(CarrierStatusExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", CarrierStatusExchange, err)
	}

	q, err := ch.QueueDeclare(
		StatusUpdatesQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", StatusUpdatesQueue, err)
	}

	// 2. Bindear al exchange fanout
	err = ch.QueueBind(
		q.Name,
		"", // fanout ignora routing key
		CarrierStatusExchange,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue %s: %w", q.Name, err)
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume queue %s: %w", q.Name, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					log.Warn("🐰 canal de consumo cerrado")
					return
				}
				if err := consumer.Handle(ctx, m.Body); err != nil {
					log.Errorf("❌ mensaje descartado: %v", err)
				}
			}
		}
	}()

	log.Infof("🐰 Suscrito a exchange %s (fanout)", CarrierStatusExchange)
	return nil
}
