package rabbitmq

import (
	"github.com/streadway/amqp"

	librabbitmq "github.com/magabrotheeeer/marketplace-ledger/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/marketplace-ledger/internal/models"
)

// Publisher публикует события платежей в exchange "payments".
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishPaymentCompleted отправляет событие успешного платежа.
func (p *Publisher) PublishPaymentCompleted(event models.PaymentCompletedEvent) error {
	return librabbitmq.PublishMessage(p.ch, PaymentsExchange, PaymentCompletedKey, event)
}
