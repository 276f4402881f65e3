package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	SignalsExchange = "storefront.signals"
	signalsPrefix   = "storefront"
)

func routingKey(group string, kind Kind) string {
	return signalsPrefix + "." + group + "." + string(kind)
}

func groupBinding(group string) string {
	return signalsPrefix + "." + group + ".#"
}

func declareSignalsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		SignalsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
