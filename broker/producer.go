package broker

import (
	"log"

	"kanban-lite/kanban/config"

	"github.com/nats-io/nats.go"
)

var conn *nats.Conn

// InitProducer connects to NATS. The server runs fine without a broker;
// callers treat an error here as a degraded mode, not a startup failure.
func InitProducer(cfg config.Config) error {
	var err error
	conn, err = nats.Connect(cfg.NatsURL,
		nats.Name("kanban-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("Reconnected to NATS at %s", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("Disconnected from NATS: %v", err)
			}
		}),
	)
	if err != nil {
		conn = nil
		return err
	}
	log.Println("NATS producer initialized")
	return nil
}

// PublishMessage publishes an event payload. Publishing without a broker
// connection is a silent no-op so mutations never fail on event delivery.
func PublishMessage(subject string, value string) {
	if conn == nil {
		return
	}
	if err := conn.Publish(subject, []byte(value)); err != nil {
		log.Printf("Failed to publish message to %s: %v", subject, err)
	}
}

func CloseProducer() {
	if conn != nil {
		if err := conn.Drain(); err != nil {
			log.Printf("Failed to drain NATS connection: %v", err)
		}
		conn = nil
	}
}
