package broker

import (
	"testing"

	"kanban-lite/kanban/config"

	"github.com/stretchr/testify/assert"
)

func TestPublishMessage_WithoutConnection(t *testing.T) {
	conn = nil

	// No broker is a supported mode; publishing must be a quiet no-op.
	PublishMessage(string(TaskCreated), `{"task_id":1}`)
}

func TestInitProducer_UnreachableServer(t *testing.T) {
	cfg := config.Config{NatsURL: "nats://127.0.0.1:1"}

	err := InitProducer(cfg)
	assert.Error(t, err)
	assert.Nil(t, conn)

	// Degraded mode still accepts publishes.
	PublishMessage(string(TaskUpdated), `{"task_id":1}`)
}

func TestCloseProducer_WithoutConnection(t *testing.T) {
	conn = nil
	CloseProducer()
}
