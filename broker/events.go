package broker

type EventType string

const (
	// Standardized event types in format: <resource>.<action>
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"

	// TaskMoved fires for the status-change step of a cross-column drag,
	// before the ordinal batch lands. Consumers key column-entry effects
	// (the "done" celebration) off this event.
	TaskMoved EventType = "task.moved"

	CleanupSwept EventType = "cleanup.swept"
)

// Subject wildcards for consumers.
const (
	TaskSubject    = "task.*"
	CleanupSubject = "cleanup.*"
)
