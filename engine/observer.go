package engine

import "github.com/tailored-agentic-units/interpreter/observability"

// Engine event types emitted while handling a turn.
const (
	EventTurnStart observability.EventType = "engine.turn.start"
	EventHistory   observability.EventType = "engine.history"
	EventDispatch  observability.EventType = "engine.dispatch"
	EventClarify   observability.EventType = "engine.clarify"
	EventStore     observability.EventType = "engine.store"
	EventRefuse    observability.EventType = "engine.refuse"
	EventPersist   observability.EventType = "engine.persist"
	EventError     observability.EventType = "engine.error"
)
