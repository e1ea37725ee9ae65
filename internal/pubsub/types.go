package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	// EventRosterUpdated fires after every committed allocation run.
	EventRosterUpdated EventType = "roster-updated"
	// EventMatchPlayed fires on the closed to played transition.
	EventMatchPlayed EventType = "match-played"
	// EventPositionVacant fires when replacement finds no eligible substitute.
	EventPositionVacant EventType = "position-vacant"
	// EventRecalcRequested fires when a recalculation was skipped on a busy
	// lease. The push consumer retries the skipped work; nothing publishes it
	// on a successful run, so consuming it never schedules another delivery.
	EventRecalcRequested EventType = "roster-recalc"
)

// RosterEvent is the payload published on roster and lifecycle topics.
type RosterEvent struct {
	MatchID  string `msgpack:"match_id"`
	GroupID  string `msgpack:"group_id"`
	State    string `msgpack:"state"`
	Position string `msgpack:"position,omitempty"`
}
