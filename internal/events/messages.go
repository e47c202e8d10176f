package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Ledger entities and actions carried by events.
const (
	EntityUser        = "user"
	EntityTransaction = "transaction"
	EntityBudget      = "budget"
	EntityGoal        = "goal"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionSaved   = "savings_added"
)

// LedgerEvent describes one applied ledger mutation. Consumers fetch
// nothing extra: the event itself is the audit record.
type LedgerEvent struct {
	EventID    string    `json:"event_id"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   int64     `json:"entity_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewLedgerEvent creates an event with a fresh id and timestamp.
func NewLedgerEvent(entity, action string, entityID, userID int64) *LedgerEvent {
	return &LedgerEvent{
		EventID:    uuid.NewString(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
