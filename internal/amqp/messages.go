package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published to the ledger exchange.
const (
	EventChoreCompleted   = "chore_completed"
	EventChoreUncompleted = "chore_uncompleted"
	EventPrizeRedeemed    = "prize_redeemed"
	EventChoreReset       = "chore_reset"
)

// LedgerEvent is the message published for every balance-affecting operation
// and for scheduler resets. Consumers fetch full rows from the database; the
// message carries ids and the amount only.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	PersonID  int64     `json:"person_id,omitempty"`
	ChoreID   int64     `json:"chore_id,omitempty"`
	PrizeID   int64     `json:"prize_id,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
