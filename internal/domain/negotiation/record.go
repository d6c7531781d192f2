package negotiation

import (
	"errors"
	"time"
)

// Action is what an approver did with a pending prompt.
type Action string

const (
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionSelectLocation  Action = "select-location"
	ActionConfirmLocation Action = "confirm-location"
	ActionChangeLocation  Action = "change-location"
	ActionCancel          Action = "cancel"
)

// AllowedFor reports whether the action is legal for the given flow.
func (a Action) AllowedFor(kind Kind) bool {
	switch kind {
	case KindSensitiveApproval:
		return a == ActionApprove || a == ActionReject
	case KindShopSelection:
		return a == ActionSelectLocation || a == ActionCancel
	case KindSelfDelivery:
		return a == ActionConfirmLocation || a == ActionChangeLocation || a == ActionReject
	}
	return false
}

var (
	ErrAccessDenied = errors.New("requester is not allowed to use the bot")
	ErrNotFound     = errors.New("not found")
	ErrNoApprovers  = errors.New("no approvers configured for required group")
	ErrInvalidInput = errors.New("invalid input")
)

// Resolution is the decision that closed a negotiation.
type Resolution struct {
	Action     Action
	ApproverID int64
	LocationID int64
}

// Record pins the first resolution recorded for a key. Written at most once.
type Record struct {
	Key        Key
	Resolution Resolution
	DecidedAt  time.Time
}

// DecisionEvent is an approver's action on a pending prompt, delivered as a
// single atomic event by the chat transport's inline-choice callback.
type DecisionEvent struct {
	Key        Key
	Action     Action
	LocationID int64
	ApproverID int64
}

// Registry is a first-write-wins cache of negotiation outcomes. It is the
// concurrency-correctness primitive of the whole design: TryClaim must be an
// atomic check-and-set.
type Registry interface {
	// TryClaim records res for key if no record exists yet. It returns the
	// resolution that actually holds the key and whether this call won it.
	TryClaim(key Key, res Resolution) (Resolution, bool)
	// Get returns the record for key, if any.
	Get(key Key) (*Record, bool)
	// ClearAccount removes every record whose key embeds the account id,
	// matched on the structural field, and returns how many were removed.
	ClearAccount(accountID int64) int
}
