package session

import (
	"time"

	"github.com/goods-gate/goods-gate/internal/domain/catalog"
)

// State is the negotiation state machine position for one requester. Free
// text is interpreted from the state alone: only StateReceiverName reads the
// next message as a receiver name, everything else expects a product code.
type State string

const (
	StateIdle                 State = "IDLE"
	StateProductShown         State = "PRODUCT_SHOWN"
	StateOrderTypeChoice      State = "ORDER_TYPE_CHOICE"
	StateSensitivePending     State = "SENSITIVE_APPROVAL_PENDING"
	StateShopSelectionPending State = "SHOP_SELECTION_PENDING"
	StateLocationChoice       State = "LOCATION_CHOICE"
	StateLocationChosen       State = "LOCATION_CHOSEN"
	StateReceiverName         State = "AWAITING_RECEIVER_NAME"
	StateSelfDeliveryPending  State = "SELF_DELIVERY_APPROVAL_PENDING"
	StateFinalConfirmation    State = "FINAL_CONFIRMATION"
)

// Urgency is a tri-state: unset until the requester picks an order type.
type Urgency int

const (
	UrgencyUnset Urgency = iota
	UrgencyNormal
	UrgencyUrgent
)

func (u Urgency) Urgent() bool { return u == UrgencyUrgent }

// Session is the per-requester conversational state. It is owned by the
// negotiation router; all mutation goes through Store.Mutate so edits to one
// requester are serialized.
type Session struct {
	RequesterID      int64
	Context          *catalog.Profile
	State            State
	ProductCode      int64
	Urgency          Urgency
	SelfDelivery     bool
	SelectedLocation *catalog.Location
	ReceiverName     string
	UpdatedAt        time.Time
}

// Clear wipes everything negotiated so far but keeps the requester identity
// and resolved profile. Used between unrelated requests.
func (s *Session) Clear() {
	s.State = StateIdle
	s.ProductCode = 0
	s.Urgency = UrgencyUnset
	s.SelfDelivery = false
	s.SelectedLocation = nil
	s.ReceiverName = ""
}

// Store keeps sessions keyed by requester identity. Mutations of a single
// requester are serialized; different requesters do not block each other.
type Store interface {
	// Get returns a copy of the session for requesterID, if one exists.
	Get(requesterID int64) (*Session, bool)
	// Mutate runs fn against the requester's session, creating it first if
	// absent, and persists the result.
	Mutate(requesterID int64, fn func(*Session))
	// Reset clears the negotiated state for requesterID. It is idempotent
	// and a no-op for unknown requesters.
	Reset(requesterID int64)
	// FindByAccount resolves a session through the account-id index.
	FindByAccount(accountID int64) (*Session, bool)
}
