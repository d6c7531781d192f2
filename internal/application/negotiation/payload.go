package negotiation

import (
	"strconv"
	"strings"

	domainNegotiation "github.com/goods-gate/goods-gate/internal/domain/negotiation"
)

// Requester-side callback payloads. The chat transport echoes these back
// verbatim when the matching inline choice is pressed.
const (
	DataChangeProduct     = "change_product"
	DataRequestProduct    = "request_product"
	DataUrgent            = "urgent_1"
	DataNormal            = "urgent_0"
	DataSelfDelivery      = "self_delivery"
	DataOrderFromLocation = "order_from_location"
	DataConfirmOrder      = "confirm_order"

	pickLocationPrefix = "pick_location:"
	decisionPrefix     = "d|"
)

// PickLocationData builds the payload for a requester picking a candidate
// pickup location.
func PickLocationData(locationID int64) string {
	return pickLocationPrefix + strconv.FormatInt(locationID, 10)
}

// ParsePickLocation extracts the location id from a pick_location payload.
func ParsePickLocation(data string) (int64, bool) {
	rest, ok := strings.CutPrefix(data, pickLocationPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// EncodeDecisionData builds an approver-side payload carrying the action, the
// encoded negotiation key and an optional target location id.
func EncodeDecisionData(action domainNegotiation.Action, key domainNegotiation.Key, locationID int64) string {
	data := decisionPrefix + string(action) + "|" + key.Encode()
	if locationID != 0 {
		data += "|" + strconv.FormatInt(locationID, 10)
	}
	return data
}

// ParseDecisionData is the inverse of EncodeDecisionData. The approver id is
// filled in by the transport from the callback sender.
func ParseDecisionData(data string) (domainNegotiation.DecisionEvent, bool) {
	rest, ok := strings.CutPrefix(data, decisionPrefix)
	if !ok {
		return domainNegotiation.DecisionEvent{}, false
	}
	parts := strings.Split(rest, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return domainNegotiation.DecisionEvent{}, false
	}
	key, err := domainNegotiation.ParseKey(parts[1])
	if err != nil {
		return domainNegotiation.DecisionEvent{}, false
	}
	ev := domainNegotiation.DecisionEvent{
		Key:    key,
		Action: domainNegotiation.Action(parts[0]),
	}
	if len(parts) == 3 {
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return domainNegotiation.DecisionEvent{}, false
		}
		ev.LocationID = id
	}
	if !ev.Action.AllowedFor(key.Kind) {
		return domainNegotiation.DecisionEvent{}, false
	}
	return ev, true
}

// IsDecisionData reports whether the payload is an approver decision.
func IsDecisionData(data string) bool {
	return strings.HasPrefix(data, decisionPrefix)
}
