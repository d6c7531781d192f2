package order

import "context"

// Request carries everything the trade system needs to create a transfer
// order for a confirmed negotiation.
type Request struct {
	AccountID   int64
	ProductCode int64
	EmployeeID  int64
	Urgent      bool
	Receiver    string
	LocationID  int64
}

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_backend.go -package=mocks . Backend

// Backend executes a confirmed order and returns the human-readable result
// text produced by the fulfilment procedure.
type Backend interface {
	Execute(ctx context.Context, req Request) (string, error)
}
