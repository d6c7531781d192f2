package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goods-gate/goods-gate/internal/domain/order"
)

const defaultResultText = "✅ Замовлення обробляється"

// Fulfillment implements order.Backend by calling the transfer-order
// procedure in the trade database and relaying its result text.
type Fulfillment struct {
	pool *pgxpool.Pool
}

func NewFulfillment(pool *pgxpool.Pool) *Fulfillment {
	return &Fulfillment{pool: pool}
}

func (f *Fulfillment) Execute(ctx context.Context, req order.Request) (string, error) {
	urgent := 0
	if req.Urgent {
		urgent = 1
	}
	row := f.pool.QueryRow(ctx,
		`SELECT create_transfer_order($1, $2, $3, $4, $5, $6)`,
		req.AccountID, req.ProductCode, req.EmployeeID, urgent, req.Receiver, req.LocationID)

	var result *string
	if err := row.Scan(&result); err != nil {
		return "", fmt.Errorf("create transfer order for account %d: %w", req.AccountID, err)
	}
	if result == nil || *result == "" {
		return defaultResultText, nil
	}
	return *result, nil
}

var _ order.Backend = (*Fulfillment)(nil)
