package catalog

import (
	"context"
	"time"
)

// Product is a read-only snapshot of one catalog item.
type Product struct {
	Code     int64
	Name     string
	Price    float64
	BrandID  int64
	PhotoURL string
}

// Profile is the resolved requester context: which wholesale account the chat
// identity belongs to and how it may order.
type Profile struct {
	RequesterID  int64
	AccountID    int64
	AccountName  string
	DisplayName  string
	EmployeeID   int64
	OwnerName    string
	SelfDelivery bool
}

// Location is a shop or warehouse that can fulfil an order.
type Location struct {
	ID       int64
	Name     string
	Quantity *int64
}

// StockRow is one line of the per-shop availability report.
type StockRow struct {
	LocationName string
	ProductCode  int64
	Quantity     int64
}

// InterestRow records a client that asked about the product recently.
type InterestRow struct {
	Date         time.Time
	AccountName  string
	LocationName string
	ManagerName  string
}

// PledgeRow records an open pledge (collateral) on the product.
type PledgeRow struct {
	Date        time.Time
	BranchName  string
	Amount      float64
	SellerName  string
	SellerPhone string
}

// LocationFilter selects which candidate-location query to run.
type LocationFilter string

const (
	// FilterSelfDelivery lists Kyiv pickup shops only.
	FilterSelfDelivery LocationFilter = "self-delivery"
	// FilterShopSelection lists warehouse stock plus top shops for dispatch.
	FilterShopSelection LocationFilter = "shop-selection"
	// FilterAll lists every shop holding the product.
	FilterAll LocationFilter = "all"
)

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_directory.go -package=mocks . Directory

// Directory is the read side of the trade database. Lookups return nil (not
// an error) when the entity does not exist.
type Directory interface {
	Authorize(ctx context.Context, requesterID int64) (*Profile, error)
	LookupProduct(ctx context.Context, code int64) (*Product, error)
	IsSensitiveBrand(ctx context.Context, brandID int64) (bool, error)
	LookupStock(ctx context.Context, code int64) ([]StockRow, error)
	LookupCandidateLocations(ctx context.Context, code int64, filter LocationFilter) ([]Location, error)
	LookupInterestHistory(ctx context.Context, code int64) ([]InterestRow, error)
	LookupPledgeStatus(ctx context.Context, code int64) ([]PledgeRow, error)
}
