package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	gocache "github.com/patrickmn/go-cache"

	"github.com/goods-gate/goods-gate/internal/domain/catalog"
)

// Directory implements catalog.Directory against the trade database.
// Authorize results are cached: the profile rarely changes and every inbound
// message triggers an identity check.
type Directory struct {
	pool     *pgxpool.Pool
	profiles *gocache.Cache
}

func NewDirectory(pool *pgxpool.Pool, profileTTL time.Duration) *Directory {
	return &Directory{
		pool:     pool,
		profiles: gocache.New(profileTTL, 2*profileTTL),
	}
}

func (d *Directory) Authorize(ctx context.Context, requesterID int64) (*catalog.Profile, error) {
	cacheKey := strconv.FormatInt(requesterID, 10)
	if cached, ok := d.profiles.Get(cacheKey); ok {
		return cached.(*catalog.Profile), nil
	}

	row := d.pool.QueryRow(ctx, `
		SELECT t.account_id, COALESCE(w.account_name, ''), t.display_name,
		       t.employee_id, COALESCE(e.full_name, '(невідомо)'), t.self_delivery
		FROM bot_accounts t
		LEFT JOIN wholesale_accounts w ON t.account_id = w.account_id
		LEFT JOIN employees e ON t.employee_id = e.employee_id
		WHERE t.requester_id = $1
	`, requesterID)

	p := &catalog.Profile{RequesterID: requesterID}
	err := row.Scan(&p.AccountID, &p.AccountName, &p.DisplayName, &p.EmployeeID, &p.OwnerName, &p.SelfDelivery)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authorize requester %d: %w", requesterID, err)
	}
	d.profiles.SetDefault(cacheKey, p)
	return p, nil
}

func (d *Directory) LookupProduct(ctx context.Context, code int64) (*catalog.Product, error) {
	row := d.pool.QueryRow(ctx, `SELECT code, name, price, brand_id, photo_url FROM goods_card($1)`, code)
	p := &catalog.Product{}
	err := row.Scan(&p.Code, &p.Name, &p.Price, &p.BrandID, &p.PhotoURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup product %d: %w", code, err)
	}
	return p, nil
}

func (d *Directory) IsSensitiveBrand(ctx context.Context, brandID int64) (bool, error) {
	row := d.pool.QueryRow(ctx, `SELECT flag FROM sensitive_brands WHERE brand_id = $1`, brandID)
	var flag int
	err := row.Scan(&flag)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sensitive brand %d: %w", brandID, err)
	}
	return flag == 1, nil
}

func (d *Directory) LookupStock(ctx context.Context, code int64) ([]catalog.StockRow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT l.location_name, s.product_code, s.quantity
		FROM stock_levels s
		JOIN locations l ON s.location_id = l.location_id
		WHERE s.product_code = $1
	`, code)
	if err != nil {
		return nil, fmt.Errorf("stock for %d: %w", code, err)
	}
	defer rows.Close()

	var out []catalog.StockRow
	for rows.Next() {
		var r catalog.StockRow
		if err := rows.Scan(&r.LocationName, &r.ProductCode, &r.Quantity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *Directory) LookupCandidateLocations(ctx context.Context, code int64, filter catalog.LocationFilter) ([]catalog.Location, error) {
	var query string
	switch filter {
	case catalog.FilterSelfDelivery:
		query = `
			SELECT location_id, location_name, quantity
			FROM goods_availability
			WHERE location_name LIKE '/Киев%' AND product_code = $1
			LIMIT 5`
	case catalog.FilterShopSelection:
		query = `
			SELECT location_id, location_name, quantity FROM warehouse_stock WHERE product_code = $1
			UNION ALL
			SELECT location_id, location_name, quantity FROM goods_availability WHERE product_code = $1
			LIMIT 10`
	default:
		query = `
			SELECT location_id, location_name, quantity
			FROM goods_availability
			WHERE product_code = $1
			ORDER BY location_name`
	}

	rows, err := d.pool.Query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("candidate locations for %d (%s): %w", code, filter, err)
	}
	defer rows.Close()

	var out []catalog.Location
	for rows.Next() {
		var l catalog.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (d *Directory) LookupInterestHistory(ctx context.Context, code int64) ([]catalog.InterestRow, error) {
	rows, err := d.pool.Query(ctx, `SELECT asked_at, account_name, location_name, manager_name FROM goods_interest($1)`, code)
	if err != nil {
		return nil, fmt.Errorf("interest history for %d: %w", code, err)
	}
	defer rows.Close()

	var out []catalog.InterestRow
	for rows.Next() {
		var r catalog.InterestRow
		if err := rows.Scan(&r.Date, &r.AccountName, &r.LocationName, &r.ManagerName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *Directory) LookupPledgeStatus(ctx context.Context, code int64) ([]catalog.PledgeRow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT g.created_at, COALESCE(f.branch_name, ''), g.amount,
		       COALESCE(s.seller_name, ''), COALESCE(s.phone, '')
		FROM pledges g
		LEFT JOIN branches f ON g.branch_id = f.branch_id
		LEFT JOIN sellers s ON g.seller_id = s.seller_id
		WHERE g.product_code = $1
		  AND g.created_at >= now() - interval '1 year'
		  AND NOT g.issued
	`, code)
	if err != nil {
		return nil, fmt.Errorf("pledge status for %d: %w", code, err)
	}
	defer rows.Close()

	var out []catalog.PledgeRow
	for rows.Next() {
		var r catalog.PledgeRow
		if err := rows.Scan(&r.Date, &r.BranchName, &r.Amount, &r.SellerName, &r.SellerPhone); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ catalog.Directory = (*Directory)(nil)
