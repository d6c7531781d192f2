package memory

import (
	"sync"
	"time"

	"github.com/goods-gate/goods-gate/internal/domain/negotiation"
)

// Registry is the in-memory negotiation.Registry. A single mutex guards the
// map; TryClaim is the atomic check-and-set the router's tie-break depends on.
type Registry struct {
	mu      sync.Mutex
	records map[negotiation.Key]*negotiation.Record
}

func NewRegistry() *Registry {
	return &Registry{records: make(map[negotiation.Key]*negotiation.Record)}
}

func (r *Registry) TryClaim(key negotiation.Key, res negotiation.Resolution) (negotiation.Resolution, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.records[key]; ok {
		return existing.Resolution, false
	}
	r.records[key] = &negotiation.Record{
		Key:        key,
		Resolution: res,
		DecidedAt:  time.Now().UTC(),
	}
	return res, true
}

func (r *Registry) Get(key negotiation.Key) (*negotiation.Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		return nil, false
	}
	cp := *rec
	return &cp, true
}

func (r *Registry) ClearAccount(accountID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key := range r.records {
		if key.AccountID == accountID {
			delete(r.records, key)
			removed++
		}
	}
	return removed
}

var _ negotiation.Registry = (*Registry)(nil)
