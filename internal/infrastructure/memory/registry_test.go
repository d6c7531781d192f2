package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goods-gate/goods-gate/internal/domain/negotiation"
)

func TestRegistryFirstClaimWins(t *testing.T) {
	r := NewRegistry()
	key := negotiation.Key{Kind: negotiation.KindSensitiveApproval, AccountID: 10444, ProductCode: 363482}

	winner, claimed := r.TryClaim(key, negotiation.Resolution{Action: negotiation.ActionApprove, ApproverID: 501})
	require.True(t, claimed)
	assert.Equal(t, negotiation.ActionApprove, winner.Action)

	winner, claimed = r.TryClaim(key, negotiation.Resolution{Action: negotiation.ActionReject, ApproverID: 502})
	require.False(t, claimed)
	assert.Equal(t, negotiation.ActionApprove, winner.Action)
	assert.Equal(t, int64(501), winner.ApproverID)

	rec, ok := r.Get(key)
	require.True(t, ok)
	assert.Equal(t, negotiation.ActionApprove, rec.Resolution.Action)
	assert.False(t, rec.DecidedAt.IsZero())
}

func TestRegistryConcurrentClaims(t *testing.T) {
	r := NewRegistry()
	key := negotiation.Key{Kind: negotiation.KindShopSelection, AccountID: 10444, ProductCode: 363482}

	const claimers = 64
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []negotiation.Resolution
		losers  []negotiation.Resolution
	)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(approverID int64) {
			defer wg.Done()
			res := negotiation.Resolution{Action: negotiation.ActionSelectLocation, ApproverID: approverID, LocationID: approverID}
			winner, claimed := r.TryClaim(key, res)
			mu.Lock()
			defer mu.Unlock()
			if claimed {
				winners = append(winners, winner)
			} else {
				losers = append(losers, winner)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	require.Len(t, winners, 1, "exactly one claim must win")
	require.Len(t, losers, claimers-1)
	for _, seen := range losers {
		assert.Equal(t, winners[0], seen, "every loser must observe the winning resolution")
	}
}

func TestRegistryClearAccount(t *testing.T) {
	r := NewRegistry()
	mine := negotiation.Key{Kind: negotiation.KindShopSelection, AccountID: 10444, ProductCode: 363482}
	other := negotiation.Key{Kind: negotiation.KindShopSelection, AccountID: 999, ProductCode: 363482}
	_, _ = r.TryClaim(mine, negotiation.Resolution{Action: negotiation.ActionCancel})
	_, _ = r.TryClaim(other, negotiation.Resolution{Action: negotiation.ActionCancel})

	assert.Equal(t, 1, r.ClearAccount(10444))
	_, ok := r.Get(mine)
	assert.False(t, ok)
	_, ok = r.Get(other)
	assert.True(t, ok)

	assert.Equal(t, 0, r.ClearAccount(10444), "clearing again is a no-op")
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	r := NewRegistry()
	key := negotiation.Key{Kind: negotiation.KindSelfDelivery, AccountID: 1, ProductCode: 2, LocationID: 3}
	_, _ = r.TryClaim(key, negotiation.Resolution{Action: negotiation.ActionConfirmLocation, ApproverID: 601})

	rec, ok := r.Get(key)
	require.True(t, ok)
	rec.Resolution.ApproverID = 0

	again, ok := r.Get(key)
	require.True(t, ok)
	assert.Equal(t, int64(601), again.Resolution.ApproverID)
}
