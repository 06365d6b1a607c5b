package engine

// Tier thresholds by historical reservation count.
const (
	maxNewReservations       = 2
	maxReturningReservations = 5
)

// ClassifyTier maps a reservation count to a tier: ≤2 nuevo, 3–5
// recurrente, ≥6 vip.
func ClassifyTier(count int) Tier {
	switch {
	case count <= maxNewReservations:
		return TierNew
	case count <= maxReturningReservations:
		return TierReturning
	default:
		return TierVIP
	}
}

// TierIndex holds each customer's reservation count over a whole dataset.
// It is computed once, before any filtering, so a tier constraint selects
// the same customers no matter how many times a predicate is applied.
type TierIndex struct {
	counts map[int64]int
}

// NewTierIndex counts reservations per customer across view.
func NewTierIndex(view View) *TierIndex {
	idx := &TierIndex{counts: make(map[int64]int)}
	Each(view, func(r *Reservation) {
		idx.counts[r.CustomerID]++
	})
	return idx
}

// Count returns the customer's total reservation count.
func (t *TierIndex) Count(customerID int64) int { return t.counts[customerID] }

// Tier returns the customer's tier.
func (t *TierIndex) Tier(customerID int64) Tier { return ClassifyTier(t.counts[customerID]) }

// Members returns the ids of customers in tier.
func (t *TierIndex) Members(tier Tier) map[int64]bool {
	out := make(map[int64]bool)
	for id, n := range t.counts {
		if ClassifyTier(n) == tier {
			out[id] = true
		}
	}
	return out
}
