package holders

import "solana-airdrop-bot/internal/domain"

// FilterResult is the outcome of an eligibility pass.
type FilterResult struct {
	Eligible      *domain.HolderSet
	ExcludedBelow int // balance < min
	ExcludedAbove int // balance > max
}

// Filter keeps holders whose balance lies within the inclusive
// [min, max] bounds, preserving first-seen order. min <= max is the
// caller's precondition. Returns ErrNoEligibleHolders when the eligible
// set comes out empty.
func Filter(set *domain.HolderSet, min, max float64) (*FilterResult, error) {
	result := &FilterResult{Eligible: domain.NewHolderSet()}

	for _, wallet := range set.Order {
		balance := set.Balances[wallet]
		switch {
		case balance < min:
			result.ExcludedBelow++
		case balance > max:
			result.ExcludedAbove++
		default:
			result.Eligible.Add(wallet, balance)
		}
	}

	if result.Eligible.Len() == 0 {
		return nil, ErrNoEligibleHolders
	}
	return result, nil
}
