// Package distribution computes the pro-rata allocation of a cycle's
// budget across the eligible holder set.
package distribution

import (
	"errors"
	"fmt"
	"sort"

	"solana-airdrop-bot/internal/domain"
)

// ErrZeroEligibleSupply is returned when the eligible set is non-empty
// but its aggregate balance is zero, which would divide by zero.
var ErrZeroEligibleSupply = errors.New("eligible holders have zero aggregate balance")

// Calculate allocates budget across the eligible set proportionally to
// each holder's share of the total eligible balance. Entries come back
// sorted by token amount descending; equal amounts keep first-seen
// order. No rounding redistribution is performed; the residual error of
// the float arithmetic stays within 1e-9 relative of the budget.
func Calculate(eligible *domain.HolderSet, budget float64) ([]*domain.DistributionEntry, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("budget must be positive, got %g", budget)
	}

	total := 0.0
	for _, wallet := range eligible.Order {
		total += eligible.Balances[wallet]
	}
	if total == 0 {
		return nil, ErrZeroEligibleSupply
	}

	entries := make([]*domain.DistributionEntry, 0, eligible.Len())
	for _, wallet := range eligible.Order {
		balance := eligible.Balances[wallet]
		entries = append(entries, &domain.DistributionEntry{
			Wallet:      wallet,
			TokenAmount: balance,
			Percentage:  balance / total * 100,
			Allocated:   balance / total * budget,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TokenAmount > entries[j].TokenAmount
	})

	return entries, nil
}
