// Package holders turns raw token account records into the eligible
// holder set a distribution cycle works from.
package holders

import (
	"math"

	"solana-airdrop-bot/internal/domain"
	"solana-airdrop-bot/internal/solana"
)

// Aggregate folds raw token accounts into per-owner balances. Records
// with a missing, zero, negative or non-finite amount are skipped and
// counted, never fatal. Multiple accounts owned by the same wallet sum
// into one holder. Returns ErrNoHolders when nothing usable remains.
func Aggregate(accounts []solana.TokenAccount) (*domain.HolderSet, error) {
	set := domain.NewHolderSet()

	for _, acct := range accounts {
		if acct.Owner == "" || acct.UIAmount == nil {
			set.Skipped++
			continue
		}
		amount := *acct.UIAmount
		if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			set.Skipped++
			continue
		}
		set.Add(acct.Owner, amount)
	}

	if set.Len() == 0 {
		return nil, ErrNoHolders
	}
	return set, nil
}
