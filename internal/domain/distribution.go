package domain

// DistributionEntry is one recipient's share of the per-cycle budget,
// proportional to its holding within the eligible set.
type DistributionEntry struct {
	Wallet      string
	TokenAmount float64 // holder's aggregated balance of the monitored mint
	Percentage  float64 // TokenAmount / total eligible * 100
	Allocated   float64 // TokenAmount / total eligible * cycle budget
}
