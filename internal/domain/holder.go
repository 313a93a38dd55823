package domain

// Holder is a wallet address and its aggregated balance of the
// monitored mint.
type Holder struct {
	Wallet  string
	Balance float64
}

// HolderSet is the aggregated holder universe produced by one scan.
// Order records owners in first-seen order so downstream sorting can
// break ties deterministically.
type HolderSet struct {
	Balances map[string]float64
	Order    []string
	Total    float64
	Skipped  int // raw records dropped (zero, missing or malformed amount)
}

// NewHolderSet creates an empty holder set.
func NewHolderSet() *HolderSet {
	return &HolderSet{
		Balances: make(map[string]float64),
	}
}

// Add accumulates amount onto the owner's balance, registering the
// owner on first sight.
func (s *HolderSet) Add(owner string, amount float64) {
	if _, seen := s.Balances[owner]; !seen {
		s.Order = append(s.Order, owner)
	}
	s.Balances[owner] += amount
	s.Total += amount
}

// Len returns the number of unique holders.
func (s *HolderSet) Len() int {
	return len(s.Balances)
}

// Holders returns the set as a slice in first-seen order.
func (s *HolderSet) Holders() []Holder {
	out := make([]Holder, 0, len(s.Order))
	for _, wallet := range s.Order {
		out = append(out, Holder{Wallet: wallet, Balance: s.Balances[wallet]})
	}
	return out
}
