package holders

import "errors"

var (
	// ErrNoHolders is returned when a scan yields no usable records.
	ErrNoHolders = errors.New("no token holders found")

	// ErrNoEligibleHolders is returned when filtering leaves the set empty.
	ErrNoEligibleHolders = errors.New("no eligible holders found")
)
