package solana

// Commitment levels used in RPC params.
const (
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// TokenAccount is one raw token account row from getTokenAccountsByMint.
// UIAmount is nil when the node returned no parsed amount for the account.
type TokenAccount struct {
	Pubkey   string
	Owner    string
	UIAmount *float64
}

// LatestBlockhash is the sequencing anchor a transaction must reference.
type LatestBlockhash struct {
	Blockhash            string
	LastValidBlockHeight uint64
}

// SendOpts control sendTransaction submission behavior. MaxRetries is
// the node-side rebroadcast budget; preflight simulation runs unless
// SkipPreflight is set.
type SendOpts struct {
	SkipPreflight       bool
	PreflightCommitment string
	MaxRetries          int
}

// DefaultSendOpts returns the standard submission options.
func DefaultSendOpts() *SendOpts {
	return &SendOpts{
		SkipPreflight:       false,
		PreflightCommitment: CommitmentConfirmed,
		MaxRetries:          3,
	}
}
