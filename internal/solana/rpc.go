package solana

import "context"

// RPCClient defines the Solana RPC HTTP surface the distributor needs.
type RPCClient interface {
	// GetTokenAccountsByMint retrieves every token account holding the mint.
	GetTokenAccountsByMint(ctx context.Context, mint string) ([]TokenAccount, error)

	// GetBalance retrieves an account's lamport balance.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetTokenBalance retrieves the owner's aggregated ui-amount of a mint.
	GetTokenBalance(ctx context.Context, owner, mint string) (float64, error)

	// GetLatestBlockhash retrieves a fresh blockhash for transaction signing.
	GetLatestBlockhash(ctx context.Context) (*LatestBlockhash, error)

	// SendTransaction submits a base58-encoded signed transaction and
	// returns its signature.
	SendTransaction(ctx context.Context, txBase58 string, opts *SendOpts) (string, error)
}
