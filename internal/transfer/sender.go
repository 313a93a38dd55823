package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"solana-airdrop-bot/internal/executor"
	"solana-airdrop-bot/internal/solana"
	"solana-airdrop-bot/internal/wallet"
)

// DefaultConfirmTimeout bounds the wait for a WS confirmation.
const DefaultConfirmTimeout = 60 * time.Second

// ErrAmountTooSmall is returned when the allocated amount rounds to
// zero base units.
var ErrAmountTooSmall = errors.New("amount rounds to zero base units")

// Sender submits one transfer per call. Each transfer references a
// blockhash fetched immediately before signing, which is why callers
// must not issue transfers concurrently from the same keypair.
type Sender struct {
	rpc            solana.RPCClient
	ws             solana.WSClient // nil disables confirmation waits
	keypair        *wallet.Keypair
	sendOpts       *solana.SendOpts
	confirmTimeout time.Duration
	logger         *log.Logger
}

// Options configures a Sender.
type Options struct {
	RPC            solana.RPCClient
	WS             solana.WSClient // optional: wait for signature confirmation
	Keypair        *wallet.Keypair
	SendOpts       *solana.SendOpts // default solana.DefaultSendOpts()
	ConfirmTimeout time.Duration    // default DefaultConfirmTimeout
	Logger         *log.Logger
}

// NewSender creates a Sender.
func NewSender(opts Options) *Sender {
	sendOpts := opts.SendOpts
	if sendOpts == nil {
		sendOpts = solana.DefaultSendOpts()
	}
	confirmTimeout := opts.ConfirmTimeout
	if confirmTimeout == 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Sender{
		rpc:            opts.RPC,
		ws:             opts.WS,
		keypair:        opts.Keypair,
		sendOpts:       sendOpts,
		confirmTimeout: confirmTimeout,
		logger:         logger,
	}
}

// Compile-time interface check.
var _ executor.Sender = (*Sender)(nil)

// Send builds, signs and submits one transfer and returns its
// signature. Submission retries live in the RPC client and the
// node-side maxRetries budget; Send itself never resubmits.
func (s *Sender) Send(ctx context.Context, recipient string, amount float64) (string, error) {
	if err := wallet.ValidateAddress(recipient); err != nil {
		return "", err
	}

	lamports := uint64(math.Round(amount * LamportsPerUnit))
	if lamports == 0 {
		return "", fmt.Errorf("%w: %g", ErrAmountTooSmall, amount)
	}

	blockhash, err := s.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch blockhash: %w", err)
	}

	tx, err := BuildTransferTx(s.keypair, recipient, lamports, blockhash.Blockhash)
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	signature, err := s.rpc.SendTransaction(ctx, tx, s.sendOpts)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	if s.ws != nil {
		if err := s.awaitConfirmation(ctx, signature); err != nil {
			return "", err
		}
	}

	return signature, nil
}

// awaitConfirmation blocks until the signature confirms, errors or the
// timeout elapses.
func (s *Sender) awaitConfirmation(ctx context.Context, signature string) error {
	ch, err := s.ws.SubscribeSignature(ctx, signature)
	if err != nil {
		return fmt.Errorf("subscribe signature %s: %w", signature, err)
	}

	select {
	case n, ok := <-ch:
		if !ok {
			return fmt.Errorf("confirmation stream closed for %s", signature)
		}
		if n.Err != nil {
			return fmt.Errorf("transaction %s failed on chain: %v", signature, n.Err)
		}
		return nil
	case <-time.After(s.confirmTimeout):
		return fmt.Errorf("confirmation timeout for %s after %v", signature, s.confirmTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
