package solana

import "context"

// WSClient defines the Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeSignature subscribes to the confirmation notification for
	// a transaction signature. The node fires the notification once and
	// removes the subscription, so the returned channel delivers at most
	// one value before it is closed.
	SubscribeSignature(ctx context.Context, signature string) (<-chan SignatureNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// SignatureNotification is the one-shot confirmation message for a
// submitted transaction. Err is non-nil when the transaction landed
// with an error.
type SignatureNotification struct {
	Slot int64
	Err  interface{}
}
