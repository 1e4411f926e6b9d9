// Package wallet defines the external wallet capability boundary. The
// server only ever calls this interface; concrete wallets live outside the
// system (browser extension, mobile app). DevWallet is the in-process
// implementation used by tests and the flow-exercising test client.
package wallet

import "context"

// Capability is the injected wallet boundary. Implementations come in two
// variants matching the signer types: a local extension signer reachable
// in-process and a remote signer reached via deep link.
type Capability interface {
	Connect(ctx context.Context) (bool, error)
	IsConnected() bool
	// GetChangeAddress returns the wallet's default address.
	GetChangeAddress(ctx context.Context) (string, error)
	// SignMessage produces a detached proof over the challenge message,
	// in the wallet's native proof encoding.
	SignMessage(ctx context.Context, address, message string) (string, error)
	// SignTransaction signs a reduced transaction.
	SignTransaction(ctx context.Context, reducedTx []byte) ([]byte, error)
	// SubmitTransaction broadcasts a signed transaction and returns its id.
	SubmitTransaction(ctx context.Context, signedTx []byte) (string, error)
	Disconnect(ctx context.Context) error
}
