// Package delivery defines the contract every transport server satisfies.
package delivery

import "context"

// Delivery is a transport-facing server (HTTP today) started by the app
// lifecycle. Serve blocks until the server stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
