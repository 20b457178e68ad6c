// Package transport delivers event batches to the remote ingestion
// endpoint.
//
// Deliver returns nil on success; failures are classified by the errors
// package into transient (batch retained, retried on the next trigger)
// and permanent (batch dropped).
package transport

import (
	"context"

	"github.com/randalmurphal/capture/pkg/capture/event"
)

// Transport performs one delivery attempt for a batch of events.
// Implementations must preserve batch ordering in the wire payload and
// must honor ctx cancellation so a background-budget expiry can abort an
// in-flight request.
type Transport interface {
	// Deliver sends the batch to the endpoint on behalf of the project
	// token. A nil return means the server accepted the batch.
	Deliver(ctx context.Context, batch []event.Event, token, endpoint string) error
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, batch []event.Event, token, endpoint string) error

// Deliver implements Transport.
func (f Func) Deliver(ctx context.Context, batch []event.Event, token, endpoint string) error {
	return f(ctx, batch, token, endpoint)
}
