package memory

import (
	"context"
	"sync"

	appoutbox "rentzy/internal/app/outbox"
)

// Outbox keeps pending event records in memory and hands them to a
// publish callback on Flush. Used when no broker is configured and in
// tests.
type Outbox struct {
	mu      sync.Mutex
	pending []appoutbox.EventRecord
	Publish func(ctx context.Context, rec appoutbox.EventRecord) error
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, rec appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, rec)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	records := o.pending
	o.pending = nil
	o.mu.Unlock()

	if o.Publish == nil {
		return nil
	}
	for _, rec := range records {
		if err := o.Publish(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Pending returns a copy of the buffered records, for tests.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]appoutbox.EventRecord, len(o.pending))
	copy(out, o.pending)
	return out
}
