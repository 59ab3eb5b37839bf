// Package payments sends clipper earnings out of the platform.
package payments

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Transfer is one payout to a clipper's connected account.
type Transfer struct {
	SubmissionID int64
	ClipperID    int64
	Destination  string
	AmountCents  int64
	Currency     string
}

// Payer moves money and returns the provider's reference for the transfer.
type Payer interface {
	Pay(ctx context.Context, t Transfer) (string, error)
}

// Mock settles every transfer immediately with a po_mock_ reference.
type Mock struct {
	mu        sync.Mutex
	now       func() time.Time
	transfers []Transfer
}

func NewMock(now func() time.Time) *Mock {
	if now == nil {
		now = time.Now
	}
	return &Mock{now: now}
}

func (m *Mock) Pay(ctx context.Context, t Transfer) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers = append(m.transfers, t)
	return fmt.Sprintf("po_mock_%d_%d", m.now().Unix(), len(m.transfers)), nil
}

// Transfers returns what has been paid so far.
func (m *Mock) Transfers() []Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Transfer(nil), m.transfers...)
}
