package ws

import (
	"context"
	"encoding/json"
	"time"
)

type RealtimeEvent struct {
	Seq        int64
	PaymentID  string
	LoanID     string
	BranchID   string
	Amount     string
	RecordedAt time.Time
}

type RealtimeRepository interface {
	ListPaymentEventsSince(ctx context.Context, lastSeq int64, limit int32) ([]RealtimeEvent, error)
}

// Notifier polls for newly recorded payments and fans them out to the
// branch dashboard and per-loan activity channels.
type Notifier struct {
	repo         RealtimeRepository
	hub          *Hub
	pollInterval time.Duration
	lastSeq      int64
}

func NewNotifier(repo RealtimeRepository, hub *Hub, pollInterval time.Duration) *Notifier {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Notifier{repo: repo, hub: hub, pollInterval: pollInterval}
}

func (n *Notifier) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := n.tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (n *Notifier) tick(ctx context.Context) error {
	events, err := n.repo.ListPaymentEventsSince(ctx, n.lastSeq, 100)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if ev.Seq > n.lastSeq {
			n.lastSeq = ev.Seq
		}
		payload, _ := json.Marshal(map[string]any{
			"event": "payment_recorded",
			"data": map[string]any{
				"payment_id":  ev.PaymentID,
				"loan_id":     ev.LoanID,
				"branch_id":   ev.BranchID,
				"amount":      ev.Amount,
				"recorded_at": ev.RecordedAt.UTC().Format(time.RFC3339),
			},
		})
		n.hub.Publish("branch:payments:"+ev.BranchID, payload)
		n.hub.Publish("loan:activity:"+ev.LoanID, payload)
	}
	return nil
}
