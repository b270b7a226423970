package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	statusChangedTopic   = "loan_status_changed"
	paymentRecordedTopic = "payment_recorded"
)

type OutboxJob struct {
	ID          int64
	Topic       string
	Payload     []byte
	Status      string
	Attempts    int32
	LastError   string
	AvailableAt time.Time
}

type OutboxRepository interface {
	ClaimPending(ctx context.Context, limit int32) ([]OutboxJob, error)
	MarkDone(ctx context.Context, jobID int64) error
	MarkRetry(ctx context.Context, jobID int64, nextAvailableAt time.Time, lastError string) error
	MarkFailed(ctx context.Context, jobID int64, lastError string) error
}

type AuditInput struct {
	ActorID string
	Action  string
	LoanID  string
	Payload []byte
}

type AuditRecorder interface {
	Record(ctx context.Context, in AuditInput) error
}

// Worker drains the transactional outbox into the audit trail: every
// status change and recorded payment becomes a durable audit row, with
// retry/backoff on storage errors.
type Worker struct {
	outboxRepo   OutboxRepository
	audit        AuditRecorder
	maxAttempts  int32
	now          func() time.Time
	retryBackoff func(attempt int32) time.Duration
}

func NewWorker(outboxRepo OutboxRepository, audit AuditRecorder) *Worker {
	return &Worker{
		outboxRepo:  outboxRepo,
		audit:       audit,
		maxAttempts: 5,
		now:         func() time.Time { return time.Now().UTC() },
		retryBackoff: func(attempt int32) time.Duration {
			if attempt < 1 {
				attempt = 1
			}
			return time.Duration(attempt*15) * time.Second
		},
	}
}

func (w *Worker) RunOnce(ctx context.Context, batchSize int32) error {
	jobs, err := w.outboxRepo.ClaimPending(ctx, batchSize)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if err := w.processJob(ctx, job); err != nil {
			return err
		}
	}

	return nil
}

func (w *Worker) processJob(ctx context.Context, job OutboxJob) error {
	switch job.Topic {
	case statusChangedTopic:
		return w.processStatusChanged(ctx, job)
	case paymentRecordedTopic:
		return w.processPaymentRecorded(ctx, job)
	default:
		if job.Attempts >= w.maxAttempts {
			return w.outboxRepo.MarkFailed(ctx, job.ID, "unsupported_topic")
		}
		next := w.now().Add(w.retryBackoff(job.Attempts))
		return w.outboxRepo.MarkRetry(ctx, job.ID, next, "unsupported_topic")
	}
}

type statusChangedPayload struct {
	LoanID     string `json:"loan_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    string `json:"actor_id"`
}

func (w *Worker) processStatusChanged(ctx context.Context, job OutboxJob) error {
	var payload statusChangedPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return w.handleJobError(ctx, job, fmt.Errorf("invalid_payload"))
	}
	if payload.LoanID == "" {
		return w.handleJobError(ctx, job, fmt.Errorf("missing_loan_id"))
	}

	in := AuditInput{
		ActorID: payload.ActorID,
		Action:  fmt.Sprintf("status:%s->%s", payload.FromStatus, payload.ToStatus),
		LoanID:  payload.LoanID,
		Payload: job.Payload,
	}
	if err := w.audit.Record(ctx, in); err != nil {
		return w.handleJobError(ctx, job, err)
	}

	return w.outboxRepo.MarkDone(ctx, job.ID)
}

type paymentRecordedPayload struct {
	LoanID    string `json:"loan_id"`
	PaymentID string `json:"payment_id"`
	Amount    string `json:"amount"`
}

func (w *Worker) processPaymentRecorded(ctx context.Context, job OutboxJob) error {
	var payload paymentRecordedPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return w.handleJobError(ctx, job, fmt.Errorf("invalid_payload"))
	}
	if payload.LoanID == "" || payload.PaymentID == "" {
		return w.handleJobError(ctx, job, fmt.Errorf("missing_payment_reference"))
	}

	in := AuditInput{
		Action:  "payment_recorded:" + payload.PaymentID,
		LoanID:  payload.LoanID,
		Payload: job.Payload,
	}
	if err := w.audit.Record(ctx, in); err != nil {
		return w.handleJobError(ctx, job, err)
	}

	return w.outboxRepo.MarkDone(ctx, job.ID)
}

func (w *Worker) handleJobError(ctx context.Context, job OutboxJob, err error) error {
	msg := err.Error()
	if job.Attempts >= w.maxAttempts {
		return w.outboxRepo.MarkFailed(ctx, job.ID, msg)
	}
	next := w.now().Add(w.retryBackoff(job.Attempts))
	return w.outboxRepo.MarkRetry(ctx, job.ID, next, msg)
}
