package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

type outboxRepoMock struct {
	pending []OutboxJob
	done    []int64
	retried []int64
	failed  []int64
	lastErr string
}

func (m *outboxRepoMock) ClaimPending(_ context.Context, _ int32) ([]OutboxJob, error) {
	jobs := m.pending
	m.pending = nil
	return jobs, nil
}

func (m *outboxRepoMock) MarkDone(_ context.Context, jobID int64) error {
	m.done = append(m.done, jobID)
	return nil
}

func (m *outboxRepoMock) MarkRetry(_ context.Context, jobID int64, _ time.Time, lastError string) error {
	m.retried = append(m.retried, jobID)
	m.lastErr = lastError
	return nil
}

func (m *outboxRepoMock) MarkFailed(_ context.Context, jobID int64, lastError string) error {
	m.failed = append(m.failed, jobID)
	m.lastErr = lastError
	return nil
}

type auditMock struct {
	records []AuditInput
	err     error
}

func (m *auditMock) Record(_ context.Context, in AuditInput) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, in)
	return nil
}

func TestRunOnceWritesAuditRows(t *testing.T) {
	repo := &outboxRepoMock{pending: []OutboxJob{
		{ID: 1, Topic: "loan_status_changed", Payload: []byte(`{"loan_id":"l-1","from_status":"DRAFT","to_status":"PENDING","actor_id":"u-1"}`)},
		{ID: 2, Topic: "payment_recorded", Payload: []byte(`{"loan_id":"l-1","payment_id":"p-1","amount":"5600"}`)},
	}}
	audit := &auditMock{}
	w := NewWorker(repo, audit)

	if err := w.RunOnce(context.Background(), 10); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(repo.done) != 2 {
		t.Fatalf("done = %v, want both jobs", repo.done)
	}
	if len(audit.records) != 2 {
		t.Fatalf("audit rows = %d, want 2", len(audit.records))
	}
	if audit.records[0].Action != "status:DRAFT->PENDING" {
		t.Fatalf("action = %s", audit.records[0].Action)
	}
	if audit.records[1].Action != "payment_recorded:p-1" {
		t.Fatalf("action = %s", audit.records[1].Action)
	}
}

func TestRunOnceRetriesOnAuditError(t *testing.T) {
	repo := &outboxRepoMock{pending: []OutboxJob{
		{ID: 7, Topic: "loan_status_changed", Attempts: 1, Payload: []byte(`{"loan_id":"l-1","from_status":"ACTIVE","to_status":"OVERDUE"}`)},
	}}
	audit := &auditMock{err: errors.New("db down")}
	w := NewWorker(repo, audit)

	if err := w.RunOnce(context.Background(), 10); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(repo.retried) != 1 || repo.retried[0] != 7 {
		t.Fatalf("retried = %v, want [7]", repo.retried)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("failed = %v, want none", repo.failed)
	}
}

func TestRunOnceFailsAfterMaxAttempts(t *testing.T) {
	repo := &outboxRepoMock{pending: []OutboxJob{
		{ID: 9, Topic: "loan_status_changed", Attempts: 5, Payload: []byte(`not json`)},
	}}
	w := NewWorker(repo, &auditMock{})

	if err := w.RunOnce(context.Background(), 10); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(repo.failed) != 1 || repo.failed[0] != 9 {
		t.Fatalf("failed = %v, want [9]", repo.failed)
	}
}

func TestRunOnceUnknownTopicRetries(t *testing.T) {
	repo := &outboxRepoMock{pending: []OutboxJob{
		{ID: 3, Topic: "something_else", Attempts: 0},
	}}
	w := NewWorker(repo, &auditMock{})

	if err := w.RunOnce(context.Background(), 10); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(repo.retried) != 1 {
		t.Fatalf("retried = %v, want one entry", repo.retried)
	}
	if repo.lastErr != "unsupported_topic" {
		t.Fatalf("last error = %s", repo.lastErr)
	}
}

func TestRunOnceRejectsPayloadMissingLoan(t *testing.T) {
	repo := &outboxRepoMock{pending: []OutboxJob{
		{ID: 4, Topic: "payment_recorded", Payload: []byte(`{"payment_id":"p-1"}`)},
	}}
	audit := &auditMock{}
	w := NewWorker(repo, audit)

	if err := w.RunOnce(context.Background(), 10); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(audit.records) != 0 {
		t.Fatalf("audit rows = %d, want 0", len(audit.records))
	}
	if len(repo.retried) != 1 {
		t.Fatalf("retried = %v, want one entry", repo.retried)
	}
}
