package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"atlas-hq/gatewarden/pkg/admission"
)

// Record is one audited admission decision.
type Record struct {
	// ID uniquely identifies the record.
	ID string `json:"id"`

	// EventTime is the request's event time in epoch milliseconds.
	EventTime int64 `json:"event_time"`

	// RecordedAt is the wall-clock time the record was created. For live
	// traffic it tracks EventTime; during replay it does not.
	RecordedAt time.Time `json:"recorded_at"`

	// TenantID, Subject, Path, Method describe the request. Subject is the
	// identity, or the IP for anonymous callers.
	TenantID string `json:"tenant_id"`
	Subject  string `json:"subject"`
	Path     string `json:"path"`
	Method   string `json:"method"`

	// Allowed, Level, Key, Cost mirror the decision.
	Allowed bool   `json:"allowed"`
	Level   string `json:"level"`
	Key     string `json:"key"`
	Cost    int64  `json:"cost"`
}

// NewRecord builds a Record from a request and its decision.
func NewRecord(req admission.Request, decision *admission.Decision) *Record {
	subject := req.Identity
	if req.Anonymous() {
		subject = req.IP
	}

	return &Record{
		ID:         uuid.NewString(),
		EventTime:  req.EventTime,
		RecordedAt: time.Now(),
		TenantID:   req.TenantID,
		Subject:    subject,
		Path:       req.Path,
		Method:     req.Method,
		Allowed:    decision.Allowed,
		Level:      decision.Level,
		Key:        decision.Key,
		Cost:       decision.Cost,
	}
}

// Sink persists admission records. Implementations must be safe for
// concurrent use.
type Sink interface {
	// Write persists one record.
	Write(ctx context.Context, record *Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// Cleanup removes records older than cutoff (by recorded-at time) and
	// returns how many were deleted.
	Cleanup(ctx context.Context, cutoff time.Time) (int, error)

	// Close releases sink resources.
	Close() error
}
