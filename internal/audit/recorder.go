// Package audit produces tamper-evident records for activation and
// verification events. Recording is a pure observer: it never mutates
// account or verification-session state, and persistence is best-effort so
// an audit sink outage cannot roll back a state transition that already
// succeeded.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"github.com/monicaDelao/brokerx/internal/domain"
)

// Sink persists audit records durably. Append-only: implementations expose
// no update or delete.
type Sink interface {
	Put(ctx context.Context, rec *domain.AuditRecord) error
}

// Archiver stores an immutable copy of each record outside the primary
// store (e.g. one object per record).
type Archiver interface {
	Archive(ctx context.Context, rec *domain.AuditRecord) error
}

// Recorder builds and emits audit records. Either sink or archiver may be
// nil; the record is always written to the structured log.
type Recorder struct {
	sink     Sink
	archiver Archiver
	nowF     func() time.Time
}

func NewRecorder(sink Sink, archiver Archiver) *Recorder {
	return &Recorder{sink: sink, archiver: archiver, nowF: time.Now}
}

// RecordActivation emits one audit record and returns its identifier.
func (r *Recorder) RecordActivation(ctx context.Context, email, action, details string) string {
	ts := r.nowF().UTC()
	rec := &domain.AuditRecord{
		AuditID:     auditID(email, ts),
		Email:       email,
		Action:      action,
		Timestamp:   ts,
		Fingerprint: Fingerprint(email, action, details, ts),
		Details:     details,
	}

	slog.Info("audit record",
		"audit_id", rec.AuditID,
		"email", rec.Email,
		"action", rec.Action,
		"timestamp", rec.Timestamp.Format(time.RFC3339Nano),
		"fingerprint", rec.Fingerprint,
		"details", rec.Details,
	)

	if r.sink != nil {
		if err := r.sink.Put(ctx, rec); err != nil {
			slog.Warn("failed to persist audit record", "audit_id", rec.AuditID, "err", err)
		}
	}
	if r.archiver != nil {
		if err := r.archiver.Archive(ctx, rec); err != nil {
			slog.Warn("failed to archive audit record", "audit_id", rec.AuditID, "err", err)
		}
	}
	return rec.AuditID
}

// auditID combines a millisecond timestamp with a hash of the email:
// AUDIT_<yyyyMMddHHmmssmmm>_<fnv32a(email)>.
func auditID(email string, ts time.Time) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return fmt.Sprintf("AUDIT_%s%03d_%d", ts.Format("20060102150405"), ts.Nanosecond()/1e6, h.Sum32())
}

// Fingerprint hashes the event fields into a fixed-length hex prefix used
// for tamper evidence: SHA-256 over "email|action|details|timestamp",
// first 16 hex characters, uppercased.
func Fingerprint(email, action, details string, ts time.Time) string {
	sum := sha256.Sum256([]byte(email + "|" + action + "|" + details + "|" + ts.Format(time.RFC3339Nano)))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:16])
}
