package reqheaders

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// AuditRecord is a point-in-time snapshot of the request signals an audit
// trigger typically persists alongside a data mutation.
//
// The record is a plain value; writing it to an audit table or log stream
// is the caller's responsibility.
type AuditRecord struct {
	ID              uuid.UUID
	At              time.Time
	ClientIP        string
	ClientIPPresent bool
	Platform        PlatformFamily
	Mobile          bool
	Host            string
	Origin          string
	UserAgent       string
	RequestID       string
}

// NewAuditRecord derives an audit record from the bag.
//
// Absent headers come back as empty strings here; the only absence callers
// commonly branch on, the client IP, keeps its explicit presence flag.
func (in *Introspector) NewAuditRecord(bag HeaderBag) AuditRecord {
	signals := in.Signals(bag)
	host, _ := bag.Get(HeaderHost)
	origin, _ := bag.Get(HeaderOrigin)
	userAgent, _ := bag.Get(HeaderUserAgent)
	requestID, _ := bag.Get(HeaderRequestID)

	return AuditRecord{
		ID:              uuid.New(),
		At:              time.Now().UTC(),
		ClientIP:        signals.ClientIP,
		ClientIPPresent: signals.ClientIPPresent,
		Platform:        signals.Platform,
		Mobile:          signals.Mobile,
		Host:            host,
		Origin:          origin,
		UserAgent:       userAgent,
		RequestID:       requestID,
	}
}

// LogValue renders the record as a structured group for slog-based audit
// sinks.
func (r AuditRecord) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("id", r.ID.String()),
		slog.Time("at", r.At),
		slog.String("platform", r.Platform.String()),
		slog.Bool("mobile", r.Mobile),
	}

	if r.ClientIPPresent {
		attrs = append(attrs, slog.String("client_ip", r.ClientIP))
	}
	if r.Host != "" {
		attrs = append(attrs, slog.String("host", r.Host))
	}
	if r.Origin != "" {
		attrs = append(attrs, slog.String("origin", r.Origin))
	}
	if r.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", r.UserAgent))
	}
	if r.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", r.RequestID))
	}

	return slog.GroupValue(attrs...)
}
