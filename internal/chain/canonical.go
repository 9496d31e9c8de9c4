package chain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/khanghh/kaudit/model"
	"github.com/valyala/bytebufferpool"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// CanonicalJSON serializes every semantic field of ev in a fixed key order.
// Retention bookkeeping (legal hold, archived_at, created_at) and the
// integrity fields other than previous_hash are not part of the payload.
func CanonicalJSON(ev *model.AuditEvent) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := payloadWriter{buf: buf}
	buf.WriteByte('{')
	w.str("timestamp", ev.Timestamp.UTC().Format(timestampLayout))
	w.str("event_type", string(ev.EventType))
	w.str("actor_id", ev.ActorID)
	w.str("action", ev.Action)
	w.str("target_id", ev.TargetID)
	w.str("action_result", string(ev.Result))
	w.str("previous_hash", ev.PreviousHash)
	w.str("id", ev.ID)
	w.str("chain", ev.Chain)
	w.num("seq", ev.Seq)
	w.str("category", ev.Category)
	w.str("severity", ev.Severity.String())
	w.str("actor_type", string(ev.ActorType))
	w.list("actor_roles", ev.ActorRoles)
	w.str("on_behalf_of", ev.OnBehalfOf)
	w.str("target_type", ev.TargetType)
	w.str("target_name", ev.TargetName)
	w.str("error_code", ev.ErrorCode)
	w.str("error_message", ev.ErrorMessage)
	w.raw("before", CanonicalValue(ev.Before))
	w.raw("after", CanonicalValue(ev.After))
	w.list("changed_fields", ev.ChangedFields)
	w.str("sensitivity", string(ev.Sensitivity))
	w.str("request_id", ev.RequestID)
	w.str("session_id", ev.SessionID)
	w.str("correlation_id", ev.CorrelationID)
	w.str("parent_event_id", ev.ParentEventID)
	w.str("ip", ev.IP)
	w.str("geo_location", ev.GeoLocation)
	w.str("user_agent", ev.UserAgent)
	w.str("device_id", ev.DeviceID)
	w.num("risk_score", uint64(ev.RiskScore))
	w.list("compliance_tags", ev.ComplianceTags)
	w.last = true
	w.num("retention_days", uint64(ev.RetentionDays))
	buf.WriteByte('}')

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out
}

// ComputeHash returns the hex SHA-256 of the canonical payload.
func ComputeHash(ev *model.AuditEvent) string {
	sum := sha256.Sum256(CanonicalJSON(ev))
	return hex.EncodeToString(sum[:])
}

// CanonicalValue re-encodes a JSON document compactly with sorted object keys
// so that equal snapshots hash equally regardless of producer key order.
// Number literals are kept as written. The result is a fixed point.
func CanonicalValue(doc []byte) []byte {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []byte("null")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		// not valid JSON, hash the raw bytes as a string
		return strconv.AppendQuote(nil, string(trimmed))
	}
	out, err := json.Marshal(v)
	if err != nil {
		return strconv.AppendQuote(nil, string(trimmed))
	}
	return out
}

type payloadWriter struct {
	buf  *bytebufferpool.ByteBuffer
	last bool
}

func (w *payloadWriter) key(k string) {
	writeJSONString(w.buf, k)
	w.buf.WriteByte(':')
}

func (w *payloadWriter) sep() {
	if !w.last {
		w.buf.WriteByte(',')
	}
}

func (w *payloadWriter) str(k, v string) {
	w.key(k)
	writeJSONString(w.buf, v)
	w.sep()
}

func (w *payloadWriter) num(k string, v uint64) {
	w.key(k)
	w.buf.WriteString(strconv.FormatUint(v, 10))
	w.sep()
}

func (w *payloadWriter) raw(k string, v []byte) {
	w.key(k)
	w.buf.Write(v)
	w.sep()
}

func (w *payloadWriter) list(k string, values []string) {
	w.key(k)
	w.buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		writeJSONString(w.buf, v)
	}
	w.buf.WriteByte(']')
	w.sep()
}

func writeJSONString(buf *bytebufferpool.ByteBuffer, value string) {
	buf.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteString(string(r))
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexLower[r>>4])
				buf.WriteByte(hexLower[r&0x0f])
			} else {
				buf.WriteString(string(r))
			}
		}
	}
	buf.WriteByte('"')
}

var hexLower = []byte("0123456789abcdef")

// TruncateTimestamp normalizes t to the precision covered by the hash.
func TruncateTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
