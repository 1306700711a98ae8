package noteshare

import "fmt"

// PutAckKind identifies the shape of a store's put acknowledgement.
// Backends have answered uploads with an echoed storage key, a bare
// HTTP status, or an opaque body depending on version; adapters
// normalize whatever they got into one of these.
type PutAckKind int

const (
	// AckUnknown is an acknowledgement no recognized shape matched.
	AckUnknown PutAckKind = iota
	// AckKey is an acknowledgement that echoed the stored key.
	AckKey
	// AckStatus is an acknowledgement carrying only an HTTP status.
	AckStatus
)

// PutAck is a store's normalized answer to a blob write. Adapters
// construct it; Succeeded is the single place that decides whether
// the write counts as durable.
type PutAck struct {
	Kind       PutAckKind
	Key        string
	StatusCode int
	Body       string
}

// AckForKey reports a write the backend confirmed by echoing the stored key.
func AckForKey(key string) PutAck {
	return PutAck{Kind: AckKey, Key: key}
}

// AckForStatus reports a write the backend answered with an HTTP status.
func AckForStatus(code int, body string) PutAck {
	return PutAck{Kind: AckStatus, StatusCode: code, Body: truncateBody(body)}
}

// AckRaw reports an acknowledgement of no recognized shape.
func AckRaw(body string) PutAck {
	return PutAck{Kind: AckUnknown, Body: truncateBody(body)}
}

// Succeeded reports whether the acknowledgement indicates a durable write.
// An echoed key or a 2xx status counts as success; an unrecognized shape
// never does.
func (a PutAck) Succeeded() bool {
	switch a.Kind {
	case AckKey:
		return a.Key != ""
	case AckStatus:
		return a.StatusCode >= 200 && a.StatusCode < 300
	default:
		return false
	}
}

// Diagnostic renders the acknowledgement for logs. Bodies are truncated
// on construction; credentials never appear in acknowledgements.
func (a PutAck) Diagnostic() string {
	switch a.Kind {
	case AckKey:
		return fmt.Sprintf("key ack: key=%q", a.Key)
	case AckStatus:
		return fmt.Sprintf("status ack: status=%d body=%q", a.StatusCode, a.Body)
	default:
		return fmt.Sprintf("unknown ack: body=%q", a.Body)
	}
}

const maxAckBodyBytes = 256

func truncateBody(body string) string {
	if len(body) > maxAckBodyBytes {
		return body[:maxAckBodyBytes]
	}
	return body
}
