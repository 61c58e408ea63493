package memory

import (
	"time"
)

// Kind categorizes a stored record. The set is closed; unknown kinds are
// rejected at Add time.
type Kind string

const (
	KindPreference Kind = "preference"
	KindToolOutput Kind = "tool_output"
	KindFact       Kind = "fact"
	KindQuery      Kind = "query"
	KindSystem     Kind = "system"
)

func (k Kind) valid() bool {
	switch k {
	case KindPreference, KindToolOutput, KindFact, KindQuery, KindSystem:
		return true
	}
	return false
}

// Record is one stored memory item.
//
// Text is immutable once stored. Kind defaults to KindFact. SourceTool and
// OriginQuery are set for tool-produced records; SessionID partitions
// records by conversation.
type Record struct {
	ID          string
	Text        string
	Kind        Kind
	CreatedAt   time.Time
	SourceTool  string
	OriginQuery string
	Tags        []string
	SessionID   string
}

// Query describes a retrieval request. Text and TopK are required; the
// remaining fields are optional filters. A record must pass every set
// filter to be returned.
type Query struct {
	// Text is embedded and matched against stored records by vector
	// distance (insertion order when the store is degraded).
	Text string

	// TopK caps the number of returned records. Must be positive.
	TopK int

	// Kind, when non-empty, restricts results to records of that kind.
	Kind Kind

	// Tags, when non-empty, restricts results to records sharing at least
	// one tag.
	Tags []string

	// SessionID, when non-empty, restricts results to that session.
	SessionID string
}

// matches reports whether the record passes every filter set on q.
func (r Record) matches(q Query) bool {
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if len(q.Tags) > 0 && !anyTag(r.Tags, q.Tags) {
		return false
	}
	if q.SessionID != "" && r.SessionID != q.SessionID {
		return false
	}
	return true
}

func anyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
