package domain

import (
	"encoding/json"
	"time"
)

// Session is the payload cached in the session store under an opaque id.
// The capability set and locations are resolved once at login and reused for
// every request in the session; they are NOT refreshed when role grants
// change mid-session. A grant change may call InvalidateSessionsForRole on
// the store to force re-login instead.
type Session struct {
	SID          string        `json:"sid"`
	UserID       string        `json:"userID"`
	Username     string        `json:"username"`
	Role         string        `json:"role"`
	Locations    []string      `json:"locations"`
	Capabilities CapabilitySet `json:"capabilities"`
	IPAddress    string        `json:"ipAddress"`
	UserAgent    string        `json:"userAgent"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastActivity time.Time     `json:"lastActivity"`
}

// MarshalJSON encodes the set as its wire strings.
func (s CapabilitySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

// UnmarshalJSON decodes a string slice into the set. Keys no longer in the
// catalog are dropped: a stale session simply loses capabilities that cannot
// be checked for anymore.
func (s *CapabilitySet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	set := make(CapabilitySet, len(keys))
	for _, k := range keys {
		if c, err := ParseCapability(k); err == nil {
			set[c] = struct{}{}
		}
	}
	*s = set
	return nil
}
