package domain

import (
	"encoding/json"
	"time"
)

// PivotTemplate is a named, owner-attributed saved shape-configuration for
// the aggregate pivot view. The configuration itself is opaque to the core.
type PivotTemplate struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Config    json.RawMessage `json:"config"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
}
