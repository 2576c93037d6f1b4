package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RevisionEntry is one archived pre-edit snapshot of a report's data blob.
// Entries are append-only; they are never updated and only disappear when
// the owning report is deleted.
type RevisionEntry struct {
	ID                int64      `json:"id"`
	ReportID          int64      `json:"reportID"`
	PriorData         ReportData `json:"priorData"`
	ChangedBy         string     `json:"changedBy"`
	ChangedByUsername string     `json:"changedByUsername"`
	ChangedAt         time.Time  `json:"changedAt"`
}

// RevisionView is a history entry with its display change set already
// computed against the report's current data.
type RevisionView struct {
	RevisionEntry
	Changes []FieldChange `json:"changes"`
}

// FieldChange is one differing cell between an archived snapshot and the
// report's current data.
type FieldChange struct {
	Key      string          `json:"key"`
	OldValue decimal.Decimal `json:"oldValue"`
	NewValue decimal.Decimal `json:"newValue"`
}

// DiffAgainstCurrent computes the display change set for this entry: every
// key present in either the archived or the current map whose values differ,
// with absent treated as zero. Each history entry is diffed against the
// CURRENT data, not the chronologically next snapshot — the UI shows
// "value then -> value now" per entry. Multi-hop histories therefore repeat
// the "now" column; that is the intended display behavior.
func (e RevisionEntry) DiffAgainstCurrent(current ReportData) []FieldChange {
	keys := make(map[string]struct{}, len(e.PriorData)+len(current))
	for k := range e.PriorData {
		keys[k] = struct{}{}
	}
	for k := range current {
		keys[k] = struct{}{}
	}

	changes := make([]FieldChange, 0, len(keys))
	for k := range keys {
		oldV := decimal.Zero
		if v, ok := e.PriorData[k]; ok {
			oldV = v
		}
		newV := decimal.Zero
		if v, ok := current[k]; ok {
			newV = v
		}
		if !oldV.Equal(newV) {
			changes = append(changes, FieldChange{Key: k, OldValue: oldV, NewValue: newV})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
	return changes
}
