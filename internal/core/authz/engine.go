// Package authz implements the pure authorization decision function for
// report operations. It never touches storage: callers pass the capability
// snapshot resolved at session establishment.
package authz

import (
	"fmt"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

// Operation is a report operation subject to authorization.
type Operation int

const (
	OpView Operation = iota
	OpCreate
	OpEdit
)

func (op Operation) String() string {
	switch op {
	case OpView:
		return "view"
	case OpCreate:
		return "create"
	case OpEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Actor is the acting caller: identity plus the capability/location snapshot
// from the session.
type Actor struct {
	UserID       string
	Capabilities domain.CapabilitySet
	Locations    []string
}

// ReportRef identifies the target of an operation: its branch and creator.
type ReportRef struct {
	Location  string
	CreatedBy string
}

// Decide returns nil when the operation is allowed and an error wrapping
// apperrors.ErrForbidden otherwise. No matching capability means deny:
// the engine is fail-closed.
func Decide(actor Actor, op Operation, target ReportRef) error {
	switch op {
	case OpView:
		if actor.Capabilities.Has(domain.CapReportsViewAll) {
			return nil
		}
		if actor.Capabilities.Has(domain.CapReportsViewAssigned) && actor.assignedTo(target.Location) {
			return nil
		}
	case OpCreate:
		if actor.Capabilities.Has(domain.CapReportsCreate) &&
			(actor.Capabilities.Has(domain.CapReportsViewAll) || actor.assignedTo(target.Location)) {
			return nil
		}
	case OpEdit:
		if actor.Capabilities.Has(domain.CapReportsEditAll) {
			return nil
		}
		if actor.Capabilities.Has(domain.CapReportsEditAssigned) && actor.assignedTo(target.Location) {
			return nil
		}
		if actor.Capabilities.Has(domain.CapReportsEditOwn) && target.CreatedBy != "" && target.CreatedBy == actor.UserID {
			return nil
		}
	}
	return fmt.Errorf("%w: not allowed to %s report for branch %q", apperrors.ErrForbidden, op, target.Location)
}

// ViewScope describes which branches a list query may cover.
// When All is true Locations is meaningless; when All is false and Locations
// is empty the caller may see nothing at all.
type ViewScope struct {
	All       bool
	Locations []string
}

// ViewScopeFor resolves the list scoping for an actor. Scoping is applied in
// the query itself, before pagination.
func ViewScopeFor(actor Actor) ViewScope {
	if actor.Capabilities.Has(domain.CapReportsViewAll) {
		return ViewScope{All: true}
	}
	if actor.Capabilities.Has(domain.CapReportsViewAssigned) {
		return ViewScope{Locations: actor.Locations}
	}
	return ViewScope{}
}

// OwnerOr is the shared owner-or-privileged predicate used for pivot
// template deletion and similar resource guards: the actor must either own
// the resource or hold the given capability.
func OwnerOr(actor Actor, ownerID string, cap domain.Capability) error {
	if actor.Capabilities.Has(cap) {
		return nil
	}
	if ownerID != "" && ownerID == actor.UserID {
		return nil
	}
	return fmt.Errorf("%w: only the owner or a holder of %q may do this", apperrors.ErrForbidden, cap)
}

func (a Actor) assignedTo(location string) bool {
	for _, l := range a.Locations {
		if l == location {
			return true
		}
	}
	return false
}
