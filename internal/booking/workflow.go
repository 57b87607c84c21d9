package booking

import (
	"time"

	"github.com/bookmyhall/banquet-booking-backend/internal/user"
)

// Action is a workflow action an actor may attempt on a booking.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionRequestChanges Action = "request-changes"
	ActionRequestPayment Action = "request-payment"
	ActionMarkPayment    Action = "mark-payment-complete"
	ActionEdit           Action = "edit"
	ActionCancel         Action = "cancel"
	ActionConfirm        Action = "confirm"
	ActionComplete       Action = "complete"
)

// tierTransition is one legal workflow step: the tier it belongs to, the
// states it may fire from, the resulting top-level status and the sub-status
// written into the tier's record. Legal transitions live in this table
// rather than in branching spread across handlers, so the state machine is
// inspectable in one place.
type tierTransition struct {
	from       []Status
	to         Status
	tierStatus TierStatus
	roles      []user.Role
}

var (
	tier1Roles = []user.Role{user.RoleAdmin1, user.RoleSuperAdmin}
	tier2Roles = []user.Role{user.RoleAdmin2, user.RoleSuperAdmin}
	tier3Roles = []user.Role{user.RoleAdmin3, user.RoleSuperAdmin}
)

var tierTransitions = map[Tier]map[Action]tierTransition{
	Tier1: {
		ActionApprove: {
			from:       []Status{StatusActionPending},
			to:         StatusApprovedTier1,
			tierStatus: TierApproved,
			roles:      tier1Roles,
		},
		ActionReject: {
			from:       []Status{StatusActionPending},
			to:         StatusRejected,
			tierStatus: TierRejected,
			roles:      tier1Roles,
		},
		ActionRequestChanges: {
			from:       []Status{StatusActionPending},
			to:         StatusChangeRequested,
			tierStatus: TierChangesRequested,
			roles:      tier1Roles,
		},
	},
	Tier2: {
		ActionApprove: {
			from:       []Status{StatusApprovedTier1},
			to:         StatusApprovedTier2,
			tierStatus: TierApproved,
			roles:      tier2Roles,
		},
		ActionRequestPayment: {
			from:       []Status{StatusApprovedTier1},
			to:         StatusPaymentRequested,
			tierStatus: TierPaymentRequested,
			roles:      tier2Roles,
		},
		ActionReject: {
			from:       []Status{StatusApprovedTier1, StatusPaymentRequested},
			to:         StatusRejected,
			tierStatus: TierRejected,
			roles:      tier2Roles,
		},
	},
	Tier3: {
		ActionApprove: {
			from:       []Status{StatusApprovedTier2},
			to:         StatusConfirmed,
			tierStatus: TierApproved,
			roles:      tier3Roles,
		},
		ActionReject: {
			from:       []Status{StatusApprovedTier2},
			to:         StatusRejected,
			tierStatus: TierRejected,
			roles:      tier3Roles,
		},
	},
}

func roleAllowed(role user.Role, allowed []user.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func statusAllowed(s Status, allowed []Status) bool {
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}

// resolveTierAction validates a tier action against the transition table.
// Authorization is checked before state so a wrong-tier admin always gets
// a forbidden error, never a state hint.
func resolveTierAction(tier Tier, action Action, current Status, role user.Role) (tierTransition, error) {
	t, ok := tierTransitions[tier][action]
	if !ok {
		return tierTransition{}, ErrInvalidAction
	}
	if !roleAllowed(role, t.roles) {
		return tierTransition{}, ErrPermissionDenied
	}
	if !statusAllowed(current, t.from) {
		return tierTransition{}, errIllegalTransition(current, action)
	}
	return t, nil
}

// applyTierAction writes the tier's decision record and advances the
// top-level status. The caller persists both atomically.
func (b *Booking) applyTierAction(tier Tier, t tierTransition, note string, actorID string, now time.Time) {
	rec := b.Workflow.record(tier)
	rec.Status = t.tierStatus
	rec.Note = note
	rec.ProcessedBy = actorID
	rec.ProcessedAt = &now
	b.Status = t.to
}

// cancellableFrom lists the states a booking may be cancelled from. A
// confirmed booking may still be cancelled (with the refund policy applied)
// until the event is recorded as held; rejected, cancelled and completed
// bookings may not.
var cancellableFrom = []Status{
	StatusActionPending,
	StatusChangeRequested,
	StatusApprovedTier1,
	StatusPaymentRequested,
	StatusApprovedTier2,
	StatusConfirmed,
}

// editableFrom lists the states the owning customer may edit the booking in.
var editableFrom = []Status{
	StatusActionPending,
	StatusChangeRequested,
}

// confirmableFrom lists the states the direct admin confirm path (recording
// a manually settled booking outside the staged tiers) may fire from.
var confirmableFrom = []Status{
	StatusActionPending,
	StatusChangeRequested,
	StatusApprovedTier1,
	StatusPaymentRequested,
	StatusApprovedTier2,
}
