package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmyhall/banquet-booking-backend/internal/user"
)

func TestResolveTierAction(t *testing.T) {
	tests := []struct {
		name    string
		tier    Tier
		action  Action
		current Status
		role    user.Role
		wantTo  Status
		wantErr error
	}{
		{
			name: "tier1 approve", tier: Tier1, action: ActionApprove,
			current: StatusActionPending, role: user.RoleAdmin1,
			wantTo: StatusApprovedTier1,
		},
		{
			name: "tier1 request changes", tier: Tier1, action: ActionRequestChanges,
			current: StatusActionPending, role: user.RoleAdmin1,
			wantTo: StatusChangeRequested,
		},
		{
			name: "tier2 request payment", tier: Tier2, action: ActionRequestPayment,
			current: StatusApprovedTier1, role: user.RoleAdmin2,
			wantTo: StatusPaymentRequested,
		},
		{
			name: "tier2 may reject while payment is pending", tier: Tier2, action: ActionReject,
			current: StatusPaymentRequested, role: user.RoleAdmin2,
			wantTo: StatusRejected,
		},
		{
			name: "tier3 approve confirms", tier: Tier3, action: ActionApprove,
			current: StatusApprovedTier2, role: user.RoleAdmin3,
			wantTo: StatusConfirmed,
		},
		{
			name: "super admin may act at any tier", tier: Tier1, action: ActionApprove,
			current: StatusActionPending, role: user.RoleSuperAdmin,
			wantTo: StatusApprovedTier1,
		},
		{
			name: "wrong tier admin is forbidden", tier: Tier1, action: ActionApprove,
			current: StatusActionPending, role: user.RoleAdmin2,
			wantErr: ErrPermissionDenied,
		},
		{
			name: "customer is forbidden", tier: Tier3, action: ActionApprove,
			current: StatusApprovedTier2, role: user.RoleCustomer,
			wantErr: ErrPermissionDenied,
		},
		{
			name: "unknown action for tier", tier: Tier1, action: ActionRequestPayment,
			current: StatusActionPending, role: user.RoleAdmin1,
			wantErr: ErrInvalidAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := resolveTierAction(tt.tier, tt.action, tt.current, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTo, tr.to)
		})
	}
}

func TestResolveTierActionOutOfOrder(t *testing.T) {
	// Skipping a tier is a state conflict, not a permission problem.
	_, err := resolveTierAction(Tier2, ActionApprove, StatusActionPending, user.RoleAdmin2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermissionDenied)

	// A rejected booking cannot be revived by an earlier tier.
	_, err = resolveTierAction(Tier1, ActionApprove, StatusRejected, user.RoleAdmin1)
	require.Error(t, err)
}

func TestApplyTierActionWalksHappyPath(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := &Booking{
		Status: StatusActionPending,
		Workflow: Workflow{
			Tier1: TierRecord{Status: TierPending},
			Tier2: TierRecord{Status: TierPending},
			Tier3: TierRecord{Status: TierPending},
		},
	}

	steps := []struct {
		tier   Tier
		action Action
		role   user.Role
		want   Status
	}{
		{tier: Tier1, action: ActionApprove, role: user.RoleAdmin1, want: StatusApprovedTier1},
		{tier: Tier2, action: ActionApprove, role: user.RoleAdmin2, want: StatusApprovedTier2},
		{tier: Tier3, action: ActionApprove, role: user.RoleAdmin3, want: StatusConfirmed},
	}

	for _, step := range steps {
		tr, err := resolveTierAction(step.tier, step.action, b.Status, step.role)
		require.NoError(t, err)
		b.applyTierAction(step.tier, tr, "ok", "admin-"+string(step.role), now)
		assert.Equal(t, step.want, b.Status)
	}

	assert.Equal(t, TierApproved, b.Workflow.Tier1.Status)
	assert.Equal(t, TierApproved, b.Workflow.Tier2.Status)
	assert.Equal(t, TierApproved, b.Workflow.Tier3.Status)
	assert.Equal(t, "admin-admin3", b.Workflow.Tier3.ProcessedBy)
	require.NotNil(t, b.Workflow.Tier3.ProcessedAt)
	assert.Equal(t, now, *b.Workflow.Tier3.ProcessedAt)
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []Status{StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), string(s))
	}

	open := []Status{StatusActionPending, StatusChangeRequested, StatusApprovedTier1, StatusPaymentRequested, StatusApprovedTier2}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), string(s))
	}
}

func TestCancellableFrom(t *testing.T) {
	// A confirmed booking may still be cancelled; rejected, cancelled and
	// completed bookings may not.
	assert.True(t, statusAllowed(StatusConfirmed, cancellableFrom))
	assert.False(t, statusAllowed(StatusRejected, cancellableFrom))
	assert.False(t, statusAllowed(StatusCancelled, cancellableFrom))
	assert.False(t, statusAllowed(StatusCompleted, cancellableFrom))
}
