package members

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestNew(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := New("p1", "u1", now)

	assert.Equal(t, StatusActive, m.Status)
	assert.Nil(t, m.TierID)
	assert.True(t, m.JoinedAt.Equal(now))
	assert.True(t, m.LastActiveAt.Equal(now))
	require.NoError(t, m.Validate())

	m.EnsureID()
	assert.NotEmpty(t, m.ID)
}

func TestValidateRejectsUnknownStatus(t *testing.T) {
	m := New("p1", "u1", time.Now())
	m.Status = "banned"
	assert.Error(t, m.Validate())
}

func TestSameTier(t *testing.T) {
	assert.True(t, SameTier(nil, nil))
	assert.True(t, SameTier(ptr("a"), ptr("a")))
	assert.False(t, SameTier(ptr("a"), nil))
	assert.False(t, SameTier(nil, ptr("a")))
	assert.False(t, SameTier(ptr("a"), ptr("b")))
}

func TestIsActive(t *testing.T) {
	m := &Member{TierID: ptr("premium"), Status: StatusPending}
	assert.False(t, m.IsActive())

	m.Status = StatusActive
	assert.True(t, m.IsActive())

	var none *Member
	assert.False(t, none.IsActive())
}

func TestSubscriptionOrdering(t *testing.T) {
	t0 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	now := t0.Add(time.Hour)
	m := New("p1", "u1", t0)

	deleted := SubscriptionUpdate{SubscriptionID: "sub_1", Status: StatusInactive, At: t0.Add(2 * time.Minute)}
	require.True(t, m.Accepts(deleted))
	m.ApplySubscription(deleted, now)
	assert.Nil(t, m.TierID)
	assert.Equal(t, StatusInactive, m.Status)
	require.NotNil(t, m.SubscriptionID)
	assert.Equal(t, "sub_1", *m.SubscriptionID)
	assert.True(t, m.LastActiveAt.Equal(now))

	lateUpdate := SubscriptionUpdate{SubscriptionID: "sub_1", TierID: ptr("premium"), Status: StatusActive, At: t0.Add(time.Minute)}
	assert.False(t, m.Accepts(lateUpdate))

	sameSecond := lateUpdate
	sameSecond.At = deleted.At
	assert.True(t, m.Accepts(sameSecond))

	undated := lateUpdate
	undated.At = time.Time{}
	assert.True(t, m.Accepts(undated))
	m.ApplySubscription(undated, now)
	assert.True(t, m.SubscriptionSyncedAt.Equal(deleted.At), "an undated event keeps the last sync time")
}
