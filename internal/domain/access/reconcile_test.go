package access

import (
	"testing"
	"time"

	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnTierChange_UpgradeFromNoTierUnlocksPremium(t *testing.T) {
	cat := mixedCatalog()
	before := Classify(Member("u1", nil), cat)

	req := OnTierChange(TierChange{
		PlatformID: "p1",
		MemberID:   "m1",
		UserID:     "u1",
		OldTierID:  nil,
		NewTierID:  ptr(tierPremium),
		Reason:     ReasonUpgrade,
	})

	require.True(t, req.Required)
	require.NotNil(t, req.Viewer)
	assert.Equal(t, []string{"partition:p1:tier:none", "partition:p1:tier:" + tierPremium}, req.InvalidateKeys)
	assert.False(t, req.PlatformWide())
	assert.False(t, req.IssuedAt.IsZero())

	after := Classify(*req.Viewer, cat)

	// every premium item moved from locked to visible
	for _, it := range before.Locked {
		if it.AccessTierID != nil && *it.AccessTierID == tierPremium {
			assert.Contains(t, ids(after.Visible), it.ID)
		}
	}

	d := Diff(before, after)
	assert.Equal(t, []string{"c07", "c03"}, ids(d.NewlyVisible))
	assert.Empty(t, d.NewlyHidden)
}

func TestOnTierChange_CancellationHidesContent(t *testing.T) {
	cat := mixedCatalog()
	before := Classify(Member("u1", ptr(tierBasic)), cat)

	req := OnTierChange(TierChange{PlatformID: "p1", MemberID: "m1", UserID: "u1", OldTierID: ptr(tierBasic), Reason: ReasonCancellation})
	after := Classify(*req.Viewer, cat)

	d := Diff(before, after)
	assert.Empty(t, d.NewlyVisible)
	assert.Equal(t, []string{"c09", "c05", "c01"}, ids(d.NewlyHidden))
}

func TestOnTierChange_SameTierIsNotRequired(t *testing.T) {
	at := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	req := OnTierChange(TierChange{PlatformID: "p1", MemberID: "m1", UserID: "u1", OldTierID: ptr("x"), NewTierID: ptr("x"), At: at})

	assert.False(t, req.Required)
	assert.True(t, req.IssuedAt.Equal(at))
	// the tier's partition is still named for invalidation
	assert.Equal(t, []string{"partition:p1:tier:x"}, req.InvalidateKeys)
}

func TestOnCatalogChange(t *testing.T) {
	req := OnCatalogChange("p1", time.Now())
	assert.True(t, req.PlatformWide())
	assert.True(t, req.Required)
	assert.Equal(t, []string{"catalog:p1", "partition:p1:*"}, req.InvalidateKeys)
}

func TestReasonFor(t *testing.T) {
	prices := map[string]float64{"free": 0, tierBasic: 9.99, tierPremium: 19.99}

	assert.Equal(t, ReasonAdminEdit, ReasonFor(true, nil, ptr(tierPremium), prices))
	assert.Equal(t, ReasonUpgrade, ReasonFor(false, nil, ptr(tierBasic), prices))
	assert.Equal(t, ReasonUpgrade, ReasonFor(false, ptr(tierBasic), ptr(tierPremium), prices))
	assert.Equal(t, ReasonDowngrade, ReasonFor(false, ptr(tierPremium), ptr(tierBasic), prices))
	assert.Equal(t, ReasonCancellation, ReasonFor(false, ptr(tierPremium), nil, prices))
}

func TestEffectiveTierAndViewerFor(t *testing.T) {
	p := &platforms.Platform{ID: "p1", OwnerID: "creator"}
	m := &members.Member{PlatformID: "p1", UserID: "u1", TierID: ptr(tierPremium), Status: members.StatusActive}

	assert.Equal(t, Anonymous(), ViewerFor(p, nil, ""))
	assert.Equal(t, Owner("creator"), ViewerFor(p, nil, "creator"))
	assert.Equal(t, Member("stranger", nil), ViewerFor(p, nil, "stranger"))
	assert.Equal(t, Member("u1", ptr(tierPremium)), ViewerFor(p, m, "u1"))

	// a row for someone else is ignored
	assert.Equal(t, Member("u2", nil), ViewerFor(p, m, "u2"))

	m.Status = members.StatusPending
	assert.Nil(t, EffectiveTier(m))
	assert.Equal(t, Member("u1", nil), ViewerFor(p, m, "u1"))

	m.Status = members.StatusActive
	got := EffectiveTier(m)
	require.NotNil(t, got)
	*got = "mutated"
	assert.Equal(t, tierPremium, *m.TierID, "EffectiveTier must return a copy")
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "partition:p1:anonymous", Anonymous().CacheKey("p1"))
	assert.Equal(t, "partition:p1:owner", Owner("c").CacheKey("p1"))
	assert.Equal(t, "partition:p1:tier:none", Member("u1", nil).CacheKey("p1"))

	// keyed by tier, not by user
	assert.Equal(t, Member("u1", ptr(tierBasic)).CacheKey("p1"), Member("u2", ptr(tierBasic)).CacheKey("p1"))
	assert.NotEqual(t, Member("u1", ptr(tierBasic)).CacheKey("p1"), Member("u1", ptr(tierPremium)).CacheKey("p1"))
	assert.Equal(t, "catalog:p1", CatalogKey("p1"))
}
