package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/access"
	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"
	"creator-platform/internal/infra/notify"
	"creator-platform/internal/infra/retry"
	"creator-platform/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	ownerID = "owner-1"
	fanID   = "fan-1"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// flakyStore fails selected reads once armed.
type flakyStore struct {
	*store.MemoryStore
	contentCalls atomic.Int32
	// GetPublishedContent fails from this call number on; 0 = never
	failContentFrom atomic.Int32
	failMembers     atomic.Bool

	// runs after every GetMember read; set before the store is shared
	afterGetMember func(userID string)
}

var errDown = errors.New("connection refused")

func (f *flakyStore) GetPublishedContent(ctx context.Context, platformID string) ([]content.Item, error) {
	n := f.contentCalls.Add(1)
	if from := f.failContentFrom.Load(); from > 0 && n >= from {
		return nil, apperr.Transient("GetPublishedContent", errDown)
	}
	return f.MemoryStore.GetPublishedContent(ctx, platformID)
}

func (f *flakyStore) GetMember(ctx context.Context, platformID, userID string) (*members.Member, error) {
	m, err := f.MemoryStore.GetMember(ctx, platformID, userID)
	if f.afterGetMember != nil {
		f.afterGetMember(userID)
	}
	return m, err
}

func (f *flakyStore) ListMembers(ctx context.Context, platformID string) ([]members.Member, error) {
	if f.failMembers.Load() {
		return nil, apperr.Transient("ListMembers", errDown)
	}
	return f.MemoryStore.ListMembers(ctx, platformID)
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *flakyStore
	svc    *Service
	bus    *notify.Bus
	events []access.RecomputeRequest

	platform *platforms.Platform
	tiers    map[string]tiers.Tier // by name
	items    map[string]content.Item
}

func newFixture(t *testing.T, opts ...func(*Options)) *fixture {
	t.Helper()
	clk := &clock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	mem := store.NewMemoryStore().WithClock(clk.Now)

	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: &flakyStore{MemoryStore: mem},
		bus:   notify.NewBus(),
		tiers: make(map[string]tiers.Tier),
		items: make(map[string]content.Item),
	}
	f.bus.Subscribe(func(r access.RecomputeRequest) { f.events = append(f.events, r) })

	o := Options{
		Bus:        f.bus,
		Logger:     zaptest.NewLogger(t),
		Retry:      retry.Policy{MaxAttempts: 1},
		BaseDomain: "creators.test",
		Now:        clk.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}
	f.svc = New(f.store, o)

	p, seeded, err := f.svc.CreatePlatform(f.ctx, ownerID, PlatformInput{Name: "Jane's Pottery"})
	require.NoError(t, err)
	f.platform = p
	for _, tr := range seeded {
		f.tiers[tr.Name] = tr
	}
	return f
}

func (f *fixture) tierID(name string) *string {
	id := f.tiers[name].ID
	return &id
}

// publish creates and publishes an item gated on tierName ("" = ungated).
func (f *fixture) publish(title, tierName string) content.Item {
	f.t.Helper()
	in := ContentInput{Title: title, Type: content.TypeArticle}
	if tierName != "" {
		in.AccessTierID = f.tierID(tierName)
	}
	it, err := f.svc.CreateContent(f.ctx, ownerID, f.platform.ID, in)
	require.NoError(f.t, err)
	it, err = f.svc.PublishContent(f.ctx, ownerID, it.ID)
	require.NoError(f.t, err)
	f.items[title] = *it
	return *it
}

func (f *fixture) join(userID string) *members.Member {
	f.t.Helper()
	m, _, err := f.svc.JoinPlatform(f.ctx, userID, f.platform.ID)
	require.NoError(f.t, err)
	return m
}

// seedCatalog publishes one item per tier plus an ungated one, newest last.
func (f *fixture) seedCatalog() {
	f.publish("welcome", "")
	f.publish("basic-post", tiers.NameBasic)
	f.publish("premium-post", tiers.NamePremium)
	f.publish("free-post", tiers.NameFree)
}

func titles(items []content.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}
