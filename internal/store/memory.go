package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"
)

// MemoryStore is an in-process Membership Store. It enforces the same
// uniqueness and ownership rules as the postgres schema and is used for
// local development (DATABASE_DRIVER=memory) and tests.
type MemoryStore struct {
	mu sync.RWMutex

	platforms map[string]platforms.Platform
	tiers     map[string]tiers.Tier
	members   map[string]members.Member
	content   map[string]content.Item

	// insertion order, used as the tie-break for equal timestamps
	contentSeq map[string]int64
	seq        int64

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		platforms:  make(map[string]platforms.Platform),
		tiers:      make(map[string]tiers.Tier),
		members:    make(map[string]members.Member),
		content:    make(map[string]content.Item),
		contentSeq: make(map[string]int64),
		now:        time.Now,
	}
}

// WithClock replaces the store's time source.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// ---- platforms ----

func (s *MemoryStore) CreatePlatform(ctx context.Context, p *platforms.Platform, seed []tiers.Tier) ([]tiers.Tier, error) {
	if err := p.Validate(); err != nil {
		return nil, apperr.Invalid("CreatePlatform", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.EnsureID()
	if _, ok := s.platforms[p.ID]; ok {
		return nil, apperr.Conflict("CreatePlatform", "platform already exists", nil)
	}
	for _, existing := range s.platforms {
		if existing.Subdomain == p.Subdomain {
			return nil, apperr.Conflict("CreatePlatform", "subdomain already taken", nil)
		}
	}

	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	for i := range seed {
		seed[i].PlatformID = p.ID
		seed[i].EnsureID()
		seed[i].CreatedAt, seed[i].UpdatedAt = now, now
		if err := seed[i].Validate(); err != nil {
			return nil, apperr.Invalid("CreatePlatform", err)
		}
		if err := tiers.CheckOrder(seed[:i], seed[i]); err != nil {
			return nil, apperr.Conflict("CreatePlatform", "seed tiers collide", err)
		}
	}

	s.platforms[p.ID] = *p
	for _, t := range seed {
		s.tiers[t.ID] = t
	}

	out := append([]tiers.Tier(nil), seed...)
	tiers.SortByPrice(out)
	return out, nil
}

func (s *MemoryStore) GetPlatform(ctx context.Context, id string) (*platforms.Platform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.platforms[id]
	if !ok {
		return nil, apperr.NotFound("GetPlatform", "platform not found")
	}
	return &p, nil
}

func (s *MemoryStore) ListPlatformsByOwner(ctx context.Context, ownerID string) ([]platforms.Platform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]platforms.Platform, 0)
	for _, p := range s.platforms {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdatePlatform(ctx context.Context, p *platforms.Platform) error {
	if err := p.Validate(); err != nil {
		return apperr.Invalid("UpdatePlatform", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.platforms[p.ID]; !ok {
		return apperr.NotFound("UpdatePlatform", "platform not found")
	}
	for id, existing := range s.platforms {
		if id != p.ID && existing.Subdomain == p.Subdomain {
			return apperr.Conflict("UpdatePlatform", "subdomain already taken", nil)
		}
	}
	p.UpdatedAt = s.now()
	s.platforms[p.ID] = *p
	return nil
}

// ---- tiers ----

func (s *MemoryStore) tiersOf(platformID string) []tiers.Tier {
	out := make([]tiers.Tier, 0)
	for _, t := range s.tiers {
		if t.PlatformID == platformID {
			out = append(out, t)
		}
	}
	tiers.SortByPrice(out)
	return out
}

func (s *MemoryStore) GetTiers(ctx context.Context, platformID string) ([]tiers.Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tiersOf(platformID), nil
}

func (s *MemoryStore) GetTier(ctx context.Context, id string) (*tiers.Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tiers[id]
	if !ok {
		return nil, apperr.NotFound("GetTier", "tier not found")
	}
	return &t, nil
}

func (s *MemoryStore) CreateTier(ctx context.Context, t *tiers.Tier) error {
	if err := t.Validate(); err != nil {
		return apperr.Invalid("CreateTier", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.platforms[t.PlatformID]; !ok {
		return apperr.Conflict("CreateTier", "platform does not exist", nil)
	}
	t.EnsureID()
	if err := tiers.CheckOrder(s.tiersOf(t.PlatformID), *t); err != nil {
		return apperr.Conflict("CreateTier", "tier collides with an existing tier", err)
	}
	now := s.now()
	t.CreatedAt, t.UpdatedAt = now, now
	s.tiers[t.ID] = *t
	return nil
}

func (s *MemoryStore) UpdateTier(ctx context.Context, t *tiers.Tier) error {
	if err := t.Validate(); err != nil {
		return apperr.Invalid("UpdateTier", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.tiers[t.ID]
	if !ok {
		return apperr.NotFound("UpdateTier", "tier not found")
	}
	if old.PlatformID != t.PlatformID {
		return apperr.Conflict("UpdateTier", "tier cannot move between platforms", nil)
	}
	if err := tiers.CheckOrder(s.tiersOf(t.PlatformID), *t); err != nil {
		return apperr.Conflict("UpdateTier", "tier collides with an existing tier", err)
	}
	t.UpdatedAt = s.now()
	s.tiers[t.ID] = *t
	return nil
}

func (s *MemoryStore) SeedTiers(ctx context.Context, platformID string, seed []tiers.Tier) ([]tiers.Tier, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.platforms[platformID]; !ok {
		return nil, false, apperr.NotFound("SeedTiers", "platform not found")
	}
	if existing := s.tiersOf(platformID); len(existing) > 0 {
		return existing, false, nil
	}

	now := s.now()
	for i := range seed {
		seed[i].PlatformID = platformID
		seed[i].EnsureID()
		seed[i].CreatedAt, seed[i].UpdatedAt = now, now
		if err := seed[i].Validate(); err != nil {
			return nil, false, apperr.Invalid("SeedTiers", err)
		}
	}
	for _, t := range seed {
		s.tiers[t.ID] = t
	}
	return s.tiersOf(platformID), true, nil
}

// ---- members ----

func (s *MemoryStore) GetMember(ctx context.Context, platformID, userID string) (*members.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.members {
		if m.PlatformID == platformID && m.UserID == userID {
			return &m, nil
		}
	}
	return nil, apperr.NotFound("GetMember", "member not found")
}

func (s *MemoryStore) GetMemberByID(ctx context.Context, id string) (*members.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return nil, apperr.NotFound("GetMemberByID", "member not found")
	}
	return &m, nil
}

func (s *MemoryStore) GetMemberBySubscription(ctx context.Context, subscriptionID string) (*members.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.members {
		if m.SubscriptionID != nil && *m.SubscriptionID == subscriptionID {
			return &m, nil
		}
	}
	return nil, apperr.NotFound("GetMemberBySubscription", "member not found")
}

func (s *MemoryStore) ListMembers(ctx context.Context, platformID string) ([]members.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]members.Member, 0)
	for _, m := range s.members {
		if m.PlatformID == platformID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CreateMember(ctx context.Context, m *members.Member) error {
	if err := m.Validate(); err != nil {
		return apperr.Invalid("CreateMember", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.platforms[m.PlatformID]; !ok {
		return apperr.Conflict("CreateMember", "platform does not exist", nil)
	}
	for _, existing := range s.members {
		if existing.PlatformID == m.PlatformID && existing.UserID == m.UserID {
			return apperr.Conflict("CreateMember", "user is already a member of this platform", nil)
		}
	}
	if m.TierID != nil {
		t, ok := s.tiers[*m.TierID]
		if !ok || t.PlatformID != m.PlatformID {
			return apperr.Conflict("CreateMember", "tier belongs to another platform", nil)
		}
	}

	m.EnsureID()
	now := s.now()
	m.CreatedAt, m.UpdatedAt = now, now
	s.members[m.ID] = *m
	return nil
}

func (s *MemoryStore) UpdateMemberTier(ctx context.Context, memberID string, tierID *string) (*members.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberID]
	if !ok {
		return nil, apperr.NotFound("UpdateMemberTier", "member not found")
	}
	if tierID != nil {
		t, ok := s.tiers[*tierID]
		if !ok {
			return nil, apperr.NotFound("UpdateMemberTier", "tier not found")
		}
		if t.PlatformID != m.PlatformID {
			return nil, apperr.Conflict("UpdateMemberTier", "tier belongs to another platform", nil)
		}
		id := *tierID
		tierID = &id
	}

	now := s.now()
	m.TierID = tierID
	m.LastActiveAt = now
	m.UpdatedAt = now
	s.members[m.ID] = m
	return &m, nil
}

func (s *MemoryStore) UpdateMemberStatus(ctx context.Context, memberID string, status members.Status) (*members.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberID]
	if !ok {
		return nil, apperr.NotFound("UpdateMemberStatus", "member not found")
	}
	m.Status = status
	if err := m.Validate(); err != nil {
		return nil, apperr.Invalid("UpdateMemberStatus", err)
	}
	m.UpdatedAt = s.now()
	s.members[m.ID] = m
	return &m, nil
}

func (s *MemoryStore) ApplySubscription(ctx context.Context, memberID string, u members.SubscriptionUpdate) (*members.Member, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberID]
	if !ok {
		return nil, false, apperr.NotFound("ApplySubscription", "member not found")
	}
	if !m.Accepts(u) {
		return &m, false, nil
	}
	if u.TierID != nil {
		t, ok := s.tiers[*u.TierID]
		if !ok {
			return nil, false, apperr.NotFound("ApplySubscription", "tier not found")
		}
		if t.PlatformID != m.PlatformID {
			return nil, false, apperr.Conflict("ApplySubscription", "tier belongs to another platform", nil)
		}
		id := *u.TierID
		u.TierID = &id
	}
	for id, other := range s.members {
		if id != memberID && other.SubscriptionID != nil && *other.SubscriptionID == u.SubscriptionID {
			return nil, false, apperr.Conflict("ApplySubscription", "subscription already linked", nil)
		}
	}

	now := s.now()
	m.ApplySubscription(u, now)
	if err := m.Validate(); err != nil {
		return nil, false, apperr.Invalid("ApplySubscription", err)
	}
	m.UpdatedAt = now
	s.members[m.ID] = m
	return &m, true, nil
}

// ---- content ----

func (s *MemoryStore) contentOf(platformID string, publishedOnly bool) []content.Item {
	out := make([]content.Item, 0)
	for _, it := range s.content {
		if it.PlatformID != platformID {
			continue
		}
		if publishedOnly && !it.IsPublished() {
			continue
		}
		out = append(out, it)
	}
	// later inserts first, so equal timestamps list the newest insert first
	sort.Slice(out, func(i, j int) bool {
		return s.contentSeq[out[i].ID] > s.contentSeq[out[j].ID]
	})
	content.SortNewestFirst(out)
	return out
}

func (s *MemoryStore) GetPublishedContent(ctx context.Context, platformID string) ([]content.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contentOf(platformID, true), nil
}

func (s *MemoryStore) ListContent(ctx context.Context, platformID string) ([]content.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contentOf(platformID, false), nil
}

func (s *MemoryStore) GetContent(ctx context.Context, id string) (*content.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.content[id]
	if !ok {
		return nil, apperr.NotFound("GetContent", "content not found")
	}
	return &it, nil
}

func (s *MemoryStore) CreateContent(ctx context.Context, it *content.Item) error {
	if err := it.Validate(); err != nil {
		return apperr.Invalid("CreateContent", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.platforms[it.PlatformID]; !ok {
		return apperr.Conflict("CreateContent", "platform does not exist", nil)
	}
	it.EnsureID()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = s.now()
	}
	it.UpdatedAt = it.CreatedAt
	s.seq++
	s.contentSeq[it.ID] = s.seq
	s.content[it.ID] = *it
	return nil
}

func (s *MemoryStore) UpdateContent(ctx context.Context, it *content.Item) error {
	if err := it.Validate(); err != nil {
		return apperr.Invalid("UpdateContent", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.content[it.ID]
	if !ok {
		return apperr.NotFound("UpdateContent", "content not found")
	}
	it.PlatformID = old.PlatformID
	it.CreatedAt = old.CreatedAt
	it.UpdatedAt = s.now()
	s.content[it.ID] = *it
	return nil
}

func (s *MemoryStore) DeleteContent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.content[id]; !ok {
		return apperr.NotFound("DeleteContent", "content not found")
	}
	delete(s.content, id)
	delete(s.contentSeq, id)
	return nil
}
