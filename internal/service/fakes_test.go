package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*model.User
	lookupErr error
	createErr error
	// skipExists makes ExistsByEmail report false so the insert path is hit.
	skipExists bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[uuid.UUID]*model.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.skipExists {
		return false, nil
	}
	_, err := r.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

type fakeDashboardRepo struct {
	global    *model.SuperAdminStats
	school    map[uuid.UUID]*model.SchoolAdminStats
	err       error
	lastQuery uuid.UUID
}

func (r *fakeDashboardRepo) GlobalCounts(context.Context) (*model.SuperAdminStats, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.global, nil
}

func (r *fakeDashboardRepo) SchoolCounts(_ context.Context, schoolID uuid.UUID) (*model.SchoolAdminStats, error) {
	r.lastQuery = schoolID
	if r.err != nil {
		return nil, r.err
	}
	if s, ok := r.school[schoolID]; ok {
		return s, nil
	}
	return &model.SchoolAdminStats{}, nil
}

type fakeNotificationRepo struct {
	mu       sync.Mutex
	items    []*model.Notification
	err      error
	countErr error
}

func (r *fakeNotificationRepo) add(userID uuid.UUID, read bool, createdAt time.Time) *model.Notification {
	n := &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "title",
		Message:   "message",
		Type:      model.NotificationInfo,
		Read:      read,
		CreatedAt: createdAt,
	}
	if read {
		at := createdAt
		n.ReadAt = &at
	}
	r.items = append(r.items, n)
	return n
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, 0, r.err
	}
	var mine []model.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			mine = append(mine, *n)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, item := range r.items {
		if item.UserID == userID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			if n.ReadAt == nil {
				now := time.Now()
				n.ReadAt = &now
			}
			n.Read = true
			cp := *n
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var updated int64
	now := time.Now()
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.ReadAt = &now
			updated++
		}
	}
	return updated, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i, n := range r.items {
		if n.ID == id && n.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	cp := *n
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeNotificationRepo) PurgeReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var kept []*model.Notification
	var purged int64
	for _, n := range r.items {
		if n.Read && n.ReadAt != nil && n.ReadAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, n)
	}
	r.items = kept
	return purged, nil
}

type publishedEvent struct {
	userID uuid.UUID
	event  model.NotificationEvent
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, userID uuid.UUID, event model.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID: userID, event: event})
	return p.err
}
