package router

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"github.com/google/uuid"
)

var errStore = errors.New("pq: canceling statement due to statement timeout")

type memUsers struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*model.User
	existsErr error
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

type memSchools struct {
	schools []model.School
	err     error
}

func (m *memSchools) ListPaginated(_ context.Context, limit, offset int) ([]model.School, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	total := int64(len(m.schools))
	if offset >= len(m.schools) {
		return nil, total, nil
	}
	end := min(offset+limit, len(m.schools))
	return m.schools[offset:end], total, nil
}

func (m *memSchools) Create(_ context.Context, s *model.School) error {
	s.ID = uuid.New()
	m.schools = append(m.schools, *s)
	return nil
}

type memStudents struct {
	students []model.Student
}

func (m *memStudents) ListPaginated(_ context.Context, filter model.StudentFilter, limit, offset int) ([]model.Student, int64, error) {
	var matched []model.Student
	for _, s := range m.students {
		if filter.SchoolID == nil || s.SchoolID == *filter.SchoolID {
			matched = append(matched, s)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	return matched[offset:min(offset+limit, len(matched))], total, nil
}

func (m *memStudents) Create(_ context.Context, s *model.Student) error {
	s.ID = uuid.New()
	m.students = append(m.students, *s)
	return nil
}

type memDashboard struct{}

func (memDashboard) GlobalCounts(context.Context) (*model.SuperAdminStats, error) {
	return &model.SuperAdminStats{TotalSchools: 2, ActiveSchools: 1, ActiveSubscriptions: 1, TotalUsers: 7}, nil
}

func (memDashboard) SchoolCounts(_ context.Context, _ uuid.UUID) (*model.SchoolAdminStats, error) {
	return &model.SchoolAdminStats{TotalStudents: 3, ActiveStudents: 3}, nil
}

type memNotifications struct {
	mu    sync.Mutex
	items []model.Notification
}

func (m *memNotifications) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []model.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return nil, total, nil
	}
	return mine[offset:min(offset+limit, len(mine))], total, nil
}

func (m *memNotifications) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, item := range m.items {
		if item.UserID == userID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) MarkRead(_ context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		n := &m.items[i]
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

func (m *memNotifications) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var updated int64
	for i := range m.items {
		if m.items[i].UserID == userID && !m.items[i].Read {
			m.items[i].Read = true
			updated++
		}
	}
	return updated, nil
}

func (m *memNotifications) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.items {
		if n.ID == id && n.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memNotifications) Create(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	m.items = append(m.items, *n)
	return nil
}

func (m *memNotifications) PurgeReadBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type nopSubscriber struct{}

func (nopSubscriber) Subscribe(context.Context, uuid.UUID) (service.NotificationSubscription, error) {
	return nil, errStore
}
