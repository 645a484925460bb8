package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/pagination"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotificationService() (*NotificationService, *fakeNotificationRepo, *fakePublisher) {
	repo := &fakeNotificationRepo{}
	pub := &fakePublisher{}
	return NewNotificationService(repo, pub, zerolog.Nop()), repo, pub
}

func TestNotificationListNewestFirst(t *testing.T) {
	svc, repo, _ := newTestNotificationService()
	user := uuid.New()
	base := time.Now().Add(-time.Hour)
	oldest := repo.add(user, false, base)
	newest := repo.add(user, false, base.Add(30*time.Minute))
	repo.add(uuid.New(), false, base.Add(40*time.Minute))

	page, err := svc.List(context.Background(), user, pagination.Params{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, newest.ID, page.Content[0].ID)
	assert.Equal(t, oldest.ID, page.Content[1].ID)
	assert.Equal(t, int64(2), page.TotalElements)
}

func TestMarkReadIsIdempotentAndPublishes(t *testing.T) {
	svc, repo, pub := newTestNotificationService()
	user := uuid.New()
	n := repo.add(user, false, time.Now())
	repo.add(user, false, time.Now())

	first, err := svc.MarkRead(context.Background(), user, n.ID)
	require.NoError(t, err)
	assert.True(t, first.Read)
	require.NotNil(t, first.ReadAt)

	second, err := svc.MarkRead(context.Background(), user, n.ID)
	require.NoError(t, err)
	assert.Equal(t, *first.ReadAt, *second.ReadAt)

	require.Len(t, pub.events, 2)
	ev := pub.events[0]
	assert.Equal(t, user, ev.userID)
	assert.Equal(t, model.NotificationEventRead, ev.event.Event)
	require.NotNil(t, ev.event.NotificationID)
	assert.Equal(t, n.ID, *ev.event.NotificationID)
	assert.Equal(t, int64(1), ev.event.UnreadCount)
}

func TestNotificationsOfOtherUsersAreNotFound(t *testing.T) {
	svc, repo, pub := newTestNotificationService()
	owner := uuid.New()
	n := repo.add(owner, false, time.Now())
	intruder := uuid.New()

	_, err := svc.MarkRead(context.Background(), intruder, n.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	err = svc.Delete(context.Background(), intruder, n.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	updated, err := svc.MarkAllRead(context.Background(), intruder)
	require.NoError(t, err)
	assert.Zero(t, updated)

	unread, err := svc.UnreadCount(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	assert.Empty(t, pub.events)
}

func TestMarkAllReadAndDelete(t *testing.T) {
	svc, repo, pub := newTestNotificationService()
	user := uuid.New()
	n := repo.add(user, false, time.Now())
	repo.add(user, false, time.Now())
	repo.add(user, true, time.Now())

	updated, err := svc.MarkAllRead(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	unread, err := svc.UnreadCount(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, svc.Delete(context.Background(), user, n.ID))
	err = svc.Delete(context.Background(), user, n.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	require.Len(t, pub.events, 2)
	assert.Equal(t, model.NotificationEventReadAll, pub.events[0].event.Event)
	assert.Nil(t, pub.events[0].event.NotificationID)
	assert.Equal(t, model.NotificationEventDeleted, pub.events[1].event.Event)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	svc, repo, pub := newTestNotificationService()
	pub.err = errors.New("redis down")
	user := uuid.New()
	n := repo.add(user, false, time.Now())

	_, err := svc.MarkRead(context.Background(), user, n.ID)
	assert.NoError(t, err)
}

func TestUnreadCountFailureSkipsEvent(t *testing.T) {
	svc, repo, pub := newTestNotificationService()
	repo.countErr = errors.New("connection reset")
	user := uuid.New()
	n := repo.add(user, false, time.Now())

	_, err := svc.MarkRead(context.Background(), user, n.ID)
	require.NoError(t, err)
	assert.Empty(t, pub.events)
}

func TestPurgeReadHonoursRetention(t *testing.T) {
	svc, repo, _ := newTestNotificationService()
	user := uuid.New()
	now := time.Now()
	repo.add(user, true, now.Add(-40*24*time.Hour))
	repo.add(user, true, now.Add(-5*24*time.Hour))
	repo.add(user, false, now.Add(-60*24*time.Hour))

	purged, err := svc.PurgeRead(context.Background(), now, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	assert.Len(t, repo.items, 2)
}
