package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/config"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/pagination"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNotificationNotFound is returned when a notification does not exist or
// belongs to another user.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationPublisher fans feed changes out to connected clients.
type NotificationPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, event model.NotificationEvent) error
}

// NotificationSubscription is a live stream of encoded NotificationEvents.
type NotificationSubscription interface {
	Messages() <-chan []byte
	Close() error
}

// NotificationSubscriber opens a stream of one user's feed changes.
type NotificationSubscriber interface {
	Subscribe(ctx context.Context, userID uuid.UUID) (NotificationSubscription, error)
}

// RedisNotificationBus carries feed events over per-user redis Pub/Sub channels.
type RedisNotificationBus struct {
	rdb *redis.Client
}

// NewRedisNotificationBus creates a bus over rdb.
func NewRedisNotificationBus(rdb *redis.Client) *RedisNotificationBus {
	return &RedisNotificationBus{rdb: rdb}
}

func (b *RedisNotificationBus) Publish(ctx context.Context, userID uuid.UUID, event model.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, config.CacheKey.UserNotificationChannel(userID.String()), payload).Err()
}

// Subscribe returns once redis has confirmed the subscription, so no event
// published after it returns is missed.
func (b *RedisNotificationBus) Subscribe(ctx context.Context, userID uuid.UUID) (NotificationSubscription, error) {
	ps := b.rdb.Subscribe(ctx, config.CacheKey.UserNotificationChannel(userID.String()))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	sub := &redisSubscription{
		ps:   ps,
		out:  make(chan []byte),
		done: make(chan struct{}),
	}
	go sub.pump(ps.Channel())
	return sub, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	out  chan []byte
	done chan struct{}
	once sync.Once
}

func (s *redisSubscription) pump(in <-chan *redis.Message) {
	defer close(s.out)
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case s.out <- []byte(msg.Payload):
			case <-s.done:
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) Messages() <-chan []byte { return s.out }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}

// NotificationService manages the per-user notification feed.
type NotificationService struct {
	repo      repository.NotificationRepository
	publisher NotificationPublisher
	log       zerolog.Logger
}

// NewNotificationService creates a new NotificationService. publisher may be nil.
func NewNotificationService(repo repository.NotificationRepository, publisher NotificationPublisher, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("component", "notification_service").Logger(),
	}
}

// List returns one page of userID's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, p pagination.Params) (pagination.Page[model.Notification], error) {
	items, total, err := s.repo.ListByUser(ctx, userID, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Page[model.Notification]{}, fmt.Errorf("list notifications: %w", err)
	}
	return pagination.NewPage(items, total, p), nil
}

// UnreadCount returns the number of unread notifications of userID.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkRead marks one notification read. Marking an already-read notification
// succeeds and keeps its original readAt.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	n, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("mark read: %w", err)
	}
	s.notify(ctx, userID, model.NotificationEventRead, &id)
	return n, nil
}

// MarkAllRead marks every unread notification of userID read and returns how
// many rows changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	if updated > 0 {
		s.notify(ctx, userID, model.NotificationEventReadAll, nil)
	}
	return updated, nil
}

// Delete removes one notification of userID.
func (s *NotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("delete notification: %w", err)
	}
	s.notify(ctx, userID, model.NotificationEventDeleted, &id)
	return nil
}

// PurgeRead deletes read notifications whose readAt is older than retention.
func (s *NotificationService) PurgeRead(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	purged, err := s.repo.PurgeReadBefore(ctx, now.Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	return purged, nil
}

// notify publishes a feed change. Failures are logged and never returned.
func (s *NotificationService) notify(ctx context.Context, userID uuid.UUID, kind model.NotificationEventKind, id *uuid.UUID) {
	if s.publisher == nil {
		return
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("count unread for event failed, event not published")
		return
	}
	event := model.NotificationEvent{Event: kind, NotificationID: id, UnreadCount: unread}
	if err := s.publisher.Publish(ctx, userID, event); err != nil {
		s.log.Warn().Err(err).
			Str("user_id", userID.String()).
			Str("event", string(kind)).
			Msg("publish notification event failed")
	}
}
