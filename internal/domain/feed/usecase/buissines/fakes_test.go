package buissines

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/feedfusion/bot-service/internal/domain/feed/consts"
	"github.com/feedfusion/bot-service/internal/domain/feed/dto"
	"github.com/feedfusion/bot-service/internal/domain/feed/entities"
	feederrors "github.com/feedfusion/bot-service/internal/domain/feed/errors"
)

// fakeStore is an in-memory implementation of the three repository
// interfaces, enforcing the same uniqueness and quota rules as the
// PostgreSQL implementation
type fakeStore struct {
	mu       sync.Mutex
	users    []*entities.User
	channels []*entities.Channel
	subs     []entities.Subscription
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) FindByTelegramID(_ context.Context, telegramID string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.TelegramID == telegramID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, feederrors.ErrUserNotFound
}

func (s *fakeStore) Create(_ context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.TelegramID == user.TelegramID {
			return feederrors.ErrUserAlreadyExists
		}
	}
	user.ID = uuid.New()
	copied := *user
	s.users = append(s.users, &copied)
	return nil
}

func (s *fakeStore) DeleteWithoutSubscriptions(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.users[:0]
	var deleted int64
	for _, u := range s.users {
		if s.countLocked(u.ID) == 0 {
			deleted++
			continue
		}
		kept = append(kept, u)
	}
	s.users = kept
	return deleted, nil
}

// channelRepo view

type fakeChannelRepo struct{ *fakeStore }

func (s fakeChannelRepo) FindByTelegramID(_ context.Context, telegramID string) (*entities.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.channels {
		if c.TelegramID == telegramID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, feederrors.ErrChannelNotFound
}

func (s fakeChannelRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.channels {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, feederrors.ErrChannelNotFound
}

func (s fakeChannelRepo) Create(_ context.Context, channel *entities.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.channels {
		if c.TelegramID == channel.TelegramID {
			return feederrors.ErrChannelAlreadyExists
		}
	}
	channel.ID = uuid.New()
	copied := *channel
	s.channels = append(s.channels, &copied)
	return nil
}

// subscriptionRepo view

type fakeSubscriptionRepo struct{ *fakeStore }

func (s fakeSubscriptionRepo) Subscribe(_ context.Context, userID, channelID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if sub.UserID == userID && sub.ChannelID == channelID {
			return feederrors.ErrAlreadySubscribed
		}
	}
	if s.countLocked(userID) >= consts.MaxSubscriptions {
		return feederrors.ErrSubscriptionLimit
	}

	s.subs = append(s.subs, entities.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		ChannelID: channelID,
	})
	return nil
}

func (s fakeSubscriptionRepo) Delete(_ context.Context, userID, channelID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.UserID == userID && sub.ChannelID == channelID {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s fakeSubscriptionRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]entities.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []entities.Subscription
	for _, sub := range s.subs {
		if sub.UserID != userID {
			continue
		}
		for _, c := range s.channels {
			if c.ID == sub.ChannelID {
				sub.Channel = *c
				break
			}
		}
		result = append(result, sub)
	}
	return result, nil
}

func (s fakeSubscriptionRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(userID), nil
}

func (s *fakeStore) countLocked(userID uuid.UUID) int64 {
	var count int64
	for _, sub := range s.subs {
		if sub.UserID == userID {
			count++
		}
	}
	return count
}

// fakeLookup resolves handles from a static table
type fakeLookup struct {
	chats map[string]*dto.ChatInfo
	err   error
}

func (l *fakeLookup) LookupChannel(_ context.Context, handle string) (*dto.ChatInfo, error) {
	if l.err != nil {
		return nil, l.err
	}
	if info, ok := l.chats[handle]; ok {
		return info, nil
	}
	return nil, feederrors.ErrChannelLookupFailed
}

// fakeProducer records published events
type fakeProducer struct {
	mu      sync.Mutex
	created []string
	deleted []string
}

func (p *fakeProducer) SendSubscriptionCreated(_ context.Context, _ *entities.User, channel *entities.Channel) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, channel.TelegramID)
	return nil
}

func (p *fakeProducer) SendSubscriptionDeleted(_ context.Context, _ *entities.User, channel *entities.Channel) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, channel.TelegramID)
	return nil
}

func (p *fakeProducer) Close() error { return nil }
