package buissines

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/feedfusion/bot-service/internal/domain/feed/consts"
	"github.com/feedfusion/bot-service/internal/domain/feed/deps"
	"github.com/feedfusion/bot-service/internal/domain/feed/dto"
	"github.com/feedfusion/bot-service/internal/domain/feed/entities"
	feederrors "github.com/feedfusion/bot-service/internal/domain/feed/errors"
)

func newTestUseCase(lookup *fakeLookup) (*UseCase, *fakeStore, *fakeProducer) {
	store := newFakeStore()
	producer := &fakeProducer{}
	if lookup == nil {
		lookup = &fakeLookup{}
	}

	uc := NewUseCase(
		store,
		fakeChannelRepo{store},
		fakeSubscriptionRepo{store},
		lookup,
		producer,
		zerolog.Nop(),
	)
	return uc, store, producer
}

func startUser(t *testing.T, uc *UseCase, telegramID string) {
	t.Helper()
	_, err := uc.HandleStart(context.Background(), telegramID, "tester")
	require.NoError(t, err)
}

func TestHandleStart_CreatesUserOnce(t *testing.T) {
	uc, store, _ := newTestUseCase(nil)
	ctx := context.Background()

	resp, err := uc.HandleStart(ctx, "100", "alice")
	require.NoError(t, err)
	require.Contains(t, resp.Message, "FeedFusion")

	_, err = uc.HandleStart(ctx, "100", "alice")
	require.NoError(t, err)

	require.Len(t, store.users, 1)
}

func TestAddChannel_ForwardedPost(t *testing.T) {
	uc, store, producer := newTestUseCase(nil)
	ctx := context.Background()
	startUser(t, uc, "100")

	resp, err := uc.AddChannel(ctx, "100", &dto.ChannelRef{
		TelegramID: "-1001",
		Title:      "News",
	})
	require.NoError(t, err)
	require.Contains(t, resp.Message, "\"News\" добавлен")
	require.Contains(t, resp.Message, fmt.Sprintf("1 из %d", consts.MaxSubscriptions))

	require.Len(t, store.channels, 1)
	require.Len(t, store.subs, 1)
	require.Equal(t, []string{"-1001"}, producer.created)
}

func TestAddChannel_RequiresStartFirst(t *testing.T) {
	uc, store, _ := newTestUseCase(nil)

	resp, err := uc.AddChannel(context.Background(), "100", &dto.ChannelRef{
		TelegramID: "-1001",
		Title:      "News",
	})
	require.NoError(t, err)
	require.Contains(t, resp.Message, "/start")

	// no user means no channel record either: the check runs first
	require.Empty(t, store.channels)
	require.Empty(t, store.subs)
}

func TestAddChannel_AlreadySubscribed(t *testing.T) {
	uc, store, _ := newTestUseCase(nil)
	ctx := context.Background()
	startUser(t, uc, "100")

	ref := &dto.ChannelRef{TelegramID: "-1001", Title: "News"}
	_, err := uc.AddChannel(ctx, "100", ref)
	require.NoError(t, err)

	resp, err := uc.AddChannel(ctx, "100", ref)
	require.NoError(t, err)
	require.Contains(t, resp.Message, "уже подписан")

	require.Len(t, store.channels, 1)
	require.Len(t, store.subs, 1)
}

func TestAddChannel_ForwardAndLinkConverge(t *testing.T) {
	lookup := &fakeLookup{chats: map[string]*dto.ChatInfo{
		"newschannel": {TelegramID: "-1001", Type: "channel", Title: "News", Username: "newschannel"},
	}}
	uc, store, _ := newTestUseCase(lookup)
	ctx := context.Background()
	startUser(t, uc, "100")

	// first via forwarded metadata
	_, err := uc.AddChannel(ctx, "100", &dto.ChannelRef{TelegramID: "-1001", Title: "News"})
	require.NoError(t, err)

	// then via link resolution to the same external identity
	ref, err := uc.ResolveLink(ctx, "newschannel")
	require.NoError(t, err)
	require.Equal(t, "-1001", ref.TelegramID)

	resp, err := uc.AddChannel(ctx, "100", ref)
	require.NoError(t, err)
	require.Contains(t, resp.Message, "уже подписан")

	// one channel row for one external identity
	require.Len(t, store.channels, 1)
	require.Len(t, store.subs, 1)
}

func TestAddChannel_QuotaExceeded(t *testing.T) {
	uc, store, _ := newTestUseCase(nil)
	ctx := context.Background()
	startUser(t, uc, "100")

	for i := 0; i < consts.MaxSubscriptions; i++ {
		resp, err := uc.AddChannel(ctx, "100", &dto.ChannelRef{
			TelegramID: fmt.Sprintf("-10%02d", i),
			Title:      fmt.Sprintf("Channel %d", i),
		})
		require.NoError(t, err)
		require.Contains(t, resp.Message, "добавлен")
	}

	resp, err := uc.AddChannel(ctx, "100", &dto.ChannelRef{
		TelegramID: "-1999",
		Title:      "One Too Many",
	})
	require.NoError(t, err)
	require.Contains(t, resp.Message, fmt.Sprintf("лимит подписок (%d)", consts.MaxSubscriptions))

	// the rejected channel row is still created speculatively
	require.Len(t, store.channels, consts.MaxSubscriptions+1)
	require.Len(t, store.subs, consts.MaxSubscriptions)
}

func TestResolveLink_NotAChannel(t *testing.T) {
	lookup := &fakeLookup{chats: map[string]*dto.ChatInfo{
		"somegroup": {TelegramID: "-2001", Type: "supergroup", Title: "Group"},
	}}
	uc, _, _ := newTestUseCase(lookup)

	_, err := uc.ResolveLink(context.Background(), "somegroup")
	require.ErrorIs(t, err, feederrors.ErrNotAChannel)
}

func TestResolveLink_LookupFailure(t *testing.T) {
	lookup := &fakeLookup{err: fmt.Errorf("chat not found")}
	uc, _, _ := newTestUseCase(lookup)

	_, err := uc.ResolveLink(context.Background(), "private")
	require.ErrorIs(t, err, feederrors.ErrChannelLookupFailed)
}

func TestFindOrCreateChannel_Idempotent(t *testing.T) {
	uc, store, _ := newTestUseCase(nil)
	ctx := context.Background()

	ref := &dto.ChannelRef{TelegramID: "-1001", Title: "News", Username: "news"}

	first, err := uc.FindOrCreateChannel(ctx, ref)
	require.NoError(t, err)

	second, err := uc.FindOrCreateChannel(ctx, ref)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Len(t, store.channels, 1)
}

// racingUserRepo simulates a concurrent creator winning the insert: the
// first lookup misses and every Create hits the unique constraint, so
// find-or-create must recover by re-reading the winner's row.
type racingUserRepo struct {
	deps.UserRepository
	missed bool
}

func (r *racingUserRepo) FindByTelegramID(ctx context.Context, telegramID string) (*entities.User, error) {
	if !r.missed {
		r.missed = true
		return nil, feederrors.ErrUserNotFound
	}
	return r.UserRepository.FindByTelegramID(ctx, telegramID)
}

func (r *racingUserRepo) Create(context.Context, *entities.User) error {
	return feederrors.ErrUserAlreadyExists
}

type racingChannelRepo struct {
	deps.ChannelRepository
	missed bool
}

func (r *racingChannelRepo) FindByTelegramID(ctx context.Context, telegramID string) (*entities.Channel, error) {
	if !r.missed {
		r.missed = true
		return nil, feederrors.ErrChannelNotFound
	}
	return r.ChannelRepository.FindByTelegramID(ctx, telegramID)
}

func (r *racingChannelRepo) Create(context.Context, *entities.Channel) error {
	return feederrors.ErrChannelAlreadyExists
}

func TestFindOrCreateUser_RetriesLostInsertRaceAsLookup(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	winner := &entities.User{TelegramID: "100", Username: "alice"}
	require.NoError(t, store.Create(ctx, winner))

	uc := NewUseCase(
		&racingUserRepo{UserRepository: store},
		fakeChannelRepo{store},
		fakeSubscriptionRepo{store},
		&fakeLookup{},
		&fakeProducer{},
		zerolog.Nop(),
	)

	user, err := uc.FindOrCreateUser(ctx, "100", "alice")
	require.NoError(t, err)
	require.Equal(t, winner.ID, user.ID)
	require.Len(t, store.users, 1)
}

func TestFindOrCreateChannel_RetriesLostInsertRaceAsLookup(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	winner := &entities.Channel{TelegramID: "-1001", Title: "News", Username: "news"}
	require.NoError(t, fakeChannelRepo{store}.Create(ctx, winner))

	uc := NewUseCase(
		store,
		&racingChannelRepo{ChannelRepository: fakeChannelRepo{store}},
		fakeSubscriptionRepo{store},
		&fakeLookup{},
		&fakeProducer{},
		zerolog.Nop(),
	)

	channel, err := uc.FindOrCreateChannel(ctx, &dto.ChannelRef{TelegramID: "-1001", Title: "News", Username: "news"})
	require.NoError(t, err)
	require.Equal(t, winner.ID, channel.ID)
	require.Len(t, store.channels, 1)
}

func TestCountMatchesList(t *testing.T) {
	uc, store, _ := newTestUseCase(nil)
	ctx := context.Background()
	startUser(t, uc, "100")

	for i := 0; i < 5; i++ {
		_, err := uc.AddChannel(ctx, "100", &dto.ChannelRef{
			TelegramID: fmt.Sprintf("-10%02d", i),
			Title:      fmt.Sprintf("Channel %d", i),
		})
		require.NoError(t, err)
	}

	user, err := store.FindByTelegramID(ctx, "100")
	require.NoError(t, err)

	subs, err := fakeSubscriptionRepo{store}.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	count, err := fakeSubscriptionRepo{store}.CountByUserID(ctx, user.ID)
	require.NoError(t, err)

	require.Equal(t, int64(len(subs)), count)
	require.LessOrEqual(t, count, int64(consts.MaxSubscriptions))
}

func TestCleanUsersWithoutSubscriptions(t *testing.T) {
	uc, store, _ := newTestUseCase(nil)
	ctx := context.Background()

	startUser(t, uc, "100")
	startUser(t, uc, "200")

	_, err := uc.AddChannel(ctx, "100", &dto.ChannelRef{TelegramID: "-1001", Title: "News"})
	require.NoError(t, err)

	deleted, err := uc.CleanUsersWithoutSubscriptions(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	// the subscribed user survives the sweep
	_, err = store.FindByTelegramID(ctx, "100")
	require.NoError(t, err)
	_, err = store.FindByTelegramID(ctx, "200")
	require.ErrorIs(t, err, feederrors.ErrUserNotFound)
}
