package repository

import (
	"context"
	"fmt"
	"testing"

	"iris-voice-go/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (ConversationRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewConversationRepository(rdb), mr
}

func TestHistoryEmptyForNewSession(t *testing.T) {
	repo, _ := newTestRepo(t)
	history, err := repo.GetConversationHistory(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryRoundTripWithTTL(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()
	msgs := []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
	}
	require.NoError(t, repo.UpdateConversationHistory(ctx, "s-1", msgs))

	got, err := repo.GetConversationHistory(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[1].Content)
	assert.Equal(t, historyTTL, mr.TTL(conversationKey("s-1")))

	other, err := repo.GetConversationHistory(ctx, "s-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestHistoryKeepsLatestTwenty(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	var msgs []model.ChatMessage
	for i := 0; i < 25; i++ {
		msgs = append(msgs, model.ChatMessage{Role: model.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}
	require.NoError(t, repo.UpdateConversationHistory(ctx, "s-1", msgs))

	got, err := repo.GetConversationHistory(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, got, historyLimit)
	assert.Equal(t, "m5", got[0].Content)
	assert.Equal(t, "m24", got[historyLimit-1].Content)
}

func TestClearHistory(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.UpdateConversationHistory(ctx, "s-1", []model.ChatMessage{{Role: model.RoleUser, Content: "x"}}))
	require.NoError(t, repo.ClearConversationHistory(ctx, "s-1"))
	assert.False(t, mr.Exists(conversationKey("s-1")))
}

func TestHistoryCorruptPayload(t *testing.T) {
	repo, mr := newTestRepo(t)
	require.NoError(t, mr.Set(conversationKey("s-1"), "not json"))
	_, err := repo.GetConversationHistory(context.Background(), "s-1")
	assert.Error(t, err)
}
