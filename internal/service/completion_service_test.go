package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"iris-voice-go/internal/cache"
	"iris-voice-go/internal/model"
	"iris-voice-go/internal/similarity"
	"iris-voice-go/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM 记录调用并返回预设结果。
type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	last    []llm.Message
	lastGen *llm.GenerationParams
	answer  string
	err     error
	block   bool
}

func (f *fakeLLM) Complete(ctx context.Context, messages []llm.Message, gen *llm.GenerationParams) (string, error) {
	f.mu.Lock()
	f.calls++
	f.last = messages
	f.lastGen = gen
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newCompletion(client llm.Client, c *cache.ResponseCache) CompletionService {
	return NewCompletionService(client, c, similarity.NewMatcher(similarity.DefaultThreshold), CompletionOptions{
		DegradedPrefix: "degraded: ",
	})
}

func userTurn(text string) []model.ChatMessage {
	return []model.ChatMessage{{Role: model.RoleUser, Content: text}}
}

func TestGenerateRejectsEmptyConversation(t *testing.T) {
	client := &fakeLLM{answer: "unused"}
	c := cache.New(10)
	svc := newCompletion(client, c)

	_, err := svc.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, client.Calls())
	assert.Zero(t, c.Len())
	assert.Zero(t, svc.Stats().Misses)
}

func TestGenerateMissCallsRemoteAndLearns(t *testing.T) {
	client := &fakeLLM{answer: "It is sunny."}
	c := cache.New(10)
	svc := newCompletion(client, c)

	conv := []model.ChatMessage{
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: "hi there"},
		{Role: model.RoleUser, Content: "what is the weather like"},
	}
	reply, err := svc.Generate(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, "It is sunny.", reply.Text)
	assert.Equal(t, model.SourceRemote, reply.Source)

	// 完整对话被转发给远端
	require.Len(t, client.last, 3)
	assert.Equal(t, model.RoleAssistant, client.last[1].Role)

	learned, ok := c.Get("what is the weather like")
	require.True(t, ok)
	assert.Equal(t, "It is sunny.", learned)
}

func TestGenerateCacheHitSkipsRemote(t *testing.T) {
	client := &fakeLLM{answer: "fresh"}
	c := cache.New(10)
	c.Put("what is the weather like today", "cached weather")
	svc := newCompletion(client, c)

	reply, err := svc.Generate(context.Background(), userTurn("What is the weather like today"))
	require.NoError(t, err)
	assert.Equal(t, "cached weather", reply.Text)
	assert.Equal(t, model.SourceCache, reply.Source)
	assert.Zero(t, client.Calls())
	assert.Equal(t, uint64(1), svc.Stats().Hits)
}

func TestGenerateFallsBackToOldestCachedAnswer(t *testing.T) {
	client := &fakeLLM{err: errors.New("connection refused")}
	c := cache.New(10)
	c.Put("first question", "first answer")
	c.Put("second question", "second answer")
	svc := newCompletion(client, c)

	reply, err := svc.Generate(context.Background(), userTurn("something totally different"))
	require.NoError(t, err)
	assert.Equal(t, "degraded: first answer", reply.Text)
	assert.Equal(t, model.SourceFallback, reply.Source)
	assert.Equal(t, 1, client.Calls(), "no retries")
	assert.Equal(t, 2, c.Len(), "failed questions are not learned")
}

func TestGenerateFailsClosedOnEmptyCache(t *testing.T) {
	client := &fakeLLM{err: fmt.Errorf("status 500")}
	svc := newCompletion(client, cache.New(10))

	_, err := svc.Generate(context.Background(), userTurn("hello"))
	assert.ErrorIs(t, err, ErrGeneration)
	assert.NotContains(t, err.Error(), "status 500", "raw remote errors never leak")
	assert.Equal(t, uint64(1), svc.Stats().Failures)
}

func TestGenerateTimeoutIsRemoteFailure(t *testing.T) {
	client := &fakeLLM{block: true}
	c := cache.New(10)
	c.Put("old", "old answer")
	svc := NewCompletionService(client, c, similarity.NewMatcher(0), CompletionOptions{
		Timeout:        20 * time.Millisecond,
		DegradedPrefix: "degraded: ",
	})

	reply, err := svc.Generate(context.Background(), userTurn("new question here"))
	require.NoError(t, err)
	assert.Equal(t, model.SourceFallback, reply.Source)
	assert.Equal(t, "degraded: old answer", reply.Text)
}

func TestGenerateEvictsOldestLearnedAnswer(t *testing.T) {
	client := &fakeLLM{}
	c := cache.New(2)
	svc := newCompletion(client, c)

	for i, q := range []string{"alpha one", "beta two", "gamma three"} {
		client.answer = fmt.Sprintf("answer %d", i)
		_, err := svc.Generate(context.Background(), userTurn(q))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"beta two", "gamma three"}, c.Keys())
	assert.Equal(t, 3, client.Calls())
}

func TestGeneratePassesGenerationParamsAndSystemPrompt(t *testing.T) {
	temp, maxTokens := 0.7, 1000
	client := &fakeLLM{answer: "ok"}
	svc := NewCompletionService(client, cache.New(10), similarity.NewMatcher(0), CompletionOptions{
		Generation:   &llm.GenerationParams{Temperature: &temp, MaxTokens: &maxTokens},
		SystemPrompt: "You are IRIS.",
	})

	_, err := svc.Generate(context.Background(), userTurn("hi"))
	require.NoError(t, err)
	require.NotNil(t, client.lastGen)
	assert.InDelta(t, 0.7, *client.lastGen.Temperature, 1e-9)
	assert.Equal(t, 1000, *client.lastGen.MaxTokens)
	require.Len(t, client.last, 2)
	assert.Equal(t, model.RoleSystem, client.last[0].Role)
}

func TestGenerateConcurrentCallsRespectCapacity(t *testing.T) {
	client := &fakeLLM{answer: "a"}
	c := cache.New(16)
	svc := newCompletion(client, c)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.Generate(context.Background(), userTurn(fmt.Sprintf("unique question number %d", i)))
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
