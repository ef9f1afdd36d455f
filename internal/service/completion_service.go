// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"iris-voice-go/internal/cache"
	"iris-voice-go/internal/model"
	"iris-voice-go/internal/similarity"
	"iris-voice-go/pkg/llm"
	"iris-voice-go/pkg/log"
	"iris-voice-go/pkg/metrics"
	"sync/atomic"
	"time"
)

var (
	// ErrInvalidInput 表示调用方传入了空对话，或空文本。
	ErrInvalidInput = errors.New("invalid input: conversation is empty")
	// ErrGeneration 表示远端失败且没有任何缓存回答可以降级使用。
	ErrGeneration = errors.New("failed to generate response")
)

// remoteServiceError 包装远端模型的传输、超时和非成功响应错误，只在管线内部使用。
type remoteServiceError struct {
	err error
}

func (e *remoteServiceError) Error() string { return "remote completion failed: " + e.err.Error() }
func (e *remoteServiceError) Unwrap() error { return e.err }

// CompletionService 定义了带学习缓存的回答生成接口。
type CompletionService interface {
	// Generate 根据对话生成回答；只会返回 ErrInvalidInput 或 ErrGeneration 两种错误。
	Generate(ctx context.Context, conversation []model.ChatMessage) (*model.Reply, error)
	Stats() model.CacheStats
}

// CompletionOptions 是生成管线的可调参数。
type CompletionOptions struct {
	Generation     *llm.GenerationParams
	Timeout        time.Duration
	DegradedPrefix string
	SystemPrompt   string
}

type completionService struct {
	llmClient llm.Client
	cache     *cache.ResponseCache
	matcher   *similarity.Matcher
	opts      CompletionOptions

	hits      atomic.Uint64
	misses    atomic.Uint64
	fallbacks atomic.Uint64
	failures  atomic.Uint64
}

// NewCompletionService 创建一个新的 CompletionService 实例，缓存由调用方构造并独占传入。
func NewCompletionService(llmClient llm.Client, responseCache *cache.ResponseCache, matcher *similarity.Matcher, opts CompletionOptions) CompletionService {
	return &completionService{
		llmClient: llmClient,
		cache:     responseCache,
		matcher:   matcher,
		opts:      opts,
	}
}

// Generate 依次尝试：相似问题缓存命中 -> 远端生成并学习 -> 降级回答。
func (s *completionService) Generate(ctx context.Context, conversation []model.ChatMessage) (*model.Reply, error) {
	// 1. 取最后一条消息作为用户问题
	if len(conversation) == 0 {
		metrics.CompletionOutcomes.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidInput
	}
	userMessage := conversation[len(conversation)-1].Content

	// 2-3. 命中相似问题则直接返回，不调用远端
	if key, answer, ok := s.cache.Match(func(keys []string) (string, bool) {
		return s.matcher.FindSimilar(userMessage, keys)
	}); ok {
		s.hits.Add(1)
		metrics.CompletionOutcomes.WithLabelValues(string(model.SourceCache)).Inc()
		log.Infow("学习缓存命中", "question", userMessage, "matchedKey", key)
		return &model.Reply{Text: answer, Source: model.SourceCache}, nil
	}
	s.misses.Add(1)

	// 4. 调用远端模型（不重试）
	answer, err := s.complete(ctx, conversation)
	if err == nil {
		// 5. 学习本次问答
		s.cache.Put(userMessage, answer)
		metrics.CacheSize.Set(float64(s.cache.Len()))
		metrics.CompletionOutcomes.WithLabelValues(string(model.SourceRemote)).Inc()
		return &model.Reply{Text: answer, Source: model.SourceRemote}, nil
	}

	// 6. 远端失败：使用最早的缓存回答降级，缓存为空则失败
	log.Warnw("远端生成失败，尝试降级", "error", err)
	if fallback, ok := s.cache.Oldest(); ok {
		s.fallbacks.Add(1)
		metrics.CompletionOutcomes.WithLabelValues(string(model.SourceFallback)).Inc()
		return &model.Reply{Text: s.opts.DegradedPrefix + fallback, Source: model.SourceFallback}, nil
	}
	s.failures.Add(1)
	metrics.CompletionOutcomes.WithLabelValues("failure").Inc()
	return nil, ErrGeneration
}

func (s *completionService) complete(ctx context.Context, conversation []model.ChatMessage) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	msgs := make([]llm.Message, 0, len(conversation)+1)
	if s.opts.SystemPrompt != "" && conversation[0].Role != model.RoleSystem {
		msgs = append(msgs, llm.Message{Role: model.RoleSystem, Content: s.opts.SystemPrompt})
	}
	for _, m := range conversation {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	answer, err := s.llmClient.Complete(ctx, msgs, s.opts.Generation)
	metrics.RemoteLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", &remoteServiceError{err: fmt.Errorf("model call after %s: %w", time.Since(start).Round(time.Millisecond), err)}
	}
	return answer, nil
}

// Stats 返回缓存和管线的计数快照。
func (s *completionService) Stats() model.CacheStats {
	return model.CacheStats{
		Size:      s.cache.Len(),
		Capacity:  s.cache.Capacity(),
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Fallbacks: s.fallbacks.Load(),
		Failures:  s.failures.Load(),
	}
}
