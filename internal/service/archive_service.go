package service

import (
	"context"
	"fmt"
	"iris-voice-go/internal/model"
	"iris-voice-go/internal/repository"
	"iris-voice-go/pkg/tasks"
)

// EventPublisher 发布交互事件；Kafka 生产者和直接归档的 ArchiveService 都实现了它。
type EventPublisher interface {
	Publish(ctx context.Context, event tasks.InteractionEvent) error
}

// ArchiveService 把交互事件写入 MySQL，并提供查询。
// 它同时实现 kafka.EventProcessor（消费端）和 EventPublisher（未启用 Kafka 时直接写库）。
type ArchiveService interface {
	EventPublisher
	Process(ctx context.Context, event tasks.InteractionEvent) error
	ListRecent(ctx context.Context, sessionID string, limit int) ([]model.InteractionDTO, error)
}

type archiveService struct {
	repo repository.InteractionRepository
}

// NewArchiveService 创建一个新的 ArchiveService。
func NewArchiveService(repo repository.InteractionRepository) ArchiveService {
	return &archiveService{repo: repo}
}

// Process 将一个交互事件保存为 Interaction 记录。
func (s *archiveService) Process(ctx context.Context, event tasks.InteractionEvent) error {
	interaction := &model.Interaction{
		SessionID:       event.SessionID,
		Question:        event.Question,
		Answer:          event.Answer,
		Source:          event.Source,
		Emotion:         event.Emotion,
		RecordingObject: event.RecordingObject,
		CreatedAt:       event.CreatedAt,
	}
	if err := s.repo.Create(ctx, interaction); err != nil {
		return fmt.Errorf("failed to archive interaction: %w", err)
	}
	return nil
}

// Publish 在未启用 Kafka 时直接归档。
func (s *archiveService) Publish(ctx context.Context, event tasks.InteractionEvent) error {
	return s.Process(ctx, event)
}

// ListRecent 返回最近的归档记录，limit 不在 1..100 内时取 20。
func (s *archiveService) ListRecent(ctx context.Context, sessionID string, limit int) ([]model.InteractionDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	interactions, err := s.repo.FindRecent(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	dtos := make([]model.InteractionDTO, 0, len(interactions))
	for _, it := range interactions {
		dtos = append(dtos, model.InteractionDTO{
			ID:        it.ID,
			SessionID: it.SessionID,
			Question:  it.Question,
			Answer:    it.Answer,
			Source:    it.Source,
			Emotion:   it.Emotion,
			CreatedAt: model.LocalTime(it.CreatedAt),

			RecordingObject: it.RecordingObject,
		})
	}
	return dtos, nil
}
