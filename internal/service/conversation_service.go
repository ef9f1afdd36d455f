package service

import (
	"context"
	"iris-voice-go/internal/model"
	"iris-voice-go/internal/repository"
	"time"
)

// ConversationService 定义了会话历史业务逻辑的接口。
type ConversationService interface {
	GetConversationHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	AppendExchange(ctx context.Context, sessionID, question, answer string) error
	ClearConversation(ctx context.Context, sessionID string) error
}

type conversationService struct {
	repo repository.ConversationRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

// GetConversationHistory 获取会话的完整消息历史。
func (s *conversationService) GetConversationHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	return s.repo.GetConversationHistory(ctx, sessionID)
}

// AppendExchange 将一问一答追加到会话历史中。
func (s *conversationService) AppendExchange(ctx context.Context, sessionID, question, answer string) error {
	history, err := s.repo.GetConversationHistory(ctx, sessionID)
	if err != nil {
		return err
	}
	now := time.Now()
	history = append(history,
		model.ChatMessage{Role: model.RoleUser, Content: question, Timestamp: now},
		model.ChatMessage{Role: model.RoleAssistant, Content: answer, Timestamp: now},
	)
	return s.repo.UpdateConversationHistory(ctx, sessionID, history)
}

// ClearConversation 清空会话历史，学习缓存不受影响。
func (s *conversationService) ClearConversation(ctx context.Context, sessionID string) error {
	return s.repo.ClearConversationHistory(ctx, sessionID)
}
