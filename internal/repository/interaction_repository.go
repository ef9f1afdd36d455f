package repository

import (
	"context"
	"iris-voice-go/internal/model"

	"gorm.io/gorm"
)

// InteractionRepository 定义了交互归档的持久化操作。
type InteractionRepository interface {
	Create(ctx context.Context, interaction *model.Interaction) error
	FindRecent(ctx context.Context, sessionID string, limit int) ([]model.Interaction, error)
}

// interactionRepository 是 InteractionRepository 接口的 GORM 实现。
type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository 创建一个新的 InteractionRepository 实例。
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// Create 写入一条交互记录。
func (r *interactionRepository) Create(ctx context.Context, interaction *model.Interaction) error {
	return r.db.WithContext(ctx).Create(interaction).Error
}

// FindRecent 按时间倒序返回最近的交互；sessionID 为空时返回所有会话。
func (r *interactionRepository) FindRecent(ctx context.Context, sessionID string, limit int) ([]model.Interaction, error) {
	var interactions []model.Interaction
	query := r.db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	err := query.Find(&interactions).Error
	return interactions, err
}
