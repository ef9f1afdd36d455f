package model

import "time"

// Interaction 代表一次归档到 MySQL 的问答交互。
type Interaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SessionID       string    `gorm:"type:varchar(64);index;not null" json:"sessionId"`
	Question        string    `gorm:"type:text;not null" json:"question"`
	Answer          string    `gorm:"type:text;not null" json:"answer"`
	Source          string    `gorm:"type:varchar(16);index" json:"source"`
	Emotion         string    `gorm:"type:varchar(32)" json:"emotion"`
	RecordingObject string    `gorm:"type:varchar(255)" json:"recordingObject"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// InteractionDTO 是返回给前端的归档记录，时间按本地格式输出。
type InteractionDTO struct {
	ID        uint      `json:"id"`
	SessionID string    `json:"sessionId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Source    string    `json:"source"`
	Emotion   string    `json:"emotion,omitempty"`
	CreatedAt LocalTime `json:"createdAt"`

	RecordingObject string `json:"-"`
	RecordingURL    string `json:"recordingUrl,omitempty"`
}
