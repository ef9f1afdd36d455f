// Package model 包含了应用的数据模型定义。
package model

import "time"

// 消息角色。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage 代表一条带角色的对话消息，也是 Redis 中会话历史的存储单元。
type ChatMessage struct {
	Role      string    `json:"role" binding:"required,oneof=user assistant system"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ReplySource 标识一次回答的来源。
type ReplySource string

const (
	// SourceCache 表示命中了学习缓存，没有调用远端模型。
	SourceCache ReplySource = "cache"
	// SourceRemote 表示由远端模型生成。
	SourceRemote ReplySource = "remote"
	// SourceFallback 表示远端失败后返回的降级回答，不保证与当前问题相关。
	SourceFallback ReplySource = "fallback"
)

// Reply 是生成管线的输出。
type Reply struct {
	Text   string      `json:"text"`
	Source ReplySource `json:"source"`
}

// VoiceTurn 是一次完整的语音/文本交互结果。
type VoiceTurn struct {
	SessionID       string      `json:"sessionId"`
	Transcript      string      `json:"transcript"`
	Emotion         string      `json:"emotion,omitempty"`
	Reply           string      `json:"reply"`
	Source          ReplySource `json:"source"`
	Audio           []float32   `json:"audio,omitempty"`
	RecordingObject string      `json:"recordingObject,omitempty"`
}

// CacheStats 汇总学习缓存与生成管线的运行计数。
type CacheStats struct {
	Size      int    `json:"size"`
	Capacity  int    `json:"capacity"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Fallbacks uint64 `json:"fallbacks"`
	Failures  uint64 `json:"failures"`
}
