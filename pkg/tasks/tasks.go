// Package tasks defines the messages that are sent to Kafka.
package tasks

import "time"

// InteractionEvent is published after every assistant turn and consumed by the archiver.
type InteractionEvent struct {
	SessionID       string    `json:"session_id"`
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	Source          string    `json:"source"`
	Emotion         string    `json:"emotion,omitempty"`
	RecordingObject string    `json:"recording_object,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
