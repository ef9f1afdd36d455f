package service

import (
	"context"
	"errors"
	"fmt"
	"iris-voice-go/internal/model"
	"iris-voice-go/pkg/inference"
	"iris-voice-go/pkg/log"
	"iris-voice-go/pkg/tasks"
	"strings"
	"time"
)

var (
	// ErrNoSpeech 表示录音中没有识别出任何文字。
	ErrNoSpeech = errors.New("no speech recognized")
	// ErrInference 表示语音推理后端不可用。
	ErrInference = errors.New("inference backend unavailable")
)

// RecordingStore 保存原始录音，返回对象名。
type RecordingStore interface {
	SaveRecording(ctx context.Context, sessionID, fileName string, audio []byte) (string, error)
}

// AssistantService 串联一次语音助手交互：转写 -> 生成回答 -> 语音合成 -> 记录。
type AssistantService interface {
	HandleAudio(ctx context.Context, sessionID, fileName string, audio []byte) (*model.VoiceTurn, error)
	HandleText(ctx context.Context, sessionID, text string) (*model.VoiceTurn, error)
	DetectWakeWord(ctx context.Context, fileName string, audio []byte) (bool, error)
	Speak(ctx context.Context, text string) ([]float32, error)
}

type assistantService struct {
	completion    CompletionService
	conversations ConversationService
	inference     inference.Client
	recordings    RecordingStore // 可为 nil
	publisher     EventPublisher // 可为 nil
}

// NewAssistantService 创建一个新的 AssistantService 实例。recordings 与 publisher 可以为 nil。
func NewAssistantService(completion CompletionService, conversations ConversationService, inferenceClient inference.Client, recordings RecordingStore, publisher EventPublisher) AssistantService {
	return &assistantService{
		completion:    completion,
		conversations: conversations,
		inference:     inferenceClient,
		recordings:    recordings,
		publisher:     publisher,
	}
}

// HandleAudio 处理一段录音：保存录音（可选）、转写与情绪识别，然后按文本交互继续。
func (s *assistantService) HandleAudio(ctx context.Context, sessionID, fileName string, audio []byte) (*model.VoiceTurn, error) {
	if len(audio) == 0 {
		return nil, ErrInvalidInput
	}

	var recordingObject string
	if s.recordings != nil {
		obj, err := s.recordings.SaveRecording(ctx, sessionID, fileName, audio)
		if err != nil {
			log.Warnw("保存录音失败", "session", sessionID, "error", err)
		} else {
			recordingObject = obj
		}
	}

	analysis, err := s.inference.ProcessAudio(ctx, fileName, audio)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	transcript := strings.TrimSpace(analysis.Transcription)
	if transcript == "" {
		return nil, ErrNoSpeech
	}
	log.Infow("语音转写完成", "session", sessionID, "transcript", transcript, "emotion", analysis.Emotion)

	return s.respond(ctx, sessionID, transcript, analysis.Emotion, recordingObject)
}

// HandleText 处理一条文本输入。
func (s *assistantService) HandleText(ctx context.Context, sessionID, text string) (*model.VoiceTurn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidInput
	}
	return s.respond(ctx, sessionID, text, "", "")
}

func (s *assistantService) respond(ctx context.Context, sessionID, text, emotion, recordingObject string) (*model.VoiceTurn, error) {
	// 1. 载入会话历史，失败时按空历史继续
	history, err := s.conversations.GetConversationHistory(ctx, sessionID)
	if err != nil {
		log.Errorf("Failed to load conversation history: %v", err)
		history = nil
	}
	conversation := make([]model.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		conversation = append(conversation, model.ChatMessage{Role: m.Role, Content: m.Content})
	}
	conversation = append(conversation, model.ChatMessage{Role: model.RoleUser, Content: text})

	// 2. 生成回答
	reply, err := s.completion.Generate(ctx, conversation)
	if err != nil {
		return nil, err
	}

	turn := &model.VoiceTurn{
		SessionID:       sessionID,
		Transcript:      text,
		Emotion:         emotion,
		Reply:           reply.Text,
		Source:          reply.Source,
		RecordingObject: recordingObject,
	}

	// 3. 语音合成失败时只返回文本，由前端自行朗读
	if audio, err := s.inference.TextToSpeech(ctx, reply.Text); err != nil {
		log.Warnw("语音合成失败，仅返回文本", "session", sessionID, "error", err)
	} else {
		turn.Audio = audio
	}

	// 4. 保存历史并发布交互事件；请求被取消也要落库
	bg := context.WithoutCancel(ctx)
	if err := s.conversations.AppendExchange(bg, sessionID, text, reply.Text); err != nil {
		log.Errorf("Failed to save conversation history: %v", err)
	}
	if s.publisher != nil {
		event := tasks.InteractionEvent{
			SessionID:       sessionID,
			Question:        text,
			Answer:          reply.Text,
			Source:          string(reply.Source),
			Emotion:         emotion,
			RecordingObject: recordingObject,
			CreatedAt:       time.Now(),
		}
		if err := s.publisher.Publish(bg, event); err != nil {
			log.Errorf("Failed to publish interaction event: %v", err)
		}
	}
	return turn, nil
}

// DetectWakeWord 检测录音中是否包含唤醒词。
func (s *assistantService) DetectWakeWord(ctx context.Context, fileName string, audio []byte) (bool, error) {
	if len(audio) == 0 {
		return false, ErrInvalidInput
	}
	detected, err := s.inference.DetectWakeWord(ctx, fileName, audio)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInference, err)
	}
	return detected, nil
}

// Speak 直接合成一段文本。
func (s *assistantService) Speak(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}
	audio, err := s.inference.TextToSpeech(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	return audio, nil
}
