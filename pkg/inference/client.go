// Package inference provides a client for the speech inference backend
// (transcription, emotion recognition, text-to-speech and wake-word detection).
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iris-voice-go/internal/config"
	"iris-voice-go/pkg/log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// AudioAnalysis 是 /process-audio 的结果。
type AudioAnalysis struct {
	Transcription string `json:"transcription"`
	Emotion       string `json:"emotion"`
	Error         string `json:"error,omitempty"`
}

// Client defines the interface for the inference backend.
type Client interface {
	ProcessAudio(ctx context.Context, fileName string, audio []byte) (*AudioAnalysis, error)
	TextToSpeech(ctx context.Context, text string) ([]float32, error)
	DetectWakeWord(ctx context.Context, fileName string, audio []byte) (bool, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new inference client based on the config.
func NewClient(cfg config.InferenceConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type speechRequest struct {
	Text         string `json:"text"`
	SystemPrompt string `json:"system_prompt"`
}

type speechResponse struct {
	Audio []float32 `json:"audio"`
}

type wakeWordResponse struct {
	Detected bool `json:"detected"`
}

// ProcessAudio uploads a recording and returns its transcription and detected emotion.
func (c *httpClient) ProcessAudio(ctx context.Context, fileName string, audio []byte) (*AudioAnalysis, error) {
	log.Infof("[InferenceClient] 开始调用 process-audio, file: %s, bytes: %d", fileName, len(audio))
	var out AudioAnalysis
	if err := c.postFile(ctx, "/process-audio", fileName, audio, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("process-audio failed: %s", out.Error)
	}
	log.Infof("[InferenceClient] 转写完成, text_len: %d, emotion: %s", len(out.Transcription), out.Emotion)
	return &out, nil
}

// TextToSpeech synthesizes text and returns raw audio samples.
func (c *httpClient) TextToSpeech(ctx context.Context, text string) ([]float32, error) {
	reqBytes, err := json.Marshal(speechRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text-to-speech", bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out speechResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if len(out.Audio) == 0 {
		return nil, errors.New("received empty audio from text-to-speech")
	}
	return out.Audio, nil
}

// DetectWakeWord reports whether the recording contains the wake word.
func (c *httpClient) DetectWakeWord(ctx context.Context, fileName string, audio []byte) (bool, error) {
	var out wakeWordResponse
	if err := c.postFile(ctx, "/detect-wake-word", fileName, audio, &out); err != nil {
		return false, err
	}
	return out.Detected, nil
}

func (c *httpClient) postFile(ctx context.Context, path, fileName string, audio []byte, out interface{}) error {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return fmt.Errorf("failed to write multipart file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		log.Errorf("[InferenceClient] 调用 %s 失败, error: %v", req.URL.Path, err)
		return fmt.Errorf("failed to call inference api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Errorf("[InferenceClient] %s 返回非 200 状态码: %s", req.URL.Path, resp.Status)
		return fmt.Errorf("inference api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode inference response: %w", err)
	}
	return nil
}
