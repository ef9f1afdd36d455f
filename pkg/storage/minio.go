// Package storage 提供了与对象存储服务（MinIO）交互的功能，用于保存用户录音。
package storage

import (
	"bytes"
	"context"
	"fmt"
	"iris-voice-go/internal/config"
	"iris-voice-go/pkg/log"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// RecordingStore 保存录音并生成临时下载链接。
type RecordingStore struct {
	client *minio.Client
	bucket string
}

// NewRecordingStore 初始化 MinIO 客户端并确保指定的存储桶存在。
func NewRecordingStore(ctx context.Context, cfg config.MinIOConfig) (*RecordingStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
	}
	log.Info("MinIO 客户端初始化成功")

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("检查 MinIO 存储桶失败: %w", err)
	}
	if !exists {
		log.Infof("存储桶 '%s' 不存在，正在创建...", cfg.BucketName)
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("创建 MinIO 存储桶失败: %w", err)
		}
	}
	return &RecordingStore{client: client, bucket: cfg.BucketName}, nil
}

// SaveRecording 以 <sessionID>/<日期>/<uuid><扩展名> 为对象名上传录音，返回对象名。
func (s *RecordingStore) SaveRecording(ctx context.Context, sessionID, fileName string, audio []byte) (string, error) {
	objectName := fmt.Sprintf("%s/%s/%s%s", sessionID, time.Now().Format("20060102"), uuid.NewString(), path.Ext(fileName))
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(audio), int64(len(audio)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", fmt.Errorf("上传录音失败: %w", err)
	}
	return objectName, nil
}

// GetPresignedURL generates a presigned URL for a given recording.
func (s *RecordingStore) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		log.Errorf("Error generating presigned URL: %s", err)
		return "", err
	}
	return presignedURL.String(), nil
}
