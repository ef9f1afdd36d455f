// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"iris-voice-go/internal/cache"
	"iris-voice-go/internal/config"
	"iris-voice-go/internal/handler"
	"iris-voice-go/internal/middleware"
	"iris-voice-go/internal/model"
	"iris-voice-go/internal/repository"
	"iris-voice-go/internal/service"
	"iris-voice-go/internal/similarity"
	"iris-voice-go/pkg/database"
	"iris-voice-go/pkg/inference"
	"iris-voice-go/pkg/kafka"
	"iris-voice-go/pkg/llm"
	"iris-voice-go/pkg/log"
	"iris-voice-go/pkg/storage"
	"iris-voice-go/pkg/token"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	if cfg.JWT.Secret == "" {
		log.Fatalf("jwt.secret 未配置，可通过 IRIS_JWT_SECRET 设置")
	}

	// 后台任务（Kafka 消费者）的生命周期
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// 3. 初始化 Redis，以及可选的 MySQL / MinIO
	database.InitRedis(cfg.Database.Redis)

	var archiveService service.ArchiveService
	if cfg.Database.MySQL.DSN != "" {
		database.InitMySQL(cfg.Database.MySQL.DSN, &model.Interaction{})
		archiveService = service.NewArchiveService(repository.NewInteractionRepository(database.DB))
	} else {
		log.Info("未配置 MySQL，交互归档已禁用")
	}

	var recordings service.RecordingStore
	var recordingLinks handler.RecordingLinker
	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewRecordingStore(bgCtx, cfg.MinIO)
		if err != nil {
			log.Fatal("MinIO 初始化失败", err)
		}
		recordings, recordingLinks = store, store
	}

	// 4. 交互事件发布：Kafka 可用时异步归档，否则直接写库
	var publisher service.EventPublisher
	var producer *kafka.Producer
	if archiveService != nil {
		if cfg.Kafka.Brokers != "" {
			producer = kafka.NewProducer(cfg.Kafka)
			publisher = producer
			go kafka.StartConsumer(bgCtx, cfg.Kafka, archiveService)
		} else {
			publisher = archiveService
		}
	}

	// 5. 初始化 Service (依赖注入)
	llmClient := llm.NewClient(cfg.LLM)
	inferenceClient := inference.NewClient(cfg.Inference)
	responseCache := cache.New(cfg.Cache.Capacity)
	matcher := similarity.NewMatcher(cfg.Cache.SimilarityThreshold)

	completionService := service.NewCompletionService(llmClient, responseCache, matcher, service.CompletionOptions{
		Generation:     llm.GenerationFromConfig(cfg.LLM.Generation),
		Timeout:        time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		DegradedPrefix: cfg.Cache.DegradedPrefix,
		SystemPrompt:   cfg.LLM.SystemPrompt,
	})
	conversationService := service.NewConversationService(repository.NewConversationRepository(database.RDB))
	assistantService := service.NewAssistantService(completionService, conversationService, inferenceClient, recordings, publisher)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.SessionExpireHours)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/:token", handler.NewChatHandler(assistantService, jwtManager).Handle)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/sessions", handler.NewSessionHandler(jwtManager).Create)

		completionHandler := handler.NewCompletionHandler(completionService)
		apiV1.POST("/chat/completions", completionHandler.Generate)
		apiV1.GET("/cache/stats", completionHandler.CacheStats)

		voiceHandler := handler.NewVoiceHandler(assistantService)
		apiV1.POST("/voice/wake-word", voiceHandler.WakeWord)
		apiV1.POST("/voice/speech", voiceHandler.Speech)

		// 需要会话令牌的路由
		authed := apiV1.Group("")
		authed.Use(middleware.SessionAuth(jwtManager))
		{
			authed.POST("/voice/turn", voiceHandler.Turn)
			authed.POST("/voice/text", voiceHandler.Text)

			conversationHandler := handler.NewConversationHandler(conversationService)
			authed.GET("/conversation", conversationHandler.GetConversation)
			authed.DELETE("/conversation", conversationHandler.ClearConversation)
		}

		if archiveService != nil {
			apiV1.GET("/interactions", handler.NewInteractionHandler(archiveService, recordingLinks).List)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	stopBackground()
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Warnf("关闭 Kafka 生产者失败: %v", err)
		}
	}
	log.Info("服务已优雅关闭")
}
