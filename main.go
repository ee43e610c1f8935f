package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"coloringbook/internal/config"
	"coloringbook/internal/handler"
	"coloringbook/internal/illustration"
	"coloringbook/internal/llm"
	"coloringbook/internal/logger"
	"coloringbook/internal/router"
	"coloringbook/internal/service"
	"coloringbook/internal/story"
	"coloringbook/internal/tools"
	"coloringbook/internal/tracer"
	"coloringbook/internal/volc"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logrus.Fatalf("初始化链路追踪失败: %v", err)
	}
	llm.InitCallbacks()

	// 初始化文本模型，未配置凭证时为 nil
	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		logrus.Fatalf("初始化文本模型失败: %v", err)
	}
	stories, err := story.NewGenerator(ctx, chatModel, cfg.LLM.Timeout)
	if err != nil {
		logrus.Fatalf("初始化故事生成器失败: %v", err)
	}

	// 初始化ArkClient
	arkClient := volc.NewArkClient(cfg.Image)
	images := illustration.NewGenerator(arkClient, cfg.Image)
	if !images.Configured() {
		logrus.Warnf("%s not set, /api/generate-images will answer 500 until it is configured", config.ImageAPIKeyEnv)
	}

	// 初始化工具
	registry, err := tools.NewRegistry(tools.NewStoryTool(stories), tools.NewColoringPageTool(images))
	if err != nil {
		logrus.Fatalf("初始化工具失败: %v", err)
	}

	engine := router.New(cfg, router.Handlers{
		Book:   handler.NewBookHandler(service.NewBookService(stories, images)),
		Tool:   handler.NewToolHandler(registry),
		Health: handler.NewHealthHandler(stories.Configured(), images.Configured()),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 在goroutine中启动服务器
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":  srv.Addr,
			"llm":   stories.Configured(),
			"image": images.Configured(),
			"mock":  cfg.Image.Mock,
		}).Info("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("启动服务器失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("关闭服务器...")

	// 优雅关闭服务器
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("服务器关闭失败: %v", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logrus.Errorf("关闭链路追踪失败: %v", err)
	}

	logrus.Info("服务器已关闭")
}
