package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"PaperChat/config"
	"PaperChat/db/sqlite"
	"PaperChat/internal/chat"
	"PaperChat/internal/core"
	"PaperChat/internal/llm"
	_ "PaperChat/internal/platform/arxiv" // 注册 arxiv 平台
	"PaperChat/internal/server"
	"PaperChat/pkg/download"
	"PaperChat/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger.Init(cfg.Log.Level, cfg.Env != "prod", cfg.Log.File)

	ctx := context.Background()

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("初始化 LLM 客户端失败: %w", err)
	}

	fetcher, err := core.NewPlatformFetcher("arxiv", &cfg.Arxiv)
	if err != nil {
		return fmt.Errorf("初始化 arxiv 平台失败: %w", err)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	defer store.Close()

	orchestrator := chat.NewOrchestrator(
		chat.NewClassifier(llmClient),
		fetcher,
		chat.NewRanker(llmClient),
		llmClient,
		cfg.Arxiv.MaxResults,
	)
	downloader := download.New(cfg.Download.Dir, cfg.Arxiv.Proxy, store)

	handler := server.NewHandler(orchestrator, downloader)
	engine := server.NewRouter(handler, server.Options{
		Env:            cfg.Env,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // 一轮对话要经过多次 LLM 调用
	}

	go func() {
		logger.Info("HTTP 服务启动: %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务异常退出: %v", err)
		}
	}()

	// 等待中断信号后优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务关闭失败: %v", err)
		return err
	}

	logger.Info("服务已退出")
	return nil
}
