package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fyerfyer/civic-doc-system/api"
	"github.com/fyerfyer/civic-doc-system/api/handler"
	"github.com/fyerfyer/civic-doc-system/api/middleware"
	appconfig "github.com/fyerfyer/civic-doc-system/config"
	"github.com/fyerfyer/civic-doc-system/internal/cache"
	"github.com/fyerfyer/civic-doc-system/internal/database"
	"github.com/fyerfyer/civic-doc-system/internal/repository"
	"github.com/fyerfyer/civic-doc-system/internal/services"
	"github.com/fyerfyer/civic-doc-system/internal/summarizer"
	"github.com/fyerfyer/civic-doc-system/pkg/storage"
	"github.com/fyerfyer/civic-doc-system/pkg/taskqueue"
)

func main() {
	configFile := flag.String("config", "", "Path to config file")
	mode := flag.String("mode", "release", "Run mode (debug/release)")
	logLevel := flag.String("log-level", "info", "Log level (debug/info/warn/error)")
	port := flag.Int("port", 0, "Server port, overrides config when set")
	flag.Parse()

	cfg, err := appconfig.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	gin.SetMode(*mode)

	level := *logLevel
	if cfg.Logging.Level != "" && level == "info" {
		level = cfg.Logging.Level
	}
	logger := setupLogger(cfg, level)
	logger.Info("Starting civic document system...")

	if err := setupDatabase(cfg, logger); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	fileStorage, err := setupStorage(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	recordCache, err := setupCache(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}

	orchestrator := setupSummarizer(cfg, logger)

	var queue taskqueue.Queue
	if cfg.Queue.Enable {
		queue, err = setupTaskQueue(cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer queue.Close()
		logger.Info("Task queue initialized successfully")
	}

	repo := repository.NewDocumentRepository()
	statusManager := services.NewDocumentStatusManager(repo, logger)

	documentServiceOptions := []services.DocumentOption{
		services.WithDocumentRepository(repo),
		services.WithStatusManager(statusManager),
		services.WithOCRNormalization(cfg.Pipeline.OCRNormalization),
		services.WithBatchConcurrency(cfg.Pipeline.BatchConcurrency),
		services.WithDefaultYear(cfg.Pipeline.DefaultYear),
		services.WithTimeout(time.Duration(cfg.Pipeline.Timeout) * time.Second),
		services.WithLogger(logger),
	}

	if cfg.Cache.Enable && recordCache != nil {
		documentServiceOptions = append(documentServiceOptions,
			services.WithRecordCache(recordCache),
		)
	}

	if queue != nil {
		documentServiceOptions = append(documentServiceOptions,
			services.WithTaskQueue(queue),
			services.WithAsyncProcessing(true),
		)
		logger.Info("Document processing will use async task queue")
	}

	documentService := services.NewDocumentService(
		fileStorage,
		orchestrator,
		documentServiceOptions...,
	)

	var worker taskqueue.Worker
	if queue != nil {
		worker, err = setupWorker(cfg, queue, documentService, logger)
		if err != nil {
			logger.Fatalf("Failed to start task worker: %v", err)
		}
		defer worker.Stop()
	}

	docHandler := handler.NewDocumentHandler(documentService, statusManager, repo, fileStorage)

	r := api.SetupRouter(docHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("Server is running on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// setupLogger configures the shared logger, adding a rotating file
// sink when one is configured.
func setupLogger(cfg *appconfig.Config, level string) *logrus.Logger {
	logger := middleware.GetLogger()

	if cfg.Logging.File != "" {
		logger.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAge,
			Compress:   cfg.Logging.Compress,
		}))
	}

	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

// setupDatabase initializes the status database.
func setupDatabase(cfg *appconfig.Config, logger *logrus.Logger) error {
	dbConfig := &database.Config{
		Type: cfg.Database.Type,
		DSN:  cfg.Database.DSN,
	}
	return database.Setup(dbConfig, logger)
}

// setupStorage creates the raw file staging backend.
func setupStorage(cfg *appconfig.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "minio":
		return storage.NewMinioStorage(storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			Path: cfg.Storage.Path,
		})
	}
}

// setupCache creates the processed-record cache.
func setupCache(cfg *appconfig.Config) (cache.Cache, error) {
	if !cfg.Cache.Enable {
		return nil, nil
	}

	cacheConfig := cache.Config{
		Type:            cfg.Cache.Type,
		DefaultTTL:      time.Duration(cfg.Cache.TTL) * time.Second,
		CleanupInterval: 10 * time.Minute,
	}

	if cfg.Cache.Type == "redis" {
		cacheConfig.RedisAddr = cfg.Cache.Address
		cacheConfig.RedisPassword = cfg.Cache.Password
		cacheConfig.RedisDB = cfg.Cache.DB
	}

	return cache.NewCache(cacheConfig)
}

// setupSummarizer builds the summarization orchestrator. A missing API
// key is not fatal: the orchestrator runs in degraded mode and falls
// back to excerpt summaries.
func setupSummarizer(cfg *appconfig.Config, logger *logrus.Logger) *summarizer.Orchestrator {
	orchConfig := summarizer.DefaultOrchestratorConfig()
	if cfg.Pipeline.ChunkSize > 0 {
		orchConfig.ChunkSize = cfg.Pipeline.ChunkSize
	}
	if cfg.Summarizer.Concurrency > 0 {
		orchConfig.Concurrency = cfg.Summarizer.Concurrency
	}
	orchConfig.ChunkTimeout = cfg.Summarizer.SummarizerTimeout()
	if cfg.Summarizer.MaxTokens > 0 {
		orchConfig.MaxOutputLen = cfg.Summarizer.MaxTokens
	}

	if cfg.Summarizer.APIKey == "" || cfg.Summarizer.APIKey == "${OPENAI_API_KEY}" {
		logger.Warn("No summarizer API key configured, summaries degrade to excerpts")
		return summarizer.NewOrchestrator(nil, orchConfig, logger)
	}

	client, err := summarizer.NewClient(cfg.Summarizer.Provider,
		summarizer.WithAPIKey(cfg.Summarizer.APIKey),
		summarizer.WithBaseURL(cfg.Summarizer.Endpoint),
		summarizer.WithModel(cfg.Summarizer.Model),
		summarizer.WithMaxTokens(cfg.Summarizer.MaxTokens),
		summarizer.WithTemperature(cfg.Summarizer.Temperature),
		summarizer.WithTimeout(cfg.Summarizer.SummarizerTimeout()),
		summarizer.WithMaxRetries(cfg.Summarizer.MaxRetries),
	)
	if err != nil {
		logger.Warnf("Failed to create summarizer client: %v, summaries degrade to excerpts", err)
		return summarizer.NewOrchestrator(nil, orchConfig, logger)
	}

	return summarizer.NewOrchestrator(client, orchConfig, logger)
}

// setupTaskQueue creates the async processing queue.
func setupTaskQueue(cfg *appconfig.Config, logger *logrus.Logger) (taskqueue.Queue, error) {
	queueConfig := &taskqueue.Config{
		RedisAddr:     cfg.Queue.RedisAddr,
		RedisPassword: cfg.Queue.RedisPassword,
		RedisDB:       cfg.Queue.RedisDB,
		Concurrency:   cfg.Queue.Concurrency,
		RetryLimit:    cfg.Queue.RetryLimit,
		RetryDelay:    time.Duration(cfg.Queue.RetryDelay) * time.Second,
	}

	logger.WithFields(logrus.Fields{
		"type":        cfg.Queue.Type,
		"redis_addr":  cfg.Queue.RedisAddr,
		"concurrency": cfg.Queue.Concurrency,
	}).Info("Setting up task queue")

	return taskqueue.NewQueue(cfg.Queue.Type, queueConfig)
}

// setupWorker starts the background task worker that drives queued
// document processing.
func setupWorker(cfg *appconfig.Config, queue taskqueue.Queue, documentService *services.DocumentService, logger *logrus.Logger) (taskqueue.Worker, error) {
	redisQueue, ok := queue.(*taskqueue.RedisQueue)
	if !ok {
		return nil, fmt.Errorf("queue type %s does not support an embedded worker", cfg.Queue.Type)
	}

	worker := taskqueue.NewRedisWorker(redisQueue, nil)
	taskqueue.RegisterDocumentHandlers(worker, taskqueue.NewDocumentProcessHandler(documentService, queue, logger))

	if err := worker.Start(); err != nil {
		return nil, err
	}

	logger.Info("Task worker started")
	return worker, nil
}
