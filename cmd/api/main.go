package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/elvispulaj/insight-forge/internal/config"
	"github.com/elvispulaj/insight-forge/internal/data/store"
	jobmodel "github.com/elvispulaj/insight-forge/internal/domain/jobModel"
	"github.com/elvispulaj/insight-forge/internal/handlers"
	"github.com/elvispulaj/insight-forge/internal/job"
	"github.com/elvispulaj/insight-forge/internal/rag"
	"github.com/elvispulaj/insight-forge/internal/rag/embedding"
	"github.com/elvispulaj/insight-forge/internal/rag/embedding/googleEmbedding"
	"github.com/elvispulaj/insight-forge/internal/rag/embedding/openaiEmbedding"
	"github.com/elvispulaj/insight-forge/internal/rag/llm"
	"github.com/elvispulaj/insight-forge/internal/rag/llm/gemini"
	"github.com/elvispulaj/insight-forge/internal/rag/llm/openaiLLM"
	"github.com/elvispulaj/insight-forge/internal/rag/vectorDB"
	"github.com/elvispulaj/insight-forge/internal/rag/vectorDB/memoryDB"
	"github.com/elvispulaj/insight-forge/internal/rag/vectorDB/qdrantDB"
	"github.com/elvispulaj/insight-forge/internal/server"
	"github.com/elvispulaj/insight-forge/internal/worker"
	"github.com/elvispulaj/insight-forge/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	config.LoadDotEnv()
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	initStores(serviceContext, &serviceConfig, logger)
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	index := pickSimilarityIndex(serviceContext, logger)
	embeddingService, llmProvider := pickProviders(serviceContext, logger)

	if embeddingService == nil || llmProvider == nil {
		logger.Error("One or more model services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(index, llmProvider, embeddingService)

	handlers.InitJobHandler(service)
	handlers.RegisterIndexDropper(ragService.DropSessionIndex)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func initStores(ctx context.Context, cfg *job.ServiceConfig, logger *logger_i.Logger) {
	jobStore := store.GetRedisJobStore(ctx)
	conversationStore := store.GetRedisConversationStore(ctx)
	sessionStore := store.GetRedisSessionStore(ctx)
	profileStore := store.GetRedisProfileStore(ctx)

	if jobStore == nil || conversationStore == nil || sessionStore == nil || profileStore == nil {
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			logger.Error("Redis stores are offline and fallback is disabled. Shutting down.")
			os.Exit(1)
		}
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		cfg.JobStore = store.InitInMemoryJobStore()
		cfg.ConversationStore = store.InitConversationStore()
		cfg.SessionStore = store.InitInMemorySessionStore()
		cfg.ProfileStore = store.InitInMemoryProfileStore()
		return
	}

	cfg.JobStore = jobStore
	cfg.ConversationStore = conversationStore
	cfg.SessionStore = sessionStore
	cfg.ProfileStore = profileStore
}

// pickSimilarityIndex prefers qdrant when it is reachable and falls back to
// the in-process index otherwise. The fallback is loud, never silent.
func pickSimilarityIndex(ctx context.Context, logger *logger_i.Logger) vectorDB.SimilarityIndex {
	if qdrant := qdrantDB.GetQuadrantClient(ctx); qdrant != nil {
		logger.Info("Using qdrant similarity index")
		return qdrant
	}
	logger.Warn("Qdrant unreachable, using in-memory similarity index. Indexed data will not survive restarts.")
	return memoryDB.NewStore()
}

func pickProviders(ctx context.Context, logger *logger_i.Logger) (embedding.Embedder, llm.Provider) {
	var embedder embedding.Embedder
	var provider llm.Provider

	switch config.EmbeddingProvider() {
	case config.ProviderGoogle:
		embedder = googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey())
	default:
		embedder = openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
	}

	switch config.LLMProvider() {
	case config.ProviderGoogle:
		provider = gemini.GetGeminiClient(ctx, config.GoogleAPIKey(), config.GeminiModelName)
	default:
		provider = openaiLLM.GetOpenAIClient(config.OpenAIAPIKey(), config.OpenAIModel)
	}

	logger.Info("Model providers selected", "embedding", config.EmbeddingProvider(), "llm", config.LLMProvider())
	return embedder, provider
}
