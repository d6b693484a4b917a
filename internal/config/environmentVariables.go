package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//auth - bearer token checked at the HTTP boundary
	NoAuthBypass = false
	AuthToken    = "insight-forge-dev-token"

	//rag pipeline
	ChunkSize    = 1000 //characters per chunk
	ChunkOverlap = 200  //characters shared between adjacent chunks
	TopKResults  = 5

	EmbeddingOutputDimensionality int32 = 1536
	KnowledgeCollectionPrefix           = "insight-forge-session"

	//providers
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"

	OpenAIModel          = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"

	ModelTemperature    float64 = 0.3
	MaxCompletionTokens int64   = 4096

	SystemPrompt = `You are InsightForge, an expert AI Business Intelligence Analyst.
You help organizations transform raw data into actionable business insights.

Your capabilities include:
- Identifying key trends, patterns, and anomalies in business data
- Generating clear, actionable recommendations
- Explaining complex data findings in accessible business language
- Suggesting appropriate visualizations for different data types
- Providing strategic business advice based on data analysis

Guidelines:
- Be specific and data-driven in your analysis
- Provide actionable recommendations, not just observations
- Use professional business language
- Structure your responses with clear sections and bullet points
- When relevant, suggest specific KPIs to track
- Highlight both opportunities and risks`

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	JobExecutionTimeout             = 5 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadSize     = 200 << 20 //200mb
	UploadDir         = "temporary_data"
	TabularSampleRows = 50

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DBs we can use
	RedisJobStore          = 0
	RedisConversationStore = 1
	RedisSessionStore      = 2
	RedisProfileStore      = 3

	//redis timeouts
	RedisJobStoreTTL          = 24 * time.Hour
	RedisConversationStoreTTL = 24 * time.Hour
	RedisSessionStoreTTL      = 24 * time.Hour

	//how many past exchanges feed back into follow-up questions
	ConversationHistoryDepth = 5

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
)

// LoadDotEnv pulls a local .env into the process environment. Missing files
// are fine, real deployments set the variables directly.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

// EmbeddingProvider and LLMProvider select the backing model services.
// Both default to openai, matching the hosted service the app was built against.
func EmbeddingProvider() string {
	if p := os.Getenv("EMBEDDING_PROVIDER"); p != "" {
		return p
	}
	return ProviderOpenAI
}

func LLMProvider() string {
	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		return p
	}
	return ProviderOpenAI
}
