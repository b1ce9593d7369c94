package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/history"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/llm"
	gemini "jobmatch-backend/internal/llm/gemini"
	openai "jobmatch-backend/internal/llm/openai"
	"jobmatch-backend/internal/match"
	"jobmatch-backend/internal/resume"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/server"
	"jobmatch-backend/internal/shared/storage/db"
	"jobmatch-backend/internal/shared/storage/object"
	localstore "jobmatch-backend/internal/shared/storage/object/local"
	s3store "jobmatch-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies wired from configuration.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	HistoryRepo    history.Repo
	HistoryService *history.Service
	ExtractService *extract.Service
	Interpreter    *resume.Interpreter
	Aggregator     *jobs.Aggregator
	Scorer         *match.Scorer

	ExtractHandler *extract.Handler
	ResumeHandler  *resume.Handler
	JobsHandler    *jobs.Handler
	MatchHandler   *match.Handler
	HistoryHandler *history.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if sqlDB != nil {
		app.HistoryRepo = &history.PGRepo{DB: sqlDB}
	} else {
		app.HistoryRepo = history.NewMemoryRepo()
	}
	app.HistoryService = history.NewService(app.HistoryRepo)

	app.ExtractService = &extract.Service{Store: store}
	app.Interpreter = &resume.Interpreter{LLM: llmClient}
	app.Aggregator = jobs.NewAggregator(cfg.RapidAPIKey, cfg.RapidAPIHost, cfg.SearchTimeout, cfg.SearchRatePerS)
	app.Scorer = &match.Scorer{LLM: llmClient}

	app.ExtractHandler = extract.NewHandler(app.ExtractService)
	app.ResumeHandler = resume.NewHandler(app.Interpreter)
	app.JobsHandler = jobs.NewHandler(app.Aggregator, app.HistoryService)
	app.MatchHandler = match.NewHandler(app.Scorer, app.HistoryService)
	app.HistoryHandler = history.NewHandler(app.HistoryService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		ExtractHandler: app.ExtractHandler,
		ResumeHandler:  app.ResumeHandler,
		JobsHandler:    app.JobsHandler,
		MatchHandler:   app.MatchHandler,
		HistoryHandler: app.HistoryHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory history")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultServerOptions())
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory history: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory history: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	case "none":
		return nil, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if strings.TrimSpace(cfg.GeminiKey) == "" {
			log.Printf("bootstrap: GEMINI_API_KEY empty; LLM endpoints will report not configured")
			return llm.PlaceholderClient{}, nil
		}
		return gemini.NewClient(ctx, cfg.GeminiKey, cfg.LLMModel)
	default:
		if strings.TrimSpace(cfg.OpenAIKey) == "" {
			log.Printf("bootstrap: OPENAI_API_KEY empty; LLM endpoints will report not configured")
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(cfg.OpenAIKey, cfg.LLMModel, cfg.LLMTimeout)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
