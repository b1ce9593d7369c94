package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/history"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/match"
	"jobmatch-backend/internal/resume"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
	"jobmatch-backend/internal/web"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	ExtractHandler *extract.Handler
	ResumeHandler  *resume.Handler
	JobsHandler    *jobs.Handler
	MatchHandler   *match.Handler
	HistoryHandler *history.Handler
}

const llmRateLimitGroup = "LLM"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Session(),
		middleware.RateLimit(rateLimitConfig()),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())
	web.RegisterRoutes(r)

	api := r.Group("")
	deps.ExtractHandler.RegisterRoutes(api)
	deps.ResumeHandler.RegisterRoutes(api)
	deps.JobsHandler.RegisterRoutes(api)
	deps.MatchHandler.RegisterRoutes(api)
	deps.HistoryHandler.RegisterRoutes(api)

	return r
}

// rateLimitConfig budgets LLM-backed endpoints more tightly than the rest.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":         {Rate: 5, Burst: 10},
			llmRateLimitGroup: {Rate: 0.5, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			switch c.FullPath() {
			case "/interpret-resume", "/match-jobs":
				return llmRateLimitGroup
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
