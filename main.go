package main

import (
	"log"
	"os"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"statsheet/internal/cache"
	"statsheet/internal/config"
	"statsheet/internal/db"
	"statsheet/internal/http/handlers"
	appmw "statsheet/internal/http/middleware"
	"statsheet/internal/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zl, err := logger.New("statsheet", os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	sqlDB, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}

	db.StartSessionCleanupWorker(sqlDB, zl)
	if cfg.SnapshotRefreshEnabled {
		db.StartSnapshotWorker(sqlDB, cfg.SnapshotRefreshInterval, zl)
	}

	responseCache, err := cache.Connect(cfg.RedisAddr, cfg.PublicCacheTTL)
	if err != nil {
		zl.Fatal("failed to connect redis", zap.Error(err))
	}
	if responseCache != nil {
		zl.Info("public response cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	r := router.New()
	auth := appmw.RequireAuth(sqlDB)
	optional := appmw.OptionalAuth(sqlDB)

	r.GET("/healthz", handlers.Healthz(sqlDB))
	r.GET("/metrics", handlers.MetricsHandler())

	r.POST("/v1/auth/register", handlers.Register(sqlDB, cfg))
	r.POST("/v1/auth/login", handlers.Login(sqlDB, cfg))
	r.POST("/v1/auth/logout", handlers.Logout(sqlDB))
	r.GET("/v1/auth/me", auth(handlers.Me()))
	r.GET("/v1/auth/google/login", handlers.GoogleLogin(cfg))
	r.GET("/v1/auth/google/callback", handlers.GoogleCallback(sqlDB, cfg))

	r.POST("/v1/api-keys/generate", auth(handlers.GenerateAPIKey(sqlDB)))
	r.DELETE("/v1/api-keys/revoke", auth(handlers.RevokeAPIKey(sqlDB)))

	r.GET("/v1/players/cards", auth(handlers.PlayerCards(sqlDB)))
	r.GET("/v1/players/cards/names", auth(handlers.PlayerCardNames(sqlDB)))
	r.GET("/v1/players/stats", auth(handlers.PlayerStats(sqlDB)))
	r.GET("/v1/players/stats/filters", auth(handlers.PlayerStatsFilters(sqlDB)))
	r.GET("/v1/players/stats/names", auth(handlers.PlayerStatsNames(sqlDB)))

	r.GET("/v1/goalies/cards", auth(handlers.GoalieCards(sqlDB)))
	r.GET("/v1/goalies/cards/names", auth(handlers.GoalieCardNames(sqlDB)))
	r.GET("/v1/goalies/stats", auth(handlers.GoalieStats(sqlDB)))
	r.GET("/v1/goalies/stats/filters", auth(handlers.GoalieStatsFilters(sqlDB)))
	r.GET("/v1/goalies/stats/names", auth(handlers.GoalieStatsNames(sqlDB)))

	r.GET("/v1/teams/cards", auth(handlers.TeamCards(sqlDB)))
	r.GET("/v1/teams/cards/names", auth(handlers.TeamCardNames(sqlDB)))
	r.GET("/v1/teams/sos/filters", auth(handlers.TeamSOSFilters(sqlDB)))
	r.GET("/v1/teams/sos/data", auth(handlers.TeamSOSData(sqlDB)))

	r.GET("/v1/bidding-package/data", auth(handlers.BiddingPackageList(sqlDB)))
	r.GET("/v1/bidding-package/player/{player_id}", auth(handlers.BiddingPackagePlayer(sqlDB)))

	r.GET("/v1/playoff-odds/data", auth(handlers.PlayoffOddsList(sqlDB)))
	r.GET("/v1/playoff-odds/{team_id}", auth(handlers.TeamPlayoffOdds(sqlDB)))

	r.GET("/v1/public/cards/player", optional(handlers.PublicPlayerCards(sqlDB, responseCache)))
	r.GET("/v1/public/cards/goalie", optional(handlers.PublicGoalieCards(sqlDB, responseCache)))
	r.GET("/v1/public/cards/team", optional(handlers.PublicTeamCards(sqlDB, responseCache)))

	r.GET("/v1/favorites", auth(handlers.ListFavorites(sqlDB)))
	r.POST("/v1/favorites/{signup_id}", auth(handlers.AddFavorite(sqlDB)))
	r.DELETE("/v1/favorites/{signup_id}", auth(handlers.RemoveFavorite(sqlDB)))

	// Global middleware chain: request logger, CORS, then metrics around the router.
	handler := appmw.RequestLogger(zl)(appmw.CORS(cfg.AllowedOrigins)(appmw.RequestMetrics(r.Handler)))

	zl.Info("statsheet listening", zap.String("addr", cfg.ListenAddr))
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}
