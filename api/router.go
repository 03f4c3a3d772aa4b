// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"campusflow/sched-api/db"
	"campusflow/sched-api/middleware"
	"campusflow/sched-api/security"
	"campusflow/sched-api/service"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"
	"github.com/go-redis/redis/v8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store persist.CacheStore = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
	Mailer service.Mailer
}

func NewRouter() (*API, error) {
	a := &API{
		Argon:  security.New(),
		Mailer: service.SMTPMailer{},
	}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db

	makeLogger()
	makeCacheStore()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{viper.GetString("client.url")},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	a.registerRoutes()

	service.TokenCleanup(time.Minute*10, db)
	service.AccountCleanup(time.Hour, time.Hour*24*30, db)

	return a, nil
}

func (a *API) registerRoutes() {
	jwt := middleware.NewAuthMiddleware(a.DB)
	admin := middleware.RequireAdmin()
	turnstile := middleware.NewTurnstileMiddleware()
	authLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: viper.GetInt("ratelimit.rps"),
		Burst:             viper.GetInt("ratelimit.burst"),
	})

	main := a.Router.Group("/api", middleware.BodySizeLimiter(1<<20))
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// POST /api/signup 		-> Registers a new account and mails a verification link
		main.POST("/signup", authLimiter, turnstile, a.Signup)

		// POST /api/verify-email	-> Consumes a mailed verification token
		main.POST("/verify-email", authLimiter, a.VerifyEmail)

		// POST /api/login 		-> Checks credentials and returns a session JWT
		main.POST("/login", authLimiter, turnstile, a.Login)

		// GET /api/verify		-> Resolves the bearer token to its user
		main.GET("/verify", jwt, a.SessionVerify)

		// GET /api/me			-> Returns the calling user
		main.GET("/me", jwt, a.Me)

		// GET /api/profile/:id		-> Returns a user's public profile
		main.GET("/profile/:id", jwt, a.ProfileFetch)

		// PUT /api/profile/:id		-> Updates a user's own profile
		main.PUT("/profile/:id", jwt, a.ProfileUpdate)

		// GET /api/users		-> Lists all users (admin only)
		main.GET("/users", jwt, admin, cacheFor(30), a.UserList)
	}

	events := main.Group("/events", jwt)
	{
		// GET /api/events		-> Lists the caller's events, optionally in a time range
		events.GET("", a.EventList)

		// POST /api/events		-> Creates an event
		events.POST("", a.EventCreate)

		// PUT /api/events/:id		-> Updates an event owned by the caller
		events.PUT("/:id", a.EventUpdate)

		// DELETE /api/events/:id	-> Deletes an event owned by the caller
		events.DELETE("/:id", a.EventDelete)
	}

	academic := main.Group("/academic", jwt)
	{
		// GET /api/academic		-> Returns the caller's academic profile
		academic.GET("", a.AcademicFetch)

		// PUT /api/academic		-> Creates or updates the caller's academic profile
		academic.PUT("", a.AcademicUpsert)
	}

	grades := main.Group("/grades", jwt)
	{
		// GET /api/grades		-> Lists the caller's grades
		grades.GET("", a.GradeList)

		// POST /api/grades		-> Records a grade
		grades.POST("", a.GradeCreate)

		// DELETE /api/grades/:id	-> Deletes a grade owned by the caller
		grades.DELETE("/:id", a.GradeDelete)
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func makeCacheStore() {
	if viper.GetBool("cache.redis.enabled") {
		store = persist.NewRedisStore(redis.NewClient(&redis.Options{
			Addr: viper.GetString("cache.redis.addr"),
		}))
		return
	}

	store = persist.NewMemoryStore(time.Minute)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
