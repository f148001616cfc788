package app

import (
	"context"
	"log"
	"time"

	"supply-lending-tool/db"
	"supply-lending-tool/session"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	appSess *session.AppSessionStore
}

// Config 从环境变量读取（.env 可覆盖）
type Config struct {
	Port      string        `envconfig:"PORT" default:"8080"`
	RedisAddr string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPwd  string        `envconfig:"REDIS_PASSWORD"`
	WebOrigin string        `envconfig:"WEB_ORIGIN" default:"http://localhost:8080"`
	// 原系统的 cookie 有效期是 30 天
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	DefaultStaffName  string `envconfig:"DEFAULT_STAFF_NAME" default:"marusitsu"`
	DefaultStaffEmail string `envconfig:"DEFAULT_STAFF_EMAIL"`
	DefaultStaffPIN   string `envconfig:"DEFAULT_STAFF_PIN" default:"0000"`
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	// --- DB: Postgres ---
	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
	return a
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	_ = godotenv.Load() // 没有 .env 也没关系

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
