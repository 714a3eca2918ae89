package initialize

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"webguard/backend/app/controllers"
	"webguard/backend/app/db"
	jwtutil "webguard/backend/app/jwt"
	"webguard/backend/app/middleware"
	"webguard/backend/app/models"
	"webguard/backend/app/queue"
	"webguard/backend/app/repo"
	"webguard/backend/app/services"
	"webguard/backend/config"
	"webguard/backend/global"
	"webguard/backend/router"

	"gorm.io/gorm"
)

type App struct {
	Cfg    config.Config
	DB     *gorm.DB
	Queue  queue.Queue
	Router http.Handler
}

func Build(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	global.Config = cfg

	gdb, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	global.Mdb = gdb

	if err := gdb.AutoMigrate(&models.User{}, &models.TrackedURL{}, &models.PendingCommand{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Queue backend: redis list when an address is configured, DB rows
	// otherwise.
	var q queue.Queue
	if cfg.Redis.Addr != "" {
		global.Rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		q = queue.NewRedisQueue(global.Rdb)
	} else {
		q = queue.NewDBQueue(repo.NewCommandRepository(gdb))
	}

	userRepo := repo.NewUserRepository(gdb)
	urlRepo := repo.NewTrackedURLRepository(gdb)
	userSvc := services.NewUserService(userRepo)
	if err := userSvc.EnsureAdmin(cfg.Admin.Username, cfg.Admin.Password); err != nil {
		global.Logger.Warn().Err(err).Msg("ensure admin")
	}

	signer := &jwtutil.Signer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, ExpMin: cfg.JWT.ExpMin}
	mw := &middleware.Auth{Signer: signer}

	channelCtrl := controllers.NewChannelController(q, urlRepo)
	authCtrl := controllers.NewAuthController(userSvc, signer)
	adminCtrl := controllers.NewAdminController(q)

	h := router.NewRouter(channelCtrl, authCtrl, adminCtrl, mw)
	h = middleware.Logging(h)

	return &App{Cfg: cfg, DB: gdb, Queue: q, Router: h}, nil
}
