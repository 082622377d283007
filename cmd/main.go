package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	httpctx "github.com/dtroode/storefront-server/internal/api/http/context"
	"github.com/dtroode/storefront-server/internal/api/http/handler"
	"github.com/dtroode/storefront-server/internal/api/http/middleware"
	"github.com/dtroode/storefront-server/internal/api/http/router"
	httpServer "github.com/dtroode/storefront-server/internal/api/http/server"
	"github.com/dtroode/storefront-server/internal/config"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/password"
	"github.com/dtroode/storefront-server/internal/repository/mongo"
	"github.com/dtroode/storefront-server/internal/repository/postgres"
	"github.com/dtroode/storefront-server/internal/repository/redis"
	"github.com/dtroode/storefront-server/internal/server"
	"github.com/dtroode/storefront-server/internal/service"
	storage "github.com/dtroode/storefront-server/internal/storage/minio"
	"github.com/dtroode/storefront-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogJSON)

	userRepo, productRepo, closeStore := openStores(ctx, cfg, logger)
	defer closeStore()

	var denylist model.TokenDenylist
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
		}
		defer client.Close()
		denylist = redis.NewDenylist(client)
		logger.Info("token revocation enabled", "addr", cfg.Redis.Addr)
	} else {
		logger.Warn("REDIS_ADDR is not set, tokens stay valid until expiry")
	}

	var imageStorage model.Storage
	if cfg.Storage.Endpoint != "" {
		storageClient, err := storage.New(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		imageStorage = storageClient
	} else {
		logger.Warn("MINIO_ENDPOINT is not set, product images are disabled")
	}

	if cfg.Admin.Secret == "" {
		logger.Warn("ADMIN_SECRET is not set, privilege escalation is disabled")
	}

	clock := time.Now
	tokenManager := token.NewJWT(cfg.JWT.Secret, token.WithTTL(cfg.JWT.TTL), token.WithClock(clock))
	hasher := password.NewBcrypt(cfg.Password.Cost)

	tokenService := service.NewTokenService(tokenManager, denylist, logger, service.WithTokenClock(clock))
	authService := service.NewAuth(userRepo, hasher, tokenService, logger)
	userService := service.NewUser(userRepo, hasher, logger)
	adminService := service.NewAdmin(userRepo, cfg.Admin.Secret, logger)
	productService := service.NewProduct(productRepo, imageStorage, logger)

	ctxMgr := httpctx.NewManager()
	debug := cfg.IsDevelopment()

	h := router.New(
		router.Handlers{
			User: handler.NewUser(authService, userService, adminService, ctxMgr,
				handler.CookieConfig{Domain: cfg.HTTP.CookieDomain, TTL: cfg.JWT.TTL}, logger, debug),
			Admin:   handler.NewAdmin(adminService, userService, ctxMgr, logger, debug),
			Product: handler.NewProduct(productService, logger, debug),
		},
		router.Middlewares{
			Authenticate: middleware.NewAuthenticate(tokenService, userService, ctxMgr, logger, debug),
			Authorize:    middleware.NewAuthorize(ctxMgr, logger),
			Logging:      middleware.NewLogging(logger),
			Recover:      middleware.NewRecover(logger),
		},
		cfg.HTTP.AllowedOrigins,
	)

	apiServer := httpServer.NewHTTPServer(h, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(apiServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", apiServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// openStores connects the configured database and returns its repositories.
func openStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.UserStore, model.ProductStore, func()) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		conn, err := mongo.NewConnection(ctx, cfg.Mongo.URI, cfg.Mongo.Name)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err, "driver", cfg.Database.Driver)
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := conn.Close(closeCtx); err != nil {
				logger.Error("failed to close mongo connection", "error", err)
			}
		}
		return mongo.NewUserRepository(conn), mongo.NewProductRepository(conn), closeFn
	default:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err, "driver", cfg.Database.Driver)
		}
		closeFn := func() {
			_ = db.Close()
		}
		return postgres.NewUserRepository(db), postgres.NewProductRepository(db), closeFn
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
