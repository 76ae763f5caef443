package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/database/mongoclient"
	"github.com/x-xyz/permapi/base/database/redisclient"
	"github.com/x-xyz/permapi/base/goroutine"
	"github.com/x-xyz/permapi/base/log"
	"github.com/x-xyz/permapi/base/metrics"
	bValidator "github.com/x-xyz/permapi/base/validator"
	"github.com/x-xyz/permapi/domain"
	admindomain "github.com/x-xyz/permapi/domain/admin"
	mmiddleware "github.com/x-xyz/permapi/middleware"
	"github.com/x-xyz/permapi/service/alert"
	"github.com/x-xyz/permapi/service/query"
	"github.com/x-xyz/permapi/service/redis"
	account_delivery "github.com/x-xyz/permapi/stores/account/delivery/http"
	account_repository "github.com/x-xyz/permapi/stores/account/repository"
	account_usecase "github.com/x-xyz/permapi/stores/account/usecase"
	admin_delivery "github.com/x-xyz/permapi/stores/admin/delivery/http"
	admin_repository "github.com/x-xyz/permapi/stores/admin/repository"
	admin_usecase "github.com/x-xyz/permapi/stores/admin/usecase"
	auth_delivery "github.com/x-xyz/permapi/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/permapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/permapi/stores/auth/usecase"
	hc_delivery "github.com/x-xyz/permapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/permapi/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/permapi/stores/healthcheck/usecase"
	permission_delivery "github.com/x-xyz/permapi/stores/permission/delivery/http"
	permission_repository "github.com/x-xyz/permapi/stores/permission/repository"
	permission_usecase "github.com/x-xyz/permapi/stores/permission/usecase"
)

func init() {
	pflag.String("config", "infra/configs/config.yaml", "path to config file")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		panic(err)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigFile(viper.GetString("config"))
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

//	@title			X Permissions API
//	@version		1.0
//	@description	API Document for the X delegated permission engine.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrive token from #/auth/post_auth_sign and apply with `bearer {token}`
func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), redisCachePool)

	mmiddleware.SetupCache(redisCache)

	// replay protection depends on this index
	if err := permission_repository.EnsureIndexes(context, q); err != nil {
		panic(err)
	}

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	accountRepo := account_repository.New(q, redisCache)
	adminRepo := admin_repository.New(q)
	permissionRepo := permission_repository.New(q, redisCache)
	requestRepo := permission_repository.NewRequestRepo(q)
	eventRepo := permission_repository.NewEventRepo(q)

	hc := hc_usecase.New(hcRepo)
	account := account_usecase.New(accountRepo, viper.GetString("signingMsgTemplate"))
	admin := admin_usecase.New(adminRepo, eventRepo)
	auth := auth_usecase.New(viper.GetString("jwtSecret"), account)
	permission := permission_usecase.New(&permission_usecase.PermissionUseCaseCfg{
		PermissionRepo:    permissionRepo,
		RequestRepo:       requestRepo,
		EventRepo:         eventRepo,
		AdminUC:           admin,
		Query:             q,
		ChainId:           domain.ChainId(viper.GetInt32("engine.chainId")),
		VerifyingContract: domain.Address(viper.GetString("engine.verifyingContract")).ToLower(),
	})

	seedAdmins(context, adminRepo)

	if botKey := viper.GetString("discord.botKey"); botKey != "" {
		bot := alert.NewDiscordBot(alert.DiscordBotConfig{
			ChainId:          domain.ChainId(viper.GetInt32("engine.chainId")),
			DiscordBotKey:    botKey,
			DiscordChannelId: viper.GetString("discord.channelId"),
		})
		permission.RegisterUpdateHook(bot.NotifyPermissionUpdated)
		admin.RegisterChangeHook(bot.NotifyAdminSetChanged)
	}

	authMiddleware := auth_middleware.New(auth, admin)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, viper.GetString("signingMsgTemplate"))
	account_delivery.New(e, account, authMiddleware)
	admin_delivery.New(e, admin, account, authMiddleware)
	permission_delivery.New(e, permission, authMiddleware)

	goroutine.RecoverableGo(func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	})

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}

// seedAdmins bootstraps the admin set from config so a fresh deployment has
// at least one admin able to sign delegations
func seedAdmins(c ctx.Ctx, repo admindomain.Repo) {
	seeds := viper.GetStringMapString("seedAdmins")
	for name, address := range seeds {
		addr := domain.Address(address).ToLower()
		if existing, err := repo.FindOne(c, addr); err != nil {
			c.WithField("err", err).WithField("address", addr).Error("seed admin lookup failed")
			panic(xerrors.Errorf("failed to look up seed admin %s: %w", addr, err))
		} else if existing != nil {
			continue
		}
		if err := repo.Create(c, admindomain.Admin{Name: name, Address: addr, CreatedAt: time.Now()}); err != nil {
			c.WithField("err", err).WithField("address", addr).Error("seed admin create failed")
			panic(xerrors.Errorf("failed to create seed admin %s: %w", addr, err))
		}
		c.WithField("address", addr).Info("seeded admin")
	}
}
