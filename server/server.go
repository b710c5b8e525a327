package server

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/middleware"
	"github.com/evonft/go-evonft/service/evolve"
	"github.com/evonft/go-evonft/service/logger"
	"github.com/evonft/go-evonft/service/persist"
	"github.com/evonft/go-evonft/service/persist/mongodb"
	"github.com/evonft/go-evonft/service/redis"
	"github.com/evonft/go-evonft/service/rpc"
	"github.com/evonft/go-evonft/service/throttle"
	"github.com/evonft/go-evonft/validate"
)

// Repositories is the full set of persistence interfaces the handlers use
type Repositories struct {
	UserRepository    persist.UserRepository
	NftRepository     persist.NftRepository
	AuctionRepository persist.AuctionRepository
}

// Clients holds every outbound dependency of the handlers
type Clients struct {
	Evolve         *evolve.Client
	Pinata         *rpc.PinataClient
	Mint           *rpc.MintClient
	EvolveThrottle *throttle.Locker
}

// Init initializes the server and registers its routes on the default mux
func Init() {
	setDefaults()

	initLogger()
	initSentry()

	router := CoreInit(newRepos(), newClients())

	http.Handle("/", router)
}

// CoreInit initializes the router with all middleware and handlers. Separate
// from Init so tests can wire their own repositories and clients.
func CoreInit(repos *Repositories, clients *Clients) *gin.Engine {

	logger.For(nil).Info("initializing server...")

	if env.GetString("ENV") != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.HandleCORS(), middleware.ErrLogger(), middleware.AddAuthToContext())

	if env.GetString("SENTRY_DSN") != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	if env.GetBool("ENABLE_RATE_LIMIT") {
		router.Use(middleware.RateLimited(rate.Limit(env.GetFloat64("RATE_LIMIT_RPS")), env.GetInt("RATE_LIMIT_BURST")))
	}

	validate.RegisterCustomValidators()

	return handlersInit(router, repos, clients)
}

func newRepos() *Repositories {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient := mongodb.NewMongoClient(ctx)
	db := mongoClient.Database(env.GetString("MONGO_DB_NAME"))
	if err := mongodb.SetupIndexes(ctx, db); err != nil {
		logger.For(ctx).WithError(err).Error("failed to create indexes")
	}

	return &Repositories{
		UserRepository:    mongodb.NewUserRepository(db),
		NftRepository:     mongodb.NewNftRepository(db),
		AuctionRepository: mongodb.NewAuctionRepository(db),
	}
}

func newClients() *Clients {
	ipfsClient := rpc.NewIPFSShell(env.GetString("IPFS_URL"))

	cooldown := time.Duration(env.GetInt64("EVOLVE_COOLDOWN_SECONDS")) * time.Second
	cache := redis.NewCache(redis.EvolveThrottleDB, "evolve")

	return &Clients{
		Evolve:         evolve.NewClient(ipfsClient),
		Pinata:         rpc.NewPinataClient(),
		Mint:           rpc.NewMintClient(),
		EvolveThrottle: throttle.NewLocker(cache, cooldown),
	}
}

func setDefaults() {
	viper.SetDefault("ENV", "local")
	viper.SetDefault("PORT", "3000")

	viper.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB_NAME", "evonft")

	viper.SetDefault("JWT_SECRET", "evonft-dev-secret-do-not-use-in-prod")
	viper.SetDefault("JWT_TTL", 60*60*24)

	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("REDIS_PASS", "")

	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.SetDefault("IPFS_URL", "https://ipfs.io")
	viper.SetDefault("PINATA_BASE_URL", "https://api.pinata.cloud")
	viper.SetDefault("PINATA_API_KEY", "")
	viper.SetDefault("PINATA_API_SECRET", "")

	viper.SetDefault("ANALYSIS_URL", "https://mk-analysis-1.onrender.com/analyze")
	viper.SetDefault("IMAGE_GEN_URL", "https://image-gen-zaqj.onrender.com/img2img")
	viper.SetDefault("MINT_URL", "https://evo-nft-web3.onrender.com/mint")
	viper.SetDefault("MINT_RECIPIENT", "0x5c55d91583CC15709Ee086Db68524f8721FF0c2b")

	viper.SetDefault("EVOLVE_COOLDOWN_SECONDS", 60)
	viper.SetDefault("EVOLVE_MAX_NEW_TAGS", 5)

	viper.SetDefault("ENABLE_RATE_LIMIT", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	viper.SetDefault("SENTRY_DSN", "")

	viper.AutomaticEnv()
}

func initLogger() {
	logger.SetLoggerOptions(func(l *logrus.Logger) {
		l.SetReportCaller(true)
		if env.GetString("ENV") != "local" {
			l.SetFormatter(&logrus.JSONFormatter{})
		}
	})
}

func initSentry() {
	dsn := env.GetString("SENTRY_DSN")
	if dsn == "" {
		logger.For(nil).Info("SENTRY_DSN not set, skipping sentry")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env.GetString("ENV"),
		TracesSampleRate: 0.2,
	})
	if err != nil {
		logger.For(nil).WithError(err).Error("failed to init sentry")
	}
}
