package server

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/relaylabs/delegation-relay/constants"
	"github.com/relaylabs/delegation-relay/events"
	"github.com/relaylabs/delegation-relay/govclient"
	"github.com/relaylabs/delegation-relay/handlers"
	"github.com/relaylabs/delegation-relay/logger"
	"github.com/relaylabs/delegation-relay/middleware"
	"github.com/relaylabs/delegation-relay/proxy"
	"github.com/relaylabs/delegation-relay/services"
	"github.com/relaylabs/delegation-relay/store"
)

// Handler definitions
var (
	proxyHandler      *handlers.ProxyHandler
	delegationHandler *handlers.DelegationHandler
	voteHandler       *handlers.VoteHandler
	proposalHandler   *handlers.ProposalHandler
	signatureHandler  *handlers.SignatureHandler
	eventsHandler     *handlers.EventsHandler
	poolHandler       *handlers.PoolHandler

	// Clients
	chainClient *govclient.Client

	// Services
	commonServices *handlers.CommonServices
)

// InitializeHandlers wires the whole relay from environment configuration.
func InitializeHandlers() {
	// Load environment variables from .env file for local development
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err) // Use basic log before logger init
	}

	// --- Determine and Validate Stage ---
	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = constants.LocalEnvironment
		log.Printf("Warning: STAGE environment variable not set, defaulting to '%s'", stage)
	}
	if !constants.IsValidStage(stage) {
		log.Fatalf("Invalid STAGE environment variable: '%s'. Must be one of: %s, %s, %s",
			stage, constants.ProdEnvironment, constants.DevEnvironment, constants.LocalEnvironment)
	}

	// --- Initialize Logger (AFTER stage validation) ---
	logger.InitLogger(stage)
	logger.Info("Initializing relay for stage", zap.String("stage", stage))

	ctx := context.Background()

	// --- Chain Client ---
	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		logger.Fatal("RPC_URL environment variable is required")
	}

	rawKey := strings.TrimPrefix(os.Getenv("RELAY_PRIVATE_KEY"), "0x")
	if rawKey == "" {
		logger.Fatal("RELAY_PRIVATE_KEY environment variable is required")
	}
	relayKey, err := crypto.HexToECDSA(rawKey)
	if err != nil {
		logger.Fatal("RELAY_PRIVATE_KEY is not a valid secp256k1 key", zap.Error(err))
	}

	governorAddr := requireAddress("GOVERNOR_ADDRESS")
	registryAddr := requireAddress("REGISTRY_ADDRESS")

	// Reverse naming is optional; proxies work fine without a registrar.
	var registrarAddr common.Address
	if raw := os.Getenv("REGISTRAR_ADDRESS"); raw != "" {
		if !common.IsHexAddress(raw) {
			logger.Fatal("REGISTRAR_ADDRESS is not a valid address")
		}
		registrarAddr = common.HexToAddress(raw)
	}

	chainClient, err = govclient.Dial(ctx, rpcURL, relayKey, governorAddr, registryAddr, registrarAddr, logger.Log)
	if err != nil {
		logger.Fatal("Unable to connect to chain RPC", zap.Error(err))
	}
	logger.Info("Connected to chain",
		zap.String("chain_id", chainClient.ChainID().String()),
		zap.String("relay_account", chainClient.Account().Hex()),
	)

	// --- Delegation Store ---
	var relayStore store.Store
	if stage == constants.ProdEnvironment || stage == constants.DevEnvironment {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			logger.Fatal("DATABASE_URL is required for deployed stages")
		}

		poolConfig, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			logger.Fatal("Unable to parse database DSN", zap.Error(err))
		}
		poolConfig.MaxConns = 20
		poolConfig.MinConns = 5
		poolConfig.MaxConnLifetime = time.Minute * 30
		poolConfig.MaxConnIdleTime = time.Minute * 15

		dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Fatal("Unable to create connection pool", zap.Error(err))
		}
		relayStore = store.NewPostgresStore(dbpool)
	} else {
		logger.Warn("Running with in-memory store; delegations will not survive a restart")
		relayStore = store.NewMemoryStore()
	}

	// --- Core Services ---
	bus := events.NewBus(256, logger.Log)

	var registrar proxy.ReverseRegistrar
	if registrarAddr != (common.Address{}) {
		registrar = chainClient
	}
	proxies := proxy.NewManager(registryAddr, governorAddr, chainClient, registrar, bus, logger.Log)

	hooks := govclient.NewHookResolver(chainClient)
	authority := services.NewAuthorityService(relayStore, chainClient, chainClient, hooks, governorAddr, nil, logger.Log)
	signatures := services.NewSignatureService(authority, relayStore, proxies, chainClient.ChainID(), registryAddr, bus, logger.Log)
	refunds := services.NewRefundService(chainClient, chainClient, bus, logger.Log)
	dispatch := services.NewDispatchService(authority, signatures, refunds, relayStore, proxies, chainClient, chainClient, bus, logger.Log)

	commonServices = handlers.NewCommonServices(handlers.CommonServicesConfig{
		Dispatch:   dispatch,
		Authority:  authority,
		Signatures: signatures,
		Proxies:    proxies,
		Bus:        bus,
		Logger:     logger.Log,
	})

	proxyHandler = handlers.NewProxyHandler(commonServices, logger.Log)
	delegationHandler = handlers.NewDelegationHandler(commonServices, logger.Log)
	voteHandler = handlers.NewVoteHandler(commonServices, logger.Log)
	proposalHandler = handlers.NewProposalHandler(commonServices, logger.Log)
	signatureHandler = handlers.NewSignatureHandler(commonServices, logger.Log)
	eventsHandler = handlers.NewEventsHandler(commonServices, logger.Log)
	poolHandler = handlers.NewPoolHandler(chainClient, chainClient.Account(), logger.Log)
}

func requireAddress(envVar string) common.Address {
	raw := os.Getenv(envVar)
	if raw == "" {
		logger.Fatal(envVar + " environment variable is required")
	}
	if !common.IsHexAddress(raw) {
		logger.Fatal(envVar + " is not a valid address")
	}
	return common.HexToAddress(raw)
}

// InitializeRoutes mounts middleware and the relay API onto the router.
func InitializeRoutes(router *gin.Engine) {
	router.Use(configureCORS())
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(middleware.DefaultRateLimiter.Middleware())

	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Public routes: pure derivation, verification, and the event feed.
		v1.GET("/proxies/:owner", proxyHandler.GetProxyAddress)
		v1.POST("/signatures/verify", signatureHandler.VerifySignature)
		v1.GET("/events", eventsHandler.Stream)
		v1.GET("/pool", poolHandler.GetPool)

		// Signature-carrying relay; the signature itself names the actor.
		v1.POST("/votes/by-sig", middleware.RelayRateLimiter.Middleware(), voteHandler.CastVoteBySig)

		// Caller-authenticated routes.
		authed := v1.Group("/")
		authed.Use(middleware.CallerAddressMiddleware())
		{
			authed.POST("/delegations/validate", delegationHandler.Validate)

			// Chain-touching endpoints get the tight limiter.
			relay := authed.Group("/")
			relay.Use(middleware.RelayRateLimiter.Middleware())
			{
				relay.POST("/proxies", proxyHandler.CreateProxy)
				relay.POST("/delegations", delegationHandler.SubDelegate)
				relay.POST("/delegations/batch", delegationHandler.SubDelegateBatched)
				relay.POST("/proposals", proposalHandler.Propose)
				relay.POST("/votes", voteHandler.CastVote)
				relay.POST("/votes/batch", voteHandler.CastVotesBatched)
				relay.POST("/votes/batch/refundable", voteHandler.CastRefundableVotesBatched)
				relay.POST("/signatures", signatureHandler.Sign)
			}
		}
	}
}

// configureCORS builds the CORS middleware from environment configuration.
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowHeaders = []string{
		"Origin", "Content-Type", "Accept",
		middleware.CallerAddressHeader, middleware.CorrelationIDHeader,
	}
	corsConfig.ExposeHeaders = []string{
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"X-RateLimit-Reset",
		"Retry-After",
		middleware.CorrelationIDHeader,
	}
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}
