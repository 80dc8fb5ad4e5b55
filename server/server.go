package server

import (
	"nexus-server/cache"
	"nexus-server/confs"
	"nexus-server/db"
	httpHandler "nexus-server/handlers/http"
	"nexus-server/repositories"
	"nexus-server/usecases"
	"nexus-server/xrpl"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	app *gin.Engine
	db  db.Database
	cfg *confs.Config
	log *zap.Logger
}

func NewServer(database db.Database, cfg *confs.Config, log *zap.Logger) *Server {
	return &Server{
		app: gin.Default(),
		db:  database,
		cfg: cfg,
		log: log,
	}
}

func (s *Server) Start() {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Initialize repositories and the ledger client
	deviceRepo := repositories.NewDevicePgRepository(s.db)
	oracleRepo := repositories.NewOracleDataPgRepository(s.db)
	ledger := xrpl.NewClient(s.cfg.LedgerWSURL, s.cfg.LedgerTimeout, s.log)
	tovCache := cache.NewTOVCache(0)

	// Initialize use cases
	deviceUseCase := usecases.NewDeviceUseCase(deviceRepo)
	oracleUseCase := usecases.NewOracleUseCase(deviceRepo, oracleRepo, ledger, tovCache, s.log)

	// Initialize handlers
	deviceHandler := httpHandler.NewDeviceHandler(deviceUseCase)
	oracleHandler := httpHandler.NewOracleHandler(oracleUseCase, deviceUseCase)
	mintHandler := httpHandler.NewMintHandler(ledger, deviceUseCase, s.cfg, s.log)

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
			"cache":  tovCache.Stats(),
		})
	})

	// Setup API routes
	api := s.app.Group("/api")
	{
		// Device registry
		api.POST("/device", deviceHandler.Register)
		api.GET("/devices", deviceHandler.ListAll)
		api.GET("/devices/:account", deviceHandler.List)
		api.DELETE("/device/:account/:name", deviceHandler.Remove)

		// Oracle telemetry
		api.POST("/oracle-data/fetch", oracleHandler.Fetch)
		api.GET("/fetch", oracleHandler.FetchWithAccount)
		api.GET("/oracle-data/tov", oracleHandler.TOV)
		api.GET("/oracle-data/read", oracleHandler.Read)
		api.GET("/oracle-data/rewards", oracleHandler.Rewards)

		// Token minting
		api.POST("/mint", mintHandler.Mint)
	}

	if err := s.app.Run("0.0.0.0:" + s.cfg.Port); err != nil {
		panic(err)
	}
}
