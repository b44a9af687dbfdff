package server

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/api"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/config"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/exporter"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/offline"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/store"
)

// Server servidor HTTP del portal
type Server struct {
	router  *gin.Engine
	store   *store.Store
	manager *offline.Manager
	signal  *offline.ProbeSignal
	handler *api.Handler
}

// NewServer crea el servidor con todas sus dependencias
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Inicializar el Store SQLite
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "edubuga.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Colisiones de mapeo se reportan al arrancar, no al exportar
	if conflicts, err := sqliteStore.ValidateTargetRows(); err == nil && len(conflicts) > 0 {
		for _, cft := range conflicts {
			log.Printf("mapeo de filas con conflicto: %s", cft)
		}
	}

	// Motor de exporte
	source := exporter.NewSource(cfg.Excel.TemplatePath, cfg.Excel.TemplateURL)
	exp := exporter.NewExporter(sqliteStore, source)

	// Gestor de cola sin conexión
	policy := offline.Policy{
		MaxAttempts:  cfg.Offline.MaxRetries,
		InitialDelay: time.Duration(cfg.Offline.InitialDelaySec) * time.Second,
		Factor:       cfg.Offline.BackoffFactor,
		Timeout:      time.Duration(cfg.Offline.TimeoutSec) * time.Second,
		Retryable:    offline.IsRetryableBackendError,
	}
	backend := offline.NewRestBackend(cfg.Remote.BaseURL, cfg.Remote.APIKey, policy.Timeout)
	signal := offline.NewProbeSignal(
		offline.NewHTTPProbe(cfg.Remote.BaseURL),
		time.Duration(cfg.Remote.ProbeIntervalSec)*time.Second,
	)
	manager, err := offline.NewManager(
		offline.NewSQLiteQueueStore(sqliteStore),
		backend,
		signal,
		policy,
		time.Duration(cfg.Offline.ReplayTickSec)*time.Second,
	)
	if err != nil {
		log.Fatalf("Failed to initialize offline queue: %v", err)
	}

	handler := api.NewHandler(sqliteStore, exp, manager)

	s := &Server{
		router:  gin.Default(),
		store:   sqliteStore,
		manager: manager,
		signal:  signal,
		handler: handler,
	}

	s.setupRoutes()

	return s
}

// setupRoutes configura las rutas
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.handler.RegisterRoutes(apiGroup)
	}
}

// Run arranca el servidor y los bucles de conectividad y reenvío
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.signal.Run(ctx)
	go s.manager.Run(ctx)
	return s.router.Run(addr)
}

// Close libera los recursos del servidor
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore expone el almacenamiento (para pruebas)
func (s *Server) GetStore() *store.Store {
	return s.store
}
