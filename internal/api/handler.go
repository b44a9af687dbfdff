package api

import (
	"github.com/gin-gonic/gin"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/exporter"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/offline"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/store"
)

// Handler procesador de la API del portal
type Handler struct {
	store     *store.Store
	exporter  *exporter.Exporter
	manager   *offline.Manager
	downloads *exportDownloadStore
}

// NewHandler crea el procesador de la API
func NewHandler(store *store.Store, exp *exporter.Exporter, manager *offline.Manager) *Handler {
	return &Handler{
		store:     store,
		exporter:  exp,
		manager:   manager,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes registra las rutas de la API
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// Estado del sistema
	router.GET("/status", h.GetStatus)

	// Contratos
	router.GET("/contracts", h.ListContracts)
	router.POST("/contracts", h.CreateContract)
	router.GET("/contracts/:id", h.GetContract)

	// Listado de chequeo
	router.GET("/categories", h.ListCategories)
	router.GET("/categories/:id/items", h.ListItems)
	router.GET("/contracts/:id/answers", h.ListAnswers)
	router.PUT("/contracts/:id/answers", h.SaveAnswer)

	// Exporte e importación
	router.GET("/contracts/:id/export", h.ExportContract)
	router.POST("/contracts/:id/export", h.PrepareExport)
	router.GET("/export/download/:token", h.DownloadExport)
	router.POST("/contracts/:id/import", h.ImportWorkbook)

	// Cola sin conexión
	router.GET("/offline/status", h.OfflineStatus)
	router.POST("/offline/replay", h.TriggerReplay)
}
