package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OfflineStatus estado observable del gestor de cola
// GET /api/offline/status
func (h *Handler) OfflineStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Status())
}

// TriggerReplay dispara un reenvío manual de la cola pendiente
// POST /api/offline/replay
func (h *Handler) TriggerReplay(c *gin.Context) {
	go h.manager.ReplayAll()
	c.JSON(http.StatusAccepted, gin.H{"pending": h.manager.Pending()})
}
