package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse estado general del sistema
type StatusResponse struct {
	Contracts      int  `json:"contracts"`      // contratos registrados
	Categories     int  `json:"categories"`     // categorías del listado
	PendingActions int  `json:"pendingActions"` // acciones en cola sin conexión
	Online         bool `json:"online"`         // conectividad con el backend
	RowConflicts   int  `json:"rowConflicts"`   // filas destino duplicadas en el mapeo
}

// GetStatus estado general del portal
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	contracts, err := h.store.ListContracts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo leer el estado", "details": err.Error()})
		return
	}
	categories, err := h.store.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo leer el estado", "details": err.Error()})
		return
	}

	conflicts, err := h.store.ValidateTargetRows()
	if err != nil {
		conflicts = nil
	}

	st := h.manager.Status()
	c.JSON(http.StatusOK, StatusResponse{
		Contracts:      len(contracts),
		Categories:     len(categories),
		PendingActions: st.Pending,
		Online:         st.Online,
		RowConflicts:   len(conflicts),
	})
}
