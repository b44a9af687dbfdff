package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/store"
)

// ListContracts lista los contratos registrados
// GET /api/contracts
func (h *Handler) ListContracts(c *gin.Context) {
	contracts, err := h.store.ListContracts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudieron listar los contratos", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": contracts})
}

// GetContract obtiene un contrato
// GET /api/contracts/:id
func (h *Handler) GetContract(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	contract, err := h.store.GetContract(id)
	if err != nil {
		if errors.Is(err, store.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contrato no encontrado", "details": id})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo leer el contrato", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contract)
}

type createContractRequest struct {
	Number     string  `json:"number"`
	Contractor string  `json:"contractor"`
	Value      float64 `json:"value"`
	Object     string  `json:"object"`
	Area       string  `json:"area"`
}

// CreateContract registra un contrato
// POST /api/contracts
func (h *Handler) CreateContract(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido", "details": err.Error()})
		return
	}

	contract, err := model.NewContractRecord(uuid.New().String(), req.Number, req.Contractor, req.Value, req.Object, req.Area)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "datos de contrato inválidos", "details": err.Error()})
		return
	}

	if err := h.store.InsertContract(contract); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo guardar el contrato", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, contract)
}
