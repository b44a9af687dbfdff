package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/model"
)

// ListCategories lista las categorías del listado de chequeo
// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudieron listar las categorías", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": categories})
}

// ListItems lista los ítems de una categoría
// GET /api/categories/:id/items
func (h *Handler) ListItems(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identificador de categoría inválido", "details": c.Param("id")})
		return
	}
	items, err := h.store.ListItemsByCategory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudieron listar los ítems", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListAnswers lista las respuestas de un contrato
// GET /api/contracts/:id/answers
func (h *Handler) ListAnswers(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	answers, err := h.store.ListAnswersByContract(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudieron listar las respuestas", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": answers})
}

type saveAnswerRequest struct {
	ItemID  int64   `json:"itemId"`
	Value   *string `json:"value"`
	Remarks *string `json:"remarks"`
}

// SaveAnswer guarda una respuesta (a lo sumo una por contrato e ítem) y la
// replica al backend remoto a través de la cola sin conexión
// PUT /api/contracts/:id/answers
func (h *Handler) SaveAnswer(c *gin.Context) {
	contractID := strings.TrimSpace(c.Param("id"))

	var req saveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido", "details": err.Error()})
		return
	}

	var value *model.AnswerValue
	if req.Value != nil {
		v := model.AnswerValue(*req.Value)
		value = &v
	}

	answer, err := model.NewAnswer(contractID, req.ItemID, value, req.Remarks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "respuesta inválida", "details": err.Error()})
		return
	}

	if err := h.store.UpsertAnswer(answer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo guardar la respuesta", "details": err.Error()})
		return
	}

	// Réplica al backend alojado: encolada siempre, se reenvía al haber conexión
	payload, _ := json.Marshal(answer)
	actionID, err := h.manager.Enqueue(model.ActionCreate, "respuestas_chequeo", payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo encolar la réplica", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer, "queuedActionId": actionID})
}
