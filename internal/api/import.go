package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/importer"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/store"
)

// ImportWorkbook importa un libro diligenciado a las respuestas del contrato
// POST /api/contracts/:id/import
func (h *Handler) ImportWorkbook(c *gin.Context) {
	contractID := strings.TrimSpace(c.Param("id"))

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se encontró el archivo", "details": err.Error()})
		return
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("edubuga_import_%d_%s", time.Now().Unix(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo guardar el archivo", "details": err.Error()})
		return
	}
	defer os.Remove(tempPath)

	coordinator := importer.NewCoordinator(h.store)
	report, err := coordinator.Import(contractID, tempPath)
	if err != nil {
		if errors.Is(err, store.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contrato no encontrado", "details": contractID})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "importación fallida", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
