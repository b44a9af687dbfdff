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
	"github.com/google/uuid"

	"github.com/EducacionBuga/educacion-buga-sub001/internal/exporter"
	"github.com/EducacionBuga/educacion-buga-sub001/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportContract genera y descarga el listado de chequeo de un contrato
// GET /api/contracts/:id/export
func (h *Handler) ExportContract(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "identificador de contrato inválido",
			"details": id,
		})
		return
	}

	data, name, err := h.exporter.ExportBytes(id)
	if err != nil {
		status, msg := exportErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// PrepareExport genera el libro y entrega una URL de descarga de un solo uso
// POST /api/contracts/:id/export
func (h *Handler) PrepareExport(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "identificador de contrato inválido",
			"details": id,
		})
		return
	}

	data, name, err := h.exporter.ExportBytes(id)
	if err != nil {
		status, msg := exportErrorStatus(err)
		c.JSON(status, gin.H{"error": msg, "details": err.Error()})
		return
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("edubuga_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "no se pudo escribir el archivo de exporte",
			"details": err.Error(),
		})
		return
	}

	token := h.downloads.put(tempPath, name, 10*time.Minute)
	c.JSON(http.StatusOK, gin.H{
		"downloadUrl": fmt.Sprintf("/api/export/download/%s", token),
		"fileName":    name,
	})
}

// DownloadExport descarga un exporte preparado (un solo uso)
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "falta el token", "details": ""})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "enlace de descarga vencido", "details": token})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "archivo de exporte no existe", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.fileName))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}

// exportErrorStatus traduce las categorías de fallo del exporte a códigos HTTP
func exportErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrContractNotFound):
		return http.StatusNotFound, "contrato no encontrado"
	case errors.Is(err, exporter.ErrTemplateUnavailable):
		return http.StatusServiceUnavailable, "plantilla no disponible"
	case errors.Is(err, exporter.ErrWriteOutput):
		return http.StatusInternalServerError, "no se pudo generar el libro"
	default:
		return http.StatusInternalServerError, "fallo inesperado del exporte"
	}
}
