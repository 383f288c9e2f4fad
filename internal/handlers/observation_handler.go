package handlers

import (
	"net/http"
	"strconv"

	"celestia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ObservationHandler struct {
	service service.ObservationService
}

func NewObservationHandler(service service.ObservationService) *ObservationHandler {
	return &ObservationHandler{service: service}
}

func (h *ObservationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var input service.ObservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid observation payload",
			"message": err.Error(),
		})
		return
	}

	entry, err := h.service.Create(ctx, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to create observation",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *ObservationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.service.List(ctx, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to list observations",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *ObservationHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid observation id"})
		return
	}

	entry, err := h.service.Get(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "observation not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *ObservationHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid observation id"})
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to delete observation",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "observation deleted"})
}

func (h *ObservationHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.DefaultQuery("format", "csv")

	path, err := h.service.ExportJournal(ctx, format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to export journal",
			"message": err.Error(),
		})
		return
	}

	// Отправляем файл
	c.File(path)
}
