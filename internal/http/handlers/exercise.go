package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/motoruniversal-backend/internal/http/response"
	"github.com/yungbote/motoruniversal-backend/internal/services"
)

const maxImportBytes = 4 << 20

type ExerciseHandler struct {
	content services.ExerciseContentService
	export  services.ExerciseExportService
}

func NewExerciseHandler(content services.ExerciseContentService, export services.ExerciseExportService) *ExerciseHandler {
	return &ExerciseHandler{content: content, export: export}
}

func parseExerciseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_exercise_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/exercises/:id/steps
func (h *ExerciseHandler) GetSteps(c *gin.Context) {
	id, ok := parseExerciseID(c)
	if !ok {
		return
	}
	bundle, err := h.content.LoadExerciseSteps(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, bundle)
}

// GET /api/exercises/:id/steps/:step/preview
func (h *ExerciseHandler) PreviewStep(c *gin.Context) {
	id, ok := parseExerciseID(c)
	if !ok {
		return
	}
	stepNumber, err := strconv.Atoi(c.Param("step"))
	if err != nil || stepNumber <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_step_number", fmt.Errorf("invalid step number %q", c.Param("step")))
		return
	}
	png, err := h.export.PreviewStep(c.Request.Context(), id, stepNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// POST /api/exercises/import
// Accepts the same JSON or YAML document the CLI imports.
func (h *ExerciseHandler) Import(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_import", err)
		return
	}
	if len(raw) > maxImportBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "import_too_large", errors.New("import document too large"))
		return
	}
	var in services.ExerciseImport
	if strings.Contains(c.ContentType(), "yaml") {
		err = yaml.Unmarshal(raw, &in)
	} else {
		err = json.Unmarshal(raw, &in)
	}
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_import", err)
		return
	}
	ex, err := h.content.ImportBundle(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"exercise": ex})
}
