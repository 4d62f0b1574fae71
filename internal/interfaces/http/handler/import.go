package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/pim/backend/internal/application/catalog"
)

// ImportHandler handles batch import API endpoints
type ImportHandler struct {
	BaseHandler
	importService *catalogapp.ImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *catalogapp.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportProducts godoc
// @Summary      Import a product batch
// @Description  Run a batch of structured product payloads through the import pipeline. Existing SKUs are merged, skipped or rejected per conflict_mode; with skip_broken_records the run continues past broken payloads and reports them.
// @Tags         import
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body catalogapp.ImportRequest true "Import batch"
// @Success      200 {object} dto.Response{data=importer.ImportRunResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/import/products [post]
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req catalogapp.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.importService.ImportProducts(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
