package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	integrationapp "github.com/pim/backend/internal/application/integration"
)

// SyncHandler handles outbound sync and queue API endpoints
type SyncHandler struct {
	BaseHandler
	syncService *integrationapp.SyncService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *integrationapp.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// EnqueueProductSync godoc
// @Summary      Queue a product push
// @Description  Queue a push of one product to one channel. Returns 202 with the queued task, or 200 with no data when an identical task is already queued.
// @Tags         sync
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Channel ID" format(uuid)
// @Param        productId path string true "Product ID" format(uuid)
// @Success      202 {object} dto.Response{data=integrationapp.TaskResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels/{id}/products/{productId}/sync [post]
func (h *SyncHandler) EnqueueProductSync(c *gin.Context) {
	tenantID, channelID, productID, ok := h.syncScope(c)
	if !ok {
		return
	}

	task, err := h.syncService.EnqueueProductSync(c.Request.Context(), tenantID, channelID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if task == nil {
		// duplicate inside the dedup window
		h.Success(c, nil)
		return
	}

	h.Accepted(c, task)
}

// EnqueueProductDelete godoc
// @Summary      Queue a remote product delete
// @Tags         sync
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Channel ID" format(uuid)
// @Param        productId path string true "Product ID" format(uuid)
// @Success      202 {object} dto.Response{data=integrationapp.TaskResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels/{id}/products/{productId}/sync [delete]
func (h *SyncHandler) EnqueueProductDelete(c *gin.Context) {
	tenantID, channelID, productID, ok := h.syncScope(c)
	if !ok {
		return
	}

	task, err := h.syncService.EnqueueProductDelete(c.Request.Context(), tenantID, channelID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if task == nil {
		h.Success(c, nil)
		return
	}

	h.Accepted(c, task)
}

// MirrorStatus godoc
// @Summary      Get a product's sync state on a channel
// @Tags         sync
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Channel ID" format(uuid)
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=integrationapp.MirrorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels/{id}/products/{productId}/mirror [get]
func (h *SyncHandler) MirrorStatus(c *gin.Context) {
	tenantID, channelID, productID, ok := h.syncScope(c)
	if !ok {
		return
	}

	mirror, err := h.syncService.MirrorStatus(c.Request.Context(), tenantID, channelID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, mirror)
}

// QueueStatus godoc
// @Summary      Get a channel's queue status
// @Description  Per-state task counts plus the most recent tasks
// @Tags         sync
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Channel ID" format(uuid)
// @Success      200 {object} dto.Response{data=integrationapp.QueueStatusResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels/{id}/queue [get]
func (h *SyncHandler) QueueStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid channel ID format")
		return
	}

	status, err := h.syncService.QueueStatus(c.Request.Context(), tenantID, channelID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, status)
}

// ListTasks godoc
// @Summary      List a channel's queue tasks
// @Tags         sync
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Channel ID" format(uuid)
// @Param        status query string false "Task status" Enums(NEW, PENDING, PROCESSING, PROCESSED, FAILED)
// @Param        limit query int false "Maximum entries"
// @Success      200 {object} dto.Response{data=[]integrationapp.TaskResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels/{id}/queue/tasks [get]
func (h *SyncHandler) ListTasks(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid channel ID format")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	tasks, err := h.syncService.ListTasks(c.Request.Context(), tenantID, channelID, c.Query("status"), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tasks)
}

// RetryTask godoc
// @Summary      Retry a failed queue task
// @Description  Requeue a terminally failed task with a fresh retry budget
// @Tags         sync
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        taskId path string true "Task ID" format(uuid)
// @Success      200 {object} dto.Response{data=integrationapp.TaskResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/queue/tasks/{taskId}/retry [post]
func (h *SyncHandler) RetryTask(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	task, err := h.syncService.RetryTask(c.Request.Context(), tenantID, taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// RecentLogs godoc
// @Summary      List a channel's sync log
// @Tags         sync
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Channel ID" format(uuid)
// @Param        limit query int false "Maximum entries"
// @Success      200 {object} dto.Response{data=[]integrationapp.LogEntryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels/{id}/logs [get]
func (h *SyncHandler) RecentLogs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid channel ID format")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.syncService.RecentLogs(c.Request.Context(), tenantID, channelID, limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, logs)
}

// syncScope parses the (tenant, channel, product) triple every per-product
// sync endpoint addresses
func (h *SyncHandler) syncScope(c *gin.Context) (tenantID, channelID, productID uuid.UUID, ok bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	channelID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid channel ID format")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	productID, err = uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	return tenantID, channelID, productID, true
}
