package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	integrationapp "github.com/pim/backend/internal/application/integration"
)

// ChannelHandler handles sales channel API endpoints
type ChannelHandler struct {
	BaseHandler
	channelService *integrationapp.ChannelService
}

// NewChannelHandler creates a new ChannelHandler
func NewChannelHandler(channelService *integrationapp.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// List godoc
// @Summary      List sales channels
// @Description  List every channel connection of the tenant
// @Tags         channels
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} dto.Response{data=[]integrationapp.ChannelResponse}
// @Security     BearerAuth
// @Router       /integration/channels [get]
func (h *ChannelHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	channels, err := h.channelService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, channels)
}

// GetByID godoc
// @Summary      Get channel by ID
// @Tags         channels
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Channel ID" format(uuid)
// @Success      200 {object} dto.Response{data=integrationapp.ChannelResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels/{id} [get]
func (h *ChannelHandler) GetByID(c *gin.Context) {
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

	channel, err := h.channelService.GetByID(c.Request.Context(), tenantID, channelID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, channel)
}

// Create godoc
// @Summary      Connect a sales channel
// @Description  Create a channel connection. Settings carry the platform credentials as a JSON document and are never returned.
// @Tags         channels
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body integrationapp.CreateChannelRequest true "Channel creation request"
// @Success      201 {object} dto.Response{data=integrationapp.ChannelResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels [post]
func (h *ChannelHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req integrationapp.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	channel, err := h.channelService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, channel)
}

// Update godoc
// @Summary      Update a sales channel
// @Tags         channels
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Channel ID" format(uuid)
// @Param        request body integrationapp.UpdateChannelRequest true "Channel update request"
// @Success      200 {object} dto.Response{data=integrationapp.ChannelResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels/{id} [put]
func (h *ChannelHandler) Update(c *gin.Context) {
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

	var req integrationapp.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	channel, err := h.channelService.Update(c.Request.Context(), tenantID, channelID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, channel)
}

// Delete godoc
// @Summary      Disconnect a sales channel
// @Tags         channels
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Channel ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /integration/channels/{id} [delete]
func (h *ChannelHandler) Delete(c *gin.Context) {
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

	if err := h.channelService.Delete(c.Request.Context(), tenantID, channelID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
