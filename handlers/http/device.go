package httpHandler

import (
	"errors"
	"net/http"

	"nexus-server/entities"
	"nexus-server/usecases"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	useCase *usecases.DeviceUseCase
}

func NewDeviceHandler(useCase *usecases.DeviceUseCase) *DeviceHandler {
	return &DeviceHandler{useCase: useCase}
}

type registerDeviceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Region      string `json:"region"`
	Tech        string `json:"tech"`
	OracleIndex string `json:"oracleIndex"`
	Account     string `json:"account"`
}

// Register handles POST /api/device
func (h *DeviceHandler) Register(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Name == "" || req.Description == "" || req.Region == "" || req.Tech == "" || req.OracleIndex == "" || req.Account == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	device := entities.Device{
		Name:        req.Name,
		Description: req.Description,
		Region:      req.Region,
		Tech:        req.Tech,
		OracleIndex: req.OracleIndex,
		Account:     req.Account,
	}
	if err := h.useCase.Register(&device); err != nil {
		var conflict *entities.ConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{
				"error": conflict.Error(),
				"field": conflict.Field,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// List handles GET /api/devices/:account
func (h *DeviceHandler) List(c *gin.Context) {
	account := c.Param("account")
	if account == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing account"})
		return
	}

	devices, err := h.useCase.List(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch devices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// ListAll handles GET /api/devices
func (h *DeviceHandler) ListAll(c *gin.Context) {
	devices, err := h.useCase.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch devices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// Remove handles DELETE /api/device/:account/:name
func (h *DeviceHandler) Remove(c *gin.Context) {
	account := c.Param("account")
	name := c.Param("name")
	if account == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing account or device name"})
		return
	}

	if err := h.useCase.Remove(account, name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
