package httpHandler

import (
	"errors"
	"net/http"
	"time"

	"nexus-server/entities"
	"nexus-server/usecases"

	"github.com/gin-gonic/gin"
)

type OracleHandler struct {
	oracleUseCase *usecases.OracleUseCase
	deviceUseCase *usecases.DeviceUseCase
	accountant    usecases.RewardAccountant
}

func NewOracleHandler(oracleUseCase *usecases.OracleUseCase, deviceUseCase *usecases.DeviceUseCase) *OracleHandler {
	return &OracleHandler{
		oracleUseCase: oracleUseCase,
		deviceUseCase: deviceUseCase,
	}
}

type fetchRequest struct {
	OracleIndex string `json:"oracleIndex"`
}

// Fetch handles POST /api/oracle-data/fetch. The owning account comes
// from the registry.
func (h *OracleHandler) Fetch(c *gin.Context) {
	var req fetchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OracleIndex == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing oracleIndex"})
		return
	}

	data, err := h.oracleUseCase.SyncByOracleIndex(c.Request.Context(), req.OracleIndex)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Oracle index not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch oracle data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// FetchWithAccount handles GET /api/fetch, the same pipeline with an
// explicit account that bypasses the registry lookup.
func (h *OracleHandler) FetchWithAccount(c *gin.Context) {
	oracleIndex := c.Query("oracleIndex")
	account := c.Query("account")
	if oracleIndex == "" || account == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "oracleIndex and account are required"})
		return
	}

	data, err := h.oracleUseCase.Sync(c.Request.Context(), oracleIndex, account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch oracle data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// TOV handles GET /api/oracle-data/tov
func (h *OracleHandler) TOV(c *gin.Context) {
	oracleIndex := c.Query("oracleIndex")
	if oracleIndex == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing oracleIndex"})
		return
	}

	latest, err := h.oracleUseCase.LatestTOV(oracleIndex)
	if err != nil {
		if errors.Is(err, entities.ErrNoTOV) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No TOV value found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch TOV value"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"tov":        latest.TOV,
		"assetClass": latest.AssetClass,
	})
}

// Read handles GET /api/oracle-data/read
func (h *OracleHandler) Read(c *gin.Context) {
	oracleIndex := c.Query("oracleIndex")
	if oracleIndex == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing oracleIndex"})
		return
	}

	data, err := h.oracleUseCase.Read(oracleIndex)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read oracle data from DB"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Rewards handles GET /api/oracle-data/rewards. A device with no
// telemetry yet reports as Pending, not as an error.
func (h *OracleHandler) Rewards(c *gin.Context) {
	oracleIndex := c.Query("oracleIndex")
	if oracleIndex == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing oracleIndex"})
		return
	}

	device, err := h.deviceUseCase.GetByOracleIndex(oracleIndex)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Oracle index not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch device"})
		return
	}

	latest, err := h.oracleUseCase.LatestTOV(oracleIndex)
	if err != nil && !errors.Is(err, entities.ErrNoTOV) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch TOV value"})
		return
	}

	summary := h.accountant.Summarize(device, latest, time.Now())
	c.JSON(http.StatusOK, gin.H{"success": true, "rewards": summary})
}
