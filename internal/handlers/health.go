package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xinwork/repair-order-api/internal/constants"
	"github.com/xinwork/repair-order-api/internal/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	log     *zap.Logger
	version string
}

func NewHealthHandler(db *gorm.DB, log *zap.Logger, version string) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{db: db, log: log, version: version}
}

// Health reports that the process is serving requests
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Repair Order API is running",
		"version": h.version,
	})
}

// Database reports whether the database answers a ping
func (h *HealthHandler) Database(c *gin.Context) {
	if err := database.Ping(c.Request.Context(), h.db); err != nil {
		h.log.Error("database health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "error",
			"database": "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC(),
	})
}

// Auth echoes the authenticated caller
func (h *HealthHandler) Auth(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	username := c.GetString(constants.ContextKeyUsername)

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"user_id":  actor.ID,
		"username": username,
		"role":     actor.Role,
	})
}
