package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// HealthHandler reports service liveness and the Redis session store status.
type HealthHandler struct {
	Redis *redis.Client
}

func NewHealthHandler(redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{Redis: redisClient}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	redisUp := true
	if h.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		redisUp = h.Redis.Ping(ctx).Err() == nil
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"service": "whatsapp-service",
		"redis":   redisUp,
	})
}
