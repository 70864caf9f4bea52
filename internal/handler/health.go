package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the service and its dependencies. The endpoint
// is public; it exposes component state but no data.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		components := gin.H{"database": "ok"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			components["database"] = "down"
			status = http.StatusServiceUnavailable
		}

		if rdb != nil {
			components["redis"] = "ok"
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				// Redis only backs the dashboard cache; its loss degrades, not breaks.
				components["redis"] = "down"
			}
		}

		c.JSON(status, gin.H{"status": http.StatusText(status), "components": components})
	}
}
