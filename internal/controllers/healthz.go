package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers the routes for the health endpoint with
// the RouterGroup that is passed.
func (co Controller) RegisterHealthRoutes(r *gin.RouterGroup) {
	r.GET("", co.GetHealth)
}

// GetHealth returns the application health. The primary store is pinged;
// the secondary store is not part of liveness since the service degrades
// gracefully without it.
func (co Controller) GetHealth(c *gin.Context) {
	sqlDB, err := co.DB.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusOK)
}
