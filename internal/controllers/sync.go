package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSyncRoutes registers the routes for store synchronization with
// the RouterGroup that is passed.
func (co Controller) RegisterSyncRoutes(r *gin.RouterGroup) {
	r.POST("/reconcile", co.Reconcile)
}

// Reconcile sweeps the secondary store against the primary store and
// repairs every divergence. The response reports what was checked,
// repaired and removed per table.
func (co Controller) Reconcile(c *gin.Context) {
	report, err := co.Syncer.Reconcile(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
