package controllers

import (
	"fmt"
	"net/http"

	"github.com/findash/backend/internal/enriched"
	"github.com/findash/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// RegisterEnrichedTransactionRoutes registers the routes for enriched
// transactions with the RouterGroup that is passed.
func (co Controller) RegisterEnrichedTransactionRoutes(r *gin.RouterGroup) {
	r.GET("", co.GetEnrichedTransactions)
	r.POST("", co.CreateEnrichedTransactions)
	r.POST("/bulk-delete", co.BulkDeleteEnrichedTransactions)
}

// GetEnrichedTransactions returns the authenticated user's enriched
// transactions.
func (co Controller) GetEnrichedTransactions(c *gin.Context) {
	transactions, err := co.Enriched.List(c.Request.Context(), owner(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": transactions})
}

// CreateEnrichedTransactions upserts a batch of enriched transactions.
// Unlike the transaction upload there is no existence check: an overwrite
// of an existing id still reports "inserted".
func (co Controller) CreateEnrichedTransactions(c *gin.Context) {
	var transactions []enriched.Transaction
	if err := httputil.BindData(c, &transactions); err != nil {
		return
	}

	if err := co.Enriched.Create(c.Request.Context(), owner(c), transactions); err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
		return
	}

	results := make([]UploadResult, 0, len(transactions))
	for _, t := range transactions {
		results = append(results, UploadResult{ID: t.ID, Status: StatusInserted})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// BulkDeleteEnrichedTransactions removes the given ids. There is no
// existence check: every requested id is reported as deleted.
func (co Controller) BulkDeleteEnrichedTransactions(c *gin.Context) {
	var body BulkDeleteBody
	if err := httputil.BindData(c, &body); err != nil {
		return
	}

	deleted, err := co.Enriched.BulkDelete(c.Request.Context(), owner(c), body.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("deleted %d enriched transactions", len(deleted)),
		"deleted": deleted,
	})
}
