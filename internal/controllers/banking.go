package controllers

import (
	"net/http"

	"github.com/findash/backend/internal/httputil"
	"github.com/findash/backend/internal/importer"
	"github.com/findash/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterBankingRoutes registers the routes for the banking aggregation
// link with the RouterGroup that is passed.
func (co Controller) RegisterBankingRoutes(r *gin.RouterGroup) {
	r.GET("/connected-bank", co.GetConnectedBank)
	r.DELETE("/connected-bank", co.DisconnectBank)
	r.POST("/exchange-public-token", co.ExchangePublicToken)
}

// ExchangeBody is the request body for linking a bank.
type ExchangeBody struct {
	PublicToken string `json:"publicToken" example:"public-sandbox-7c3f"`
}

// GetConnectedBank returns the authenticated user's bank connection, or
// null data when no bank is connected. The access token is never part of
// the response.
func (co Controller) GetConnectedBank(c *gin.Context) {
	var bank models.ConnectedBank
	err := co.DB.First(&bank, "owner_id = ?", owner(c)).Error
	if err != nil {
		if status(err) == http.StatusNotFound {
			c.JSON(http.StatusOK, gin.H{"data": nil})
			return
		}

		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bank})
}

// DisconnectBank removes the bank connection and every account and
// category that was imported from it.
func (co Controller) DisconnectBank(c *gin.Context) {
	_, err := importer.Disconnect(c.Request.Context(), co.DB, co.Syncer, owner(c))
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, gin.H{})
}

// ExchangePublicToken links a bank: the public token from the provider's
// frontend widget is exchanged for an access token and the initial import
// runs before the response is sent.
func (co Controller) ExchangePublicToken(c *gin.Context) {
	var body ExchangeBody
	if err := httputil.BindData(c, &body); err != nil {
		return
	}

	if body.PublicToken == "" {
		c.JSON(http.StatusBadRequest, httpError{Error: errTokenNotSet.Error()})
		return
	}

	result, err := importer.Run(c.Request.Context(), co.DB, co.Syncer, co.Provider, owner(c), body.PublicToken)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}
