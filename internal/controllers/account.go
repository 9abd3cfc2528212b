package controllers

import (
	"net/http"

	"github.com/findash/backend/internal/httputil"
	"github.com/findash/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAccountRoutes registers the routes for accounts with
// the RouterGroup that is passed.
func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.GET("", co.GetAccounts)
		r.POST("", co.CreateAccount)
		r.POST("/bulk-delete", co.BulkDeleteAccounts)
	}

	// Account with ID
	{
		r.GET("/:id", co.GetAccount)
		r.PATCH("/:id", co.UpdateAccount)
		r.DELETE("/:id", co.DeleteAccount)
	}
}

// AccountEditable contains the fields a caller can set.
type AccountEditable struct {
	Name string `json:"name" example:"Checking"`
}

// GetAccounts returns the accounts of the authenticated user.
func (co Controller) GetAccounts(c *gin.Context) {
	// When there are no resources, we want an empty list, not null
	accounts := make([]models.Account, 0)
	err := co.DB.Where("owner_id = ?", owner(c)).Order("name ASC").Find(&accounts).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

// CreateAccount creates a new account for the authenticated user.
func (co Controller) CreateAccount(c *gin.Context) {
	var editable AccountEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	if editable.Name == "" {
		c.JSON(http.StatusBadRequest, httpError{Error: errNameNotSet.Error()})
		return
	}

	account := models.Account{
		Name:    editable.Name,
		OwnerID: owner(c),
	}

	if err := co.Syncer.CreateAccount(c.Request.Context(), &account); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": account})
}

// GetAccount returns a single account. Accounts of other users are reported
// as missing, not as forbidden.
func (co Controller) GetAccount(c *gin.Context) {
	account, err := co.getAccount(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

// UpdateAccount renames an account.
func (co Controller) UpdateAccount(c *gin.Context) {
	account, err := co.getAccount(c)
	if err != nil {
		return
	}

	editable := AccountEditable{Name: account.Name}
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	updated, err := co.Syncer.UpdateAccount(c.Request.Context(), account.ID, models.Account{Name: editable.Name})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// DeleteAccount removes an account. Transactions on the account are removed
// with it.
func (co Controller) DeleteAccount(c *gin.Context) {
	account, err := co.getAccount(c)
	if err != nil {
		return
	}

	if _, err := co.Syncer.DeleteAccount(c.Request.Context(), account.ID); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, gin.H{})
}

// BulkDeleteAccounts removes a set of accounts. Only accounts the
// authenticated user owns are deleted and reported.
func (co Controller) BulkDeleteAccounts(c *gin.Context) {
	var body BulkDeleteBody
	if err := httputil.BindData(c, &body); err != nil {
		return
	}

	var accounts []models.Account
	err := co.DB.Where("id IN ? AND owner_id = ?", parseIDs(body.IDs), owner(c)).Find(&accounts).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	deleted := make([]DeletedResource, 0, len(accounts))
	for _, account := range accounts {
		if _, err := co.Syncer.DeleteAccount(c.Request.Context(), account.ID); err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		deleted = append(deleted, DeletedResource{ID: account.ID.String()})
	}

	c.JSON(http.StatusOK, gin.H{"data": deleted})
}

// getAccount loads the account from the id path parameter and checks it
// belongs to the authenticated user. On failure the response has already
// been written.
func (co Controller) getAccount(c *gin.Context) (models.Account, error) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return models.Account{}, err
	}

	var account models.Account
	err = co.DB.First(&account, "id = ? AND owner_id = ?", id, owner(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return models.Account{}, err
	}

	return account, nil
}
