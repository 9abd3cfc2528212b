package controllers

import (
	"net/http"

	"github.com/findash/backend/internal/httputil"
	"github.com/findash/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategory)
		r.POST("/bulk-delete", co.BulkDeleteCategories)
	}

	// Category with ID
	{
		r.GET("/:id", co.GetCategory)
		r.PATCH("/:id", co.UpdateCategory)
		r.DELETE("/:id", co.DeleteCategory)
	}
}

// CategoryEditable contains the fields a caller can set.
type CategoryEditable struct {
	Name string `json:"name" example:"Groceries"`
}

// GetCategories returns the categories of the authenticated user.
func (co Controller) GetCategories(c *gin.Context) {
	// When there are no resources, we want an empty list, not null
	categories := make([]models.Category, 0)
	err := co.DB.Where("owner_id = ?", owner(c)).Order("name ASC").Find(&categories).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// CreateCategory creates a new category for the authenticated user.
func (co Controller) CreateCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	if editable.Name == "" {
		c.JSON(http.StatusBadRequest, httpError{Error: errNameNotSet.Error()})
		return
	}

	category := models.Category{
		Name:    editable.Name,
		OwnerID: owner(c),
	}

	if err := co.Syncer.CreateCategory(c.Request.Context(), &category); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": category})
}

// GetCategory returns a single category.
func (co Controller) GetCategory(c *gin.Context) {
	category, err := co.getCategory(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

// UpdateCategory renames a category.
func (co Controller) UpdateCategory(c *gin.Context) {
	category, err := co.getCategory(c)
	if err != nil {
		return
	}

	editable := CategoryEditable{Name: category.Name}
	if err := httputil.BindData(c, &editable); err != nil {
		return
	}

	updated, err := co.Syncer.UpdateCategory(c.Request.Context(), category.ID, models.Category{Name: editable.Name})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// DeleteCategory removes a category. Transactions keep existing and become
// uncategorized.
func (co Controller) DeleteCategory(c *gin.Context) {
	category, err := co.getCategory(c)
	if err != nil {
		return
	}

	if _, err := co.Syncer.DeleteCategory(c.Request.Context(), category.ID); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, gin.H{})
}

// BulkDeleteCategories removes a set of categories. Only categories the
// authenticated user owns are deleted and reported.
func (co Controller) BulkDeleteCategories(c *gin.Context) {
	var body BulkDeleteBody
	if err := httputil.BindData(c, &body); err != nil {
		return
	}

	var categories []models.Category
	err := co.DB.Where("id IN ? AND owner_id = ?", parseIDs(body.IDs), owner(c)).Find(&categories).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	deleted := make([]DeletedResource, 0, len(categories))
	for _, category := range categories {
		if _, err := co.Syncer.DeleteCategory(c.Request.Context(), category.ID); err != nil {
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}

		deleted = append(deleted, DeletedResource{ID: category.ID.String()})
	}

	c.JSON(http.StatusOK, gin.H{"data": deleted})
}

// getCategory loads the category from the id path parameter and checks it
// belongs to the authenticated user. On failure the response has already
// been written.
func (co Controller) getCategory(c *gin.Context) (models.Category, error) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return models.Category{}, err
	}

	var category models.Category
	err = co.DB.First(&category, "id = ? AND owner_id = ?", id, owner(c)).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return models.Category{}, err
	}

	return category, nil
}
