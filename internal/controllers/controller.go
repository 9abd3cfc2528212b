// Package controllers implements the HTTP API.
package controllers

import (
	"github.com/findash/backend/internal/enriched"
	"github.com/findash/backend/internal/importer"
	"github.com/findash/backend/internal/keyvalue"
	"github.com/findash/backend/internal/mirror"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ContextOwner is the context key the session middleware stores the
// authenticated user under.
const ContextOwner = "owner"

// Controller carries the dependencies the handlers need. One instance is
// constructed at startup and shared by all requests.
type Controller struct {
	DB       *gorm.DB
	Store    keyvalue.Store
	Syncer   *mirror.Syncer
	Enriched *enriched.Store
	Provider importer.Provider
}

// owner returns the authenticated user of the request.
func owner(c *gin.Context) string {
	return c.GetString(ContextOwner)
}
