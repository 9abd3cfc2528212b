// Package httputil holds helpers shared by all HTTP handlers.
package httputil

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BindData binds the JSON request body to the struct passed in. On failure
// it writes the 400 response itself, callers only need to return.
func BindData(c *gin.Context, data interface{}) error {
	if err := c.ShouldBindJSON(&data); err != nil {
		if errors.Is(io.EOF, err) {
			e := errors.New("request body must not be empty")
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
			return e
		}

		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		e := errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
		return e
	}

	return nil
}

// ParseID parses the named path parameter as a UUID. On failure it writes
// the 400 response itself.
func ParseID(c *gin.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the specified resource ID is not a valid UUID"})
		return uuid.Nil, err
	}

	return id, nil
}
