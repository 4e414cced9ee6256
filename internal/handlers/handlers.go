package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/middleware"
	"github.com/xinwork/repair-order-api/internal/services"
)

// pathID parses a numeric path parameter, answering 400 when it is malformed
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric query parameter
func queryID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// queryBool parses an optional boolean query parameter
func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// queryEnum parses an optional enum query parameter with parse
func queryEnum[T any](c *gin.Context, name string, parse func(string) (T, error)) (*T, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := parse(raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return nil, false
	}
	return &v, true
}

// optionalEnum parses an optional enum field of a request body
func optionalEnum[T any](c *gin.Context, raw *string, parse func(string) (T, error)) (*T, bool) {
	if raw == nil {
		return nil, true
	}
	v, err := parse(*raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return nil, false
	}
	return &v, true
}

// bindJSON decodes the request body, answering 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// currentActor returns the authenticated caller, answering 401 when there is none
func currentActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return services.Actor{}, false
	}
	return actor, true
}
