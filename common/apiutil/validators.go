package apiutil

import (
	"io"
	"strconv"

	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/gin-gonic/gin"
)

// BindJSON decodes and validates the request body into obj.
func BindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return bindingError(err)
	}
	return nil
}

// BindQuery decodes and validates query parameters into obj.
func BindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return bindingError(err)
	}
	return nil
}

// IDParam parses a positive integer path parameter. Malformed ids are reported as not found.
func IDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NotFound.Explain("%s not found", name)
	}
	return uint(id), nil
}

func bindingError(err error) error {
	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, io.EOF) {
		return errors.Invalid.Explain("request body is empty")
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return errors.Invalid.Explain("invalid query parameter value %q", numErr.Num)
	}
	problem := ProblemFromError(err, "")
	if problem.Status == 400 {
		return errors.Invalid.Explain("%s", problem.Detail)
	}
	return errors.Invalid.Explain("invalid request").Wrap(err)
}
