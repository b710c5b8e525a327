package util

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform json error body for every endpoint
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a true/false body for endpoints with no other payload
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrHTTP represents a non-2xx response from an outbound HTTP request
type ErrHTTP struct {
	URL    string
	Status int
	Err    error
}

func (h ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP Error Status - %d | URL - %s | Error: %s", h.Status, h.URL, h.Err)
}

// ErrResponse attaches err to the gin context for the error-logging middleware
// and writes the json error body
func ErrResponse(c *gin.Context, code int, err error) {
	c.Error(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// BodyAsError drains the response body and returns it as an error
func BodyAsError(res *http.Response) error {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	return ErrHTTP{URL: res.Request.URL.String(), Status: res.StatusCode, Err: fmt.Errorf("%s", body)}
}

func HealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, SuccessResponse{Success: true})
	}
}
