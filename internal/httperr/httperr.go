package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type HTTPError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func Write(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Success: false,
		Error:   message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Write(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Write(c, http.StatusNotFound, message)
}

func Forbidden(c *gin.Context, message string) {
	Write(c, http.StatusForbidden, message)
}

func Internal(c *gin.Context, message string) {
	Write(c, http.StatusInternalServerError, message)
}

func Unauthorized(c *gin.Context, message string) {
	Write(c, http.StatusUnauthorized, message)
}

// Status maps an error to the HTTP status and client message it renders as.
func Status(err error) (int, string) {
	var be BusinessError
	if errors.As(err, &be) {
		switch be.Kind {
		case KindValidation, KindConflict:
			return http.StatusBadRequest, be.Message
		case KindNotFound:
			return http.StatusNotFound, be.Message
		case KindForbidden:
			return http.StatusForbidden, be.Message
		case KindUnauthorized:
			return http.StatusUnauthorized, be.Message
		case KindExternal:
			return http.StatusBadGateway, be.Message
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "Resource not found"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return http.StatusBadRequest, "Duplicate field value entered"
	}

	return http.StatusInternalServerError, "Server Error"
}

// Handle writes err using the error envelope. Unexpected errors are logged
// with the request path and never leak to the client.
func Handle(c *gin.Context, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[http] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	Write(c, status, msg)
}
