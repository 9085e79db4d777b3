package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"buildmart-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{Success: true, Data: data, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// respondServiceError maps service errors onto HTTP statuses. Anything not
// recognised is a 500 and its detail stays in the request log.
func respondServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		respondError(c, status, "Internal server error")
		return
	}
	respondError(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrAddressNotFound),
		errors.Is(err, services.ErrInquiryNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrProductUnavailable):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefreshToken),
		errors.Is(err, services.ErrInvalidUserID):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrAddressRequired),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// pageParams reads page and pageSize from the query string. Missing or
// malformed values come back as 0 and the service applies its defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	return page, pageSize
}
