package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondStatus(c, http.StatusCreated, data, message)
}

func RespondStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// serviceErrors maps service sentinels to an HTTP status and a client-safe message.
var serviceErrors = []struct {
	err     error
	code    int
	message string
}{
	{ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{ErrValidationFailed, http.StatusBadRequest, "Validation failed"},
	{ErrInvalidPage, http.StatusBadRequest, "Page must be greater than 0"},
	{ErrInvalidPageSize, http.StatusBadRequest, "Page size must be between 1 and 100"},
	{ErrThemeNotOwned, http.StatusBadRequest, "Theme is not in your inventory"},
	{ErrProtectedCollection, http.StatusBadRequest, "The 'All' collection cannot be deleted"},

	{ErrAccountNotFound, http.StatusNotFound, "Account not found"},
	{ErrJournalNotFound, http.StatusNotFound, "Journal entry not found"},
	{ErrMailNotFound, http.StatusNotFound, "Mail not found"},
	{ErrItemNotFound, http.StatusNotFound, "Shop item not found"},
	{ErrTagNotFound, http.StatusNotFound, "Tag not found"},
	{ErrCollectionNotFound, http.StatusNotFound, "Collection not found or empty"},
	{ErrNoRecipients, http.StatusNotFound, "No accounts found"},

	{ErrEmailAlreadyExists, http.StatusConflict, "Email already in use"},
	{ErrAlreadyOwned, http.StatusConflict, "Item already owned"},
	{ErrStaleWrite, http.StatusConflict, "Account was updated concurrently, please retry"},
	{ErrInsufficientFunds, http.StatusPaymentRequired, "Not enough coins"},

	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{ErrNotRecipient, http.StatusForbidden, "You are not a recipient of this mail"},
	{ErrForbidden, http.StatusForbidden, "Forbidden"},
}

func HandleServiceError(c *gin.Context, err error) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			RespondError(c, se.code, se.message)
			return
		}
	}

	if errors.Is(err, ErrDatabaseError) {
		zap.L().Error("database error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
	} else {
		zap.L().Error("unhandled service error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
	}
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
