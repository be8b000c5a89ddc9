package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thanwa/qr-table-order/apperr"
	"github.com/thanwa/qr-table-order/models"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError maps a typed application error to its HTTP status. Unknown
// errors become 500.
func RespondAppError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		RespondError(c, appErr.HTTPStatus(), appErr)
		return
	}

	var transErr *models.InvalidTransitionError
	if errors.As(err, &transErr) {
		RespondError(c, http.StatusBadRequest, transErr)
		return
	}

	RespondError(c, http.StatusInternalServerError, err)
}
