package response

import (
	"eventure/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a service error to the HTTP contract: status code and
// error kind come from the error's classification, the message stays
// human-readable.
func RespondError(c *gin.Context, err error) {
	code := apperrors.HTTPStatus(err)
	c.JSON(code, StandardApiResponse{
		Status:     "error",
		StatusCode: code,
		Message:    apperrors.MessageOf(err),
		ErrorKind:  string(apperrors.KindOf(err)),
	})
}
