package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/larkerlabs/storefront-orderflow/internal/apierr"
)

// BindAndValidate binds the JSON body into `out` and runs validation.
// On failure it writes the 400 response itself and returns an error so the
// handler can short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request_body",
		})
		return err
	}

	if err := Check(v, out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": apierr.FieldsOf(err),
		})
		return err
	}
	return nil
}
