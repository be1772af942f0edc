// Package params binds path parameters using OpenAPI "simple" style rules.
package params

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"classmate_backend/internal/platform/apperror"
)

// PathID binds the named path parameter as a positive integer id.
// Malformed or zero ids are validation errors.
func PathID(c *gin.Context, name string) (uint, error) {
	var id uint
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil || id == 0 {
		return 0, apperror.Validation(fmt.Sprintf("invalid %s parameter", name))
	}
	return id, nil
}
