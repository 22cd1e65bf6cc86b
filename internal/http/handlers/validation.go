package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName reports struct fields by their JSON name so validation
// details match what clients sent.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

var titler = cases.Title(language.Und, cases.NoLower)

// prettifyFieldName turns "ticket_group" into "Ticket Group".
func prettifyFieldName(field string) string {
	return titler.String(strings.ReplaceAll(field, "_", " "))
}

func validationMessage(fe validator.FieldError) string {
	name := prettifyFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return name + " must be at least " + fe.Param() + " characters long"
	case "max":
		return name + " must be at most " + fe.Param() + " characters long"
	case "email":
		return name + " must be a valid email address"
	default:
		return name + " is invalid"
	}
}

// bindJSON decodes the body into dst. On failure it writes 400 bad_request
// with per-field details and returns false.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]string, len(ve))
		for _, fe := range ve {
			details[fe.Field()] = validationMessage(fe)
		}
		failDetails(c, http.StatusBadRequest, ErrCodeBadRequest, "request validation failed", details)
		return false
	}
	fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
	return false
}
