package binding

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tommy-mor/spare/internal/http/responses"
)

const invalidPayload = "Invalid JSON payload"

var validate = newValidator()

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BindAndValidate reads JSON body into dst and runs validation with tags `validate:"..."`.
// On failure it writes a 400 response and returns false.
func BindAndValidate[T any](w http.ResponseWriter, r *http.Request, dst *T) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		responses.WriteBadRequest(w, invalidPayload)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		responses.WriteBadRequest(w, Message(err))
		return false
	}

	return true
}

// Message turns the first validation failure into a client-facing message,
// e.g. "Invalid email" or "Missing name".
func Message(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return invalidPayload
	}

	fe := ve[0]
	if fe.Tag() == "required" {
		return "Missing " + fe.Field()
	}
	return "Invalid " + fe.Field()
}
