package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldIssue is one field-level validation problem.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var registerTagNames sync.Once

// RegisterTagNames makes the binding validator report json/form tag names
// instead of Go struct field names.
func RegisterTagNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// FieldIssues converts a binding error into a structured issue list. Errors
// that are not field-level (malformed JSON and the like) become one issue
// with an empty field.
func FieldIssues(err error) []FieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldIssue{{Message: err.Error()}}
	}
	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{Field: fe.Field(), Message: issueMessage(fe)})
	}
	return issues
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed on %q validation", fe.Tag())
	}
}
