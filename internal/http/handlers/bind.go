package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message,omitempty"`
}

// BindJSON decodes and validates a flat request body. On failure it writes
// the 400 (or 413) response itself and returns false.
func BindJSON(ctx *gin.Context, out any) bool {
	err := ctx.ShouldBindJSON(out)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large", nil)
		return false
	}

	RespondBadRequest(ctx, "Invalid request body", bindDetails(err, out))
	return false
}

func bindDetails(err error, out any) gin.H {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		fields := make([]FieldError, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, FieldError{
				Field:   jsonField(out, fe.StructField()),
				Rule:    fe.Tag(),
				Message: ruleMessage(fe.Tag()),
			})
		}
		return gin.H{"fields": fields}
	}

	if errors.Is(err, io.EOF) {
		return gin.H{"json": "empty_body"}
	}

	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return gin.H{"json": "invalid_json_syntax"}
	}

	// Field already carries the JSON name for these flat bodies
	var mismatch *json.UnmarshalTypeError
	if errors.As(err, &mismatch) {
		return gin.H{
			"json":  "invalid_json_type",
			"field": mismatch.Field,
			"fields": []FieldError{{
				Field:   mismatch.Field,
				Rule:    "type",
				Message: fmt.Sprintf("must be of type %s", mismatch.Type),
			}},
		}
	}

	return gin.H{"reason": err.Error()}
}

// jsonField maps a struct field name of out to its json tag name.
func jsonField(out any, name string) string {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return name
	}

	sf, ok := t.FieldByName(name)
	if !ok {
		return name
	}
	tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return name
	}
	return tag
}

func ruleMessage(rule string) string {
	if rule == "required" {
		return "is required"
	}
	return "failed " + rule + " validation"
}
