// Package response builds the standardized JSON envelope every downstream
// application returns: a success flag, a message, the payload, and optional
// error details, pagination metadata, and permission actions.
package response

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/shree-dhimal/commoncore/apperror"
	"github.com/shree-dhimal/commoncore/pagination"
)

// Envelope is the standard JSON wrapper for all API responses.
type Envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    any              `json:"data,omitempty"`
	Errors  any              `json:"errors,omitempty"`
	Meta    *pagination.Meta `json:"meta,omitempty"`
	Actions []string         `json:"actions,omitempty"`
}

// Success sends a 200 envelope with the given data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Success",
		Data:    data,
	})
}

// SuccessMessage sends a 200 envelope with a custom message.
func SuccessMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 envelope, used after resource creation.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessWithActions sends a 200 envelope carrying the actions the
// requesting user may perform on the resource.
func SuccessWithActions(c *gin.Context, data any, actions []string) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Success",
		Data:    data,
		Actions: actions,
	})
}

// Paginated sends a 200 list envelope with pagination metadata and, when
// non-empty, the actions the requesting user may perform on the resource.
// Actions are attached once at the envelope level rather than merged into
// every item.
func Paginated(c *gin.Context, items any, meta pagination.Meta, actions []string) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Success",
		Data:    items,
		Meta:    &meta,
		Actions: actions,
	})
}

// Error sends an error envelope. If err is a *apperror.AppError its code is
// mapped to the HTTP status; otherwise 500 is returned with a generic message.
func Error(c *gin.Context, err error) {
	status := apperror.HTTPStatusCode(err)

	msg := "internal error"
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	c.JSON(status, Envelope{
		Success: false,
		Message: msg,
		Errors:  msg,
	})
}

// ErrorMessage sends a 400 envelope carrying the given message in Errors.
func ErrorMessage(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: message,
		Errors:  message,
	})
}

// Exception is the last-resort handler for errors bubbling out of a handler.
// Known application errors are shaped the same way Error shapes them;
// anything else is logged for operators and reported as a generic failure
// without leaking the original message.
func Exception(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		Error(c, err)
		return
	}

	slog.ErrorContext(c.Request.Context(), "unhandled exception",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Any("error", err),
	)

	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "Internal Server Error",
		Errors:  "internal server error",
	})
}

// BindAndValidate binds the request body to obj and validates it. On failure
// it sends a 400 envelope with per-field errors and returns false. Because
// obj is available, JSON struct tags are used for field names when possible.
// Usage in handlers:
//
//	if !response.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		ValidationError(c, err, obj)
		return false
	}
	return true
}

// ValidationError sends a 400 envelope for a binding or validation failure.
// validator.ValidationErrors are expanded into a field → constraint map;
// other errors produce a plain bad-request envelope.
func ValidationError(c *gin.Context, err error, obj any) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Validation Error",
			Errors:  err.Error(),
		})
		return
	}

	jsonTags := buildJSONTagMap(obj)

	fieldErrors := make(map[string]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := jsonTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fieldErrors[name] = msg
	}

	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation Error",
		Errors:  fieldErrors,
	})
}

// buildJSONTagMap returns a map from struct field name to its JSON tag name.
// If obj is nil or not a struct (pointer), it returns an empty map.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if name := parseJSONTagName(tag); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}
