package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

func init() {
	// report binding errors under their JSON names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	}
}

// respondError maps a service error onto the API error envelope
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr)
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrInvalidCredentials,
			"Unable to authenticate with provided credentials."))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "Not found."))
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
	}
}

func respondValidation(c *gin.Context, verr *services.ValidationError) {
	details := make(map[string]interface{}, len(verr.Fields))
	for field, messages := range verr.Fields {
		details[field] = messages
	}
	c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Invalid input.", details))
}

// bindJSON decodes the request body into obj, responding 400 on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondValidation(c, bindingError(err))
		return false
	}
	return true
}

// bindingError converts decoding and validator errors into field messages
func bindingError(err error) *services.ValidationError {
	verr := &services.ValidationError{}

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessage(fe))
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		verr.Add(typeErr.Field, typeMessage(typeErr.Type))
	default:
		verr.Add("non_field_errors", "Invalid request body.")
	}
	return verr
}

func typeMessage(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64, reflect.Float64:
		return "A valid number is required."
	case reflect.String:
		return "Not a valid string."
	case reflect.Slice:
		return "Expected a list of items."
	default:
		return "Incorrect type."
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "Not found."))
		return 0, false
	}
	return uint(id), true
}

// parseIDList reads a comma-separated list of ids from a query parameter
func parseIDList(c *gin.Context, name string) ([]uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}

	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			respondValidation(c, services.NewValidationError(name,
				fmt.Sprintf("%q is not a valid id.", strings.TrimSpace(part))))
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}

// parseFlag reads a boolean query flag such as assigned_only=1
func parseFlag(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// currentUserID returns the authenticated user id, responding 401 when missing
func currentUserID(c *gin.Context) (uint, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized,
			"Authentication credentials were not provided."))
		return 0, false
	}
	return id, true
}

// HandleMethodNotAllowed renders 405 responses in the API error envelope
func HandleMethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, models.NewAPIError(models.ErrMethodNotAllowed,
		fmt.Sprintf("Method \"%s\" not allowed.", c.Request.Method)))
}

// HandleNotFound renders unknown routes in the API error envelope
func HandleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "Not found."))
}
