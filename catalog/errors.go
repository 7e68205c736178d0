package catalog

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/agilira/go-errors"
	"github.com/google/uuid"
	"github.com/jinzhu/inflection"
)

// Error codes raised by catalog services.
const (
	ErrCodeNotFound    errors.ErrorCode = "CATALOG_NOT_FOUND"
	ErrCodeConflict    errors.ErrorCode = "CATALOG_CONFLICT"
	ErrCodeValidation  errors.ErrorCode = "CATALOG_VALIDATION"
	ErrCodeStoreFailed errors.ErrorCode = "CATALOG_STORE_FAILED"
)

// NotFound reports that one or more entities of a kind do not exist.
// Every missing id is listed in the message.
func NotFound(entity string, ids ...uuid.UUID) error {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}

	kind := entity
	if len(ids) > 1 {
		kind = inflection.Plural(entity)
	}

	return errors.NewWithContext(ErrCodeNotFound,
		fmt.Sprintf("%s not found: %s", kind, strings.Join(names, ", ")),
		map[string]interface{}{
			"entity": entity,
			"ids":    names,
		})
}

// NotFoundByName reports that no entity of a kind has the given name.
func NotFoundByName(entity, name string) error {
	return errors.NewWithContext(ErrCodeNotFound,
		fmt.Sprintf("%s not found: name %q", entity, name),
		map[string]interface{}{
			"entity": entity,
			"name":   name,
		})
}

// Conflict reports that a unique field value is already taken.
func Conflict(entity, field, value string) error {
	return errors.NewWithContext(ErrCodeConflict,
		fmt.Sprintf("%s with %s %q already exists", entity, field, value),
		map[string]interface{}{
			"entity": entity,
			"field":  field,
			"value":  value,
		})
}

// Invalid wraps a DTO validation failure.
func Invalid(entity string, cause error) error {
	return errors.Wrap(cause, ErrCodeValidation, fmt.Sprintf("invalid %s: %v", entity, cause))
}

// ErrDuplicate is wrapped by stores whose write broke a uniqueness constraint.
var ErrDuplicate = stderrors.New("catalog: duplicate unique value")

// saveFailed maps a failed save of e. A uniqueness violation becomes Conflict.
func saveFailed(kind string, e any, cause error) error {
	if !stderrors.Is(cause, ErrDuplicate) {
		return storeFailed("save "+kind, cause)
	}
	if u, ok := e.(uniqueKeyed); ok {
		field, value := u.uniqueKey()
		return Conflict(kind, field, value)
	}
	return errors.Wrap(cause, ErrCodeConflict, kind+" already exists")
}

func storeFailed(op string, cause error) error {
	return errors.Wrap(cause, ErrCodeStoreFailed, "store "+op+" failed")
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeNotFound)
}

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool {
	return errors.HasCode(err, ErrCodeConflict)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return errors.HasCode(err, ErrCodeValidation)
}

// StatusCode maps a catalog error to the HTTP status a request layer should answer with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
