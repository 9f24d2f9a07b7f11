package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gt returns a ParamValidator that checks if the argument is greater than the value captured in the closure.
func gt(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue > closedValue
	})
}

// ParsePathGt parses the chi path parameter key as int64 and requires it to be greater than value.
func ParsePathGt(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, value int64) (int64, bool) {
	return parseValidate(chi.URLParam(r, key), w, logger, key, gt(value))
}

func parseValidate(value string, w http.ResponseWriter, logger *slog.Logger, key string, pValidator ParamValidator) (int64, bool) {
	if value == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s parameter is required", key))
		return 0, false
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", key, value))
		return 0, false
	}
	return intValue, true
}
