// Package errors provides typed business errors with stable codes.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Type is the stable code of an error
type Type string

const (
	// TypeEconomicParamsNotFound means no economic snapshot exists, not even a fallback
	TypeEconomicParamsNotFound Type = "ECONOMIC_PARAMS_NOT_FOUND"

	// TypeVehicleParamsNotFound means no vehicle record exists for the class
	TypeVehicleParamsNotFound Type = "VEHICLE_PARAMS_NOT_FOUND"

	// TypeRouteTooLong means the route allows zero trips per month
	TypeRouteTooLong Type = "ROUTE_TOO_LONG_FOR_MONTHLY_TRIP"

	// TypeNoCoordinates means the distance fallback lacks coordinates
	TypeNoCoordinates Type = "NO_COORDINATES_AVAILABLE"

	// TypeDistanceNotFound means no distance could be resolved at all
	TypeDistanceNotFound Type = "DISTANCE_NOT_FOUND"

	// TypeInput indicates an input validation error
	TypeInput Type = "INVALID_INPUT"

	// TypeStorage indicates a failure of an external store
	TypeStorage Type = "STORAGE_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context.
// Context is for the caller's formatting boundary; it never reaches Error().
type Error struct {
	Type    Type                   `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// Business reports whether the error is a deterministic domain rejection
func (e *Error) Business() bool {
	switch e.Type {
	case TypeEconomicParamsNotFound, TypeVehicleParamsNotFound, TypeRouteTooLong,
		TypeNoCoordinates, TypeDistanceNotFound, TypeInput:
		return true
	}
	return false
}

// Retryable reports whether retrying with identical inputs could succeed.
// Only storage failures qualify.
func (e *Error) Retryable() bool {
	return e.Type == TypeStorage
}

// HTTPStatus maps the code to the status a request layer should surface
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeEconomicParamsNotFound, TypeVehicleParamsNotFound, TypeRouteTooLong, TypeNoCoordinates:
		return http.StatusUnprocessableEntity
	case TypeDistanceNotFound:
		return http.StatusNotFound
	case TypeInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// As extracts an *Error from a chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType checks if an error (or anything it wraps) is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := As(err); ok {
		return e.Type == t
	}
	return false
}

// EconomicParamsNotFound creates the error for a missing economic snapshot
func EconomicParamsNotFound(period string) *Error {
	return New(TypeEconomicParamsNotFound, "no economic parameters available for the requested period").
		WithContext("period", period)
}

// VehicleParamsNotFound creates the error for a missing vehicle record
func VehicleParamsNotFound(class string) *Error {
	return Newf(TypeVehicleParamsNotFound, "no vehicle parameters available for class %s", class).
		WithContext("vehicle_class", class)
}

// RouteTooLong creates the error for a route that fits no monthly trip
func RouteTooLong(oneWayHours float64) *Error {
	return New(TypeRouteTooLong, "route is too long to complete a round trip within the monthly operating hours").
		WithContext("one_way_hours", oneWayHours)
}

// NoCoordinates creates the error for a location without coordinates
func NoCoordinates(code string) *Error {
	return Newf(TypeNoCoordinates, "distance unavailable: no coordinates for location %s", code).
		WithContext("location", code)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Storage wraps a store failure
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
