package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := VehicleParamsNotFound("C3S3")
	if err.Error() != "[VEHICLE_PARAMS_NOT_FOUND] no vehicle parameters available for class C3S3" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if err.Context["vehicle_class"] != "C3S3" {
		t.Errorf("Expected class in context, got %v", err.Context)
	}
}

func TestIsTypeThroughWrapping(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := fmt.Errorf("quote: %w", Storage("load vehicle params", cause))

	if !IsType(err, TypeStorage) {
		t.Error("Expected storage type through fmt wrapping")
	}
	if !stderrors.Is(err, cause) {
		t.Error("Expected the cause to be reachable")
	}
	if IsType(cause, TypeStorage) {
		t.Error("Plain errors carry no type")
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		err       *Error
		business  bool
		retryable bool
		status    int
	}{
		{EconomicParamsNotFound("2026-10"), true, false, http.StatusUnprocessableEntity},
		{VehicleParamsNotFound("C2"), true, false, http.StatusUnprocessableEntity},
		{RouteTooLong(300), true, false, http.StatusUnprocessableEntity},
		{NoCoordinates("99999"), true, false, http.StatusUnprocessableEntity},
		{New(TypeDistanceNotFound, "no distance"), true, false, http.StatusNotFound},
		{Input("weight must be positive"), true, false, http.StatusBadRequest},
		{Storage("read", nil), false, true, http.StatusInternalServerError},
		{Internal("bug", nil), false, false, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Type), func(t *testing.T) {
			if got := tt.err.Business(); got != tt.business {
				t.Errorf("Business() = %v, want %v", got, tt.business)
			}
			if got := tt.err.Retryable(); got != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", got, tt.retryable)
			}
			if got := tt.err.HTTPStatus(); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
		})
	}
}
