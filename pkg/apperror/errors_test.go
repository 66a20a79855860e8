package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetAppErrorFallsBackTo500(t *testing.T) {
	err := GetAppError(errors.New("connection reset"))
	if err.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", err.Code)
	}
	if err.Message != "Internal server error" {
		t.Fatalf("raw cause leaked into message: %q", err.Message)
	}
	if !errors.Is(err, err.Unwrap()) {
		t.Fatalf("expected cause to be reachable")
	}
}

func TestGetAppErrorUnwrapsWrapped(t *testing.T) {
	base := NewNotFoundError("Medicine")
	wrapped := fmt.Errorf("load cart: %w", base)

	got := GetAppError(wrapped)
	if got.Code != http.StatusNotFound || got.Message != "Medicine not found" {
		t.Fatalf("unexpected app error %+v", got)
	}
}

func TestSentinelMatching(t *testing.T) {
	err := fmt.Errorf("submit: %w", ErrEmptyCart)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected errors.Is to match ErrEmptyCart")
	}
	if errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("did not expect ErrInsufficientStock to match")
	}
}

func TestNewStockError(t *testing.T) {
	err := NewStockError("Napa 500mg", 3, 5)
	if err.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", err.Code)
	}
	want := "Insufficient stock for Napa 500mg: 3 available, 5 requested"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
