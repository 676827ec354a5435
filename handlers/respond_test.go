package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/filenamedotexe/agency-os-sub006/services"
)

func TestErrorStatusMapsMissingReferences(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing client is a bad reference", services.ErrClientNotFound, http.StatusBadRequest},
		{"missing milestone is a bad reference", services.ErrMilestoneNotFound, http.StatusBadRequest},
		{"missing service is a bad reference", services.ErrServiceNotFound, http.StatusBadRequest},
		{"missing task target is not found", services.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped sentinel still maps", fmt.Errorf("update failed: %w", services.ErrTaskNotFound), http.StatusNotFound},
		{"store failure stays a 500", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorStatus(tt.err); got != tt.want {
				t.Fatalf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
