package domain

import (
	"errors"
	"testing"
)

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerationRequest
		wantErr bool
	}{
		{"valid", GenerationRequest{Ingredients: "eggs, spinach", MaxMinutes: 30}, false},
		{"lower bound", GenerationRequest{Ingredients: "eggs", MaxMinutes: MinMinutes}, false},
		{"upper bound", GenerationRequest{Ingredients: "eggs", MaxMinutes: MaxMinutes}, false},
		{"blank ingredients", GenerationRequest{Ingredients: "   ", MaxMinutes: 30}, true},
		{"too short", GenerationRequest{Ingredients: "eggs", MaxMinutes: 4}, true},
		{"too long", GenerationRequest{Ingredients: "eggs", MaxMinutes: 121}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Fatalf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
