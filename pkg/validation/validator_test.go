package validation

import (
	"strings"
	"testing"
)

func TestValidatePromptRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *PromptRequest
		wantErr string
	}{
		{"valid", &PromptRequest{Prompt: "a cat"}, ""},
		{"blank is allowed", &PromptRequest{Prompt: "   "}, ""},
		{"at limit", &PromptRequest{Prompt: strings.Repeat("a", MaxPromptLength)}, ""},
		{"multibyte at limit", &PromptRequest{Prompt: strings.Repeat("猫", MaxPromptLength)}, ""},
		{"too long", &PromptRequest{Prompt: strings.Repeat("a", MaxPromptLength+1)}, "prompt: must not exceed 4000"},
		{"nil", nil, "cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePromptRequest(tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateEdgeRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *EdgeRequest
		wantErr string
	}{
		{"valid", &EdgeRequest{Source: "node-1", Target: "node-2"}, ""},
		{"self loop passes shape check", &EdgeRequest{Source: "node-1", Target: "node-1"}, ""},
		{"missing source", &EdgeRequest{Target: "node-2"}, "source: field is required"},
		{"missing target", &EdgeRequest{Source: "node-1"}, "target: field is required"},
		{"long id", &EdgeRequest{Source: strings.Repeat("x", MaxNodeIDLength+1), Target: "node-2"}, "source: must not exceed 64"},
		{"nil", nil, "cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEdgeRequest(tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
