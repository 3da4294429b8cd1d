package endpoint

import (
	"errors"
	"testing"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr error
	}{
		{"get", MethodGet, nil},
		{" POST ", MethodPost, nil},
		{"put", MethodPut, nil},
		{"Delete", MethodDelete, nil},
		{"HEAD", "", ErrUnsupportedMethod},
		{"", "", ErrUnsupportedMethod},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatal("unexpected error", err)
			}
			if got != tt.want {
				t.Fatal("unexpected method", got)
			}
		})
	}
}
