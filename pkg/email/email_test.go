package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"jane.smith@example.com", "Jane Smith"},
		{"jane_smith@example.com", "Jane Smith"},
		{"jane-smith+claims@example.com", "Jane Smith Claims"},
		{"JSMITH@example.com", "Jsmith"},
		{"jane.smith.99@example.com", "Jane Smith"},
		{"12345@example.com", ""},
		{"@example.com", ""},
		{"", ""},
		{"noatsign", "Noatsign"},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveName(tt.address))
		})
	}
}
