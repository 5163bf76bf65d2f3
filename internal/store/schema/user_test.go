package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{name: "both names", user: User{FirstName: "Ada", LastName: "Lovelace"}, expected: "Ada Lovelace"},
		{name: "first only", user: User{FirstName: "Ada"}, expected: "Ada"},
		{name: "last only", user: User{LastName: "Lovelace"}, expected: "Lovelace"},
		{name: "none", user: User{}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.FullName())
		})
	}
}
