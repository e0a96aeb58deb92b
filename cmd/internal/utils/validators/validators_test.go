package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2024-12-31", "2024-12-31", true},
		{" 2024-01-05 ", "2024-01-05", true},
		{"2024-12-31T10:00:00Z", "2024-12-31", true},
		{"2024-12-31T23:30:00-03:00", "2024-12-31", true},
		{"2024-02-30", "", false},
		{"31/12/2024", "", false},
		{"tomorrow", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeDate(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}
}

func TestNew_ReportsJSONFieldNames(t *testing.T) {
	type payload struct {
		ImageURL string `json:"imageUrl" validate:"required,url"`
		Date     string `json:"expirationDate,omitempty" validate:"omitempty,calendardate"`
	}

	err := New().Struct(&payload{ImageURL: "not a url", Date: "nope"})
	require.Error(t, err)

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)

	fields := map[string]string{}
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"imageUrl": "url", "expirationDate": "calendardate"}, fields)
}
