package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimblewick/MiraAI/internal/domain"
)

func validInput() ProfileInput {
	return ProfileInput{
		FirstName:     "Mary-Jane",
		LastName:      "O'Brien",
		BirthDate:     "1990-06-15",
		BirthTime:     "14:30",
		BirthLocation: "New York, NY",
		BirthCountry:  "United States",
	}
}

func TestValidateInput_Valid(t *testing.T) {
	out, err := validateInput(validInput())
	require.NoError(t, err)
	assert.Equal(t, "Mary-Jane", out.FirstName)
	assert.Equal(t, "O'Brien", out.LastName)
}

func TestValidateInput_TrimsWhitespace(t *testing.T) {
	input := validInput()
	input.FirstName = "  Anna  "
	input.BirthLocation = " London "

	out, err := validateInput(input)
	require.NoError(t, err)
	assert.Equal(t, "Anna", out.FirstName)
	assert.Equal(t, "London", out.BirthLocation)
}

func TestValidateInput_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ProfileInput)
		wantField string
	}{
		{
			name:      "empty first name",
			mutate:    func(in *ProfileInput) { in.FirstName = "  " },
			wantField: "first_name",
		},
		{
			name:      "first name with digits",
			mutate:    func(in *ProfileInput) { in.FirstName = "Anna42" },
			wantField: "first_name",
		},
		{
			name:      "first name too long",
			mutate:    func(in *ProfileInput) { in.FirstName = strings.Repeat("a", 51) },
			wantField: "first_name",
		},
		{
			name:      "empty last name",
			mutate:    func(in *ProfileInput) { in.LastName = "" },
			wantField: "last_name",
		},
		{
			name:      "bad date format",
			mutate:    func(in *ProfileInput) { in.BirthDate = "15.06.1990" },
			wantField: "birth_date",
		},
		{
			name:      "date in the future",
			mutate:    func(in *ProfileInput) { in.BirthDate = "2999-01-01" },
			wantField: "birth_date",
		},
		{
			name:      "date before 1900",
			mutate:    func(in *ProfileInput) { in.BirthDate = "1899-12-31" },
			wantField: "birth_date",
		},
		{
			name:      "bad time format",
			mutate:    func(in *ProfileInput) { in.BirthTime = "2:30 PM" },
			wantField: "birth_time",
		},
		{
			name:      "location too short",
			mutate:    func(in *ProfileInput) { in.BirthLocation = "X" },
			wantField: "birth_location",
		},
		{
			name:      "location too long",
			mutate:    func(in *ProfileInput) { in.BirthLocation = strings.Repeat("a", 101) },
			wantField: "birth_location",
		},
		{
			name:      "empty country",
			mutate:    func(in *ProfileInput) { in.BirthCountry = "" },
			wantField: "birth_country",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := validateInput(input)
			require.Error(t, err)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}
