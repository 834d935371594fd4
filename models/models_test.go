package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "local date time",
			input:    `"2024-03-01T10:15:30"`,
			expected: time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC),
		},
		{
			name:     "local date time with fraction",
			input:    `"2024-03-01T10:15:30.123456"`,
			expected: time.Date(2024, 3, 1, 10, 15, 30, 123456000, time.UTC),
		},
		{
			name:     "rfc3339",
			input:    `"2024-03-01T10:15:30Z"`,
			expected: time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
		},
		{
			name:  "empty string",
			input: `""`,
		},
		{
			name:    "garbage",
			input:   `"yesterday"`,
			wantErr: true,
		},
		{
			name:    "number",
			input:   `1700000000`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Timestamp{Time: time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T10:15:30"`, string(raw))

	raw, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(raw))
}

func TestPage_IsEmpty(t *testing.T) {
	var nilPage *Page[BlogPost]
	assert.True(t, nilPage.IsEmpty())
	assert.True(t, (&Page[BlogPost]{TotalPages: 0}).IsEmpty())
	assert.True(t, (&Page[BlogPost]{TotalPages: 2}).IsEmpty())
	assert.False(t, (&Page[BlogPost]{TotalPages: 1, Content: []BlogPost{{ID: 1}}}).IsEmpty())
}

func TestAuthResponse_User(t *testing.T) {
	resp := AuthResponse{ID: 1, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Token: "t"}
	assert.Equal(t, User{ID: 1, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}, resp.User())
	assert.Equal(t, "Jane Doe", resp.User().FullName())
	assert.Equal(t, "Doe", User{LastName: "Doe"}.FullName())
}
