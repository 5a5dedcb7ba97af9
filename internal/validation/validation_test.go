package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		username string
		wantErr  bool
	}{
		{"Valid", "correct-horse-42", "leo", false},
		{"Exactly Min Length", "abcdef1!", "", false},
		{"Exactly Max Length", strings.Repeat("a", 127) + "1", "", false},
		{"Too Short", "abc1!", "", true},
		{"Too Long", strings.Repeat("a", 129), "", true},
		{"Entirely Numeric", "1234567890123", "", true},
		{"Common", "Password1", "", true},
		{"Contains Username", "leonardo-rocks", "leonardo", true},
		{"Unicode Characters", "ångström-pass", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "leo_tolstoy", false},
		{"Django Punctuation", "a.b+c@d-e", false},
		{"Single Char", "x", false},
		{"Empty", "", true},
		{"Space", "leo tolstoy", true},
		{"Slash", "leo/tolstoy", true},
		{"Too Long", strings.Repeat("u", 151), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "leo@example.com", false},
		{"Subdomain", "leo@mail.example.org", false},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "leo@", true},
		{"Multiple At Symbols", "leo@@example.com", true},
		{"Trailing Dot", "leo@example.com.", true},
		{"Too Long", strings.Repeat("a", 250) + "@x.io", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateGroupSlug(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateGroupSlug("cats"))
	assert.NoError(t, ValidateGroupSlug("long_reads-2"))
	assert.Error(t, ValidateGroupSlug(""))
	assert.Error(t, ValidateGroupSlug("Cats"))
	assert.Error(t, ValidateGroupSlug("has space"))
	assert.Error(t, ValidateGroupSlug(strings.Repeat("s", 51)))
}
