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
		wantErr  bool
	}{
		{"Valid", "SecurePass12!@", false},
		{"Exactly Min Length", "abcdefgh", false},
		{"Exactly Max Length", strings.Repeat("p", 128), false},
		{"Too Short", "short1!", true},
		{"Too Long", strings.Repeat("p", 129), true},
		{"Blank", "          ", true},
		{"Unicode Characters", "ÅngstromPass", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
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
		{"Valid", "test_user123", false},
		{"Email Like", "leo@tolstoy.ru", false},
		{"Dots And Plus", "a.b+c-d", false},
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
	assert.NoError(t, ValidateEmail(""))
	assert.NoError(t, ValidateEmail("leo@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Leo <leo@example.com>"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidateGroupSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		ok   bool
	}{
		{name: "lowercase", slug: "cats", ok: true},
		{name: "mixed with digits", slug: "Cats_2024", ok: true},
		{name: "hyphen", slug: "war-and-peace", ok: true},
		{name: "maximum length", slug: strings.Repeat("s", 50), ok: true},
		{name: "too long", slug: strings.Repeat("s", 51), ok: false},
		{name: "empty", slug: "", ok: false},
		{name: "space", slug: "war and peace", ok: false},
		{name: "symbol", slug: "cats!", ok: false},
		{name: "cyrillic", slug: "коты", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGroupSlug(tc.slug)
			if tc.ok && err != nil {
				t.Fatalf("expected valid slug, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid slug, got nil error")
			}
		})
	}
}
