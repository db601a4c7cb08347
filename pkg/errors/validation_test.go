package errors

import (
	"strings"
	"testing"
)

func TestValidateEntityID(t *testing.T) {
	for _, id := range []string{"ada", "grace-hopper", "user_42", "j.doe", "Łukasz"} {
		if err := ValidateEntityID(id); err != nil {
			t.Errorf("ValidateEntityID(%q) = %v", id, err)
		}
	}

	bad := map[string]string{
		"empty":     "",
		"long":      strings.Repeat("a", maxEntityIDLen+1),
		"slash":     "team/ada",
		"backslash": `team\ada`,
		"dotdot":    "..",
		"newline":   "ada\n",
		"nul":       "ada\x00",
	}
	for name, id := range bad {
		t.Run(name, func(t *testing.T) {
			err := ValidateEntityID(id)
			if !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateEntityID(%q) = %v, want INVALID_INPUT", id, err)
			}
		})
	}
}

func TestValidateDataPath(t *testing.T) {
	tests := []struct {
		path string
		ok   bool
	}{
		{"categories.json", true},
		{"entities/%s.json", true},
		{"v2/data..bak/entities.json", true},
		{"", false},
		{"/etc/passwd", false},
		{"entities/../../secret.json", false},
		{"..", false},
		{`entities\ada.json`, false},
		{"a\tb.json", false},
		{strings.Repeat("x/", maxDataPathLen), false},
	}
	for _, tt := range tests {
		err := ValidateDataPath(tt.path)
		if tt.ok && err != nil {
			t.Errorf("ValidateDataPath(%.40q) = %v, want nil", tt.path, err)
		}
		if !tt.ok && !Is(err, ErrCodeInvalidPath) {
			t.Errorf("ValidateDataPath(%.40q) = %v, want INVALID_PATH", tt.path, err)
		}
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"https://data.example.com/skills", true},
		{"http://localhost:8080", true},
		{"ftp://data.example.com", false},
		{"data.example.com", false},
		{"https://", false},
		{"http://bad host/", false},
	}
	for _, tt := range tests {
		err := ValidateBaseURL(tt.raw)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateBaseURL(%q) = %v, ok want %v", tt.raw, err, tt.ok)
		}
		if err != nil && GetCode(err) != ErrCodeInvalidSource {
			t.Errorf("ValidateBaseURL(%q) code = %s", tt.raw, GetCode(err))
		}
	}
}
