package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	maxEntityIDLen = 128
	maxDataPathLen = 512
)

// ValidateEntityID checks an entity id from entities.json. The id becomes a
// single segment of a detail path, so separators and dot-dot are refused.
func ValidateEntityID(id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidInput, "entity id is empty")
	case len(id) > maxEntityIDLen:
		return New(ErrCodeInvalidInput, "entity id longer than %d bytes", maxEntityIDLen)
	case hasControl(id):
		return New(ErrCodeInvalidInput, "entity id %q has control characters", id)
	case strings.ContainsAny(id, `/\`):
		return New(ErrCodeInvalidInput, "entity id %q has a path separator", id)
	case strings.Contains(id, ".."):
		return New(ErrCodeInvalidInput, "entity id %q contains ..", id)
	}
	return nil
}

// ValidateDataPath checks a file path relative to the data source base.
func ValidateDataPath(p string) error {
	switch {
	case p == "":
		return New(ErrCodeInvalidPath, "data path is empty")
	case len(p) > maxDataPathLen:
		return New(ErrCodeInvalidPath, "data path longer than %d bytes", maxDataPathLen)
	case hasControl(p):
		return New(ErrCodeInvalidPath, "data path %q has control characters", p)
	case strings.HasPrefix(p, "/"):
		return New(ErrCodeInvalidPath, "data path %q is absolute", p)
	case strings.Contains(p, `\`):
		return New(ErrCodeInvalidPath, "data path %q uses backslashes", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "data path %q leaves the base", p)
		}
	}
	return nil
}

// ValidateBaseURL checks a remote data source base. Only http and https with
// a host are accepted.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidSource, err, "invalid base url %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidSource, "base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidSource, "base url %q has no host", raw)
	}
	return nil
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}
