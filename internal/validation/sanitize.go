package validation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// Sanitize strips all markup from user-supplied text and trims the result.
func Sanitize(input string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(input))
}

// PostContent holds sanitized post input.
type PostContent struct {
	Title string
	Body  string
}

// SanitizePost strips markup from both fields.
func SanitizePost(title, body string) PostContent {
	return PostContent{
		Title: Sanitize(title),
		Body:  Sanitize(body),
	}
}

// ValidatePost reports both violations independently.
func ValidatePost(in PostContent) []string {
	var errs []string
	if in.Title == "" {
		errs = append(errs, "You must provide a title.")
	}
	if in.Body == "" {
		errs = append(errs, "You must provide post content.")
	}
	return errs
}
