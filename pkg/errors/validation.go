package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds surnames, template names and role names.
const maxNameLength = 64

// ValidateSurname validates a family surname read from a surname list.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 64 characters
func ValidateSurname(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return New(ErrCodeInvalidInput, "surname cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "surname too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "surname contains invalid control characters")
		}
	}
	return nil
}

// templateNameRegex matches template identifiers such as "dinner_invite" or "feud-2".
var templateNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateTemplateName validates a card template name.
// Template names are used as lookup keys for follow-ups, so they are kept
// to a simple identifier alphabet.
func ValidateTemplateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTemplate, "template name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidTemplate, "template name too long (max %d characters)", maxNameLength)
	}
	if !templateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidTemplate, "invalid template name: %q", name)
	}
	return nil
}

// roleNameRegex matches role identifiers used inside card text placeholders.
var roleNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateRoleName validates a role name within a template.
func ValidateRoleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTemplate, "role name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidTemplate, "role name too long (max %d characters)", maxNameLength)
	}
	if !roleNameRegex.MatchString(name) {
		return New(ErrCodeInvalidTemplate, "invalid role name: %q (lowercase letters, digits, underscores)", name)
	}
	return nil
}
