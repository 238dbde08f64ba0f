package http

import "strings"

// containsFieldMsg reports whether the validation details carry a message
// for the given field. Used by handler tests.
func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
