package utils

import (
	"fmt"
	"strings"
)

// EnumValidator restricts a string field to a fixed set of values, such as
// document statuses or rule severities.
func EnumValidator(allowed ...string) func(string) error {
	set := map[string]struct{}{}
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(s string) error {
		if _, ok := set[s]; ok {
			return nil
		}
		return fmt.Errorf("value %q is not one of [%s]", s, strings.Join(allowed, ", "))
	}
}
