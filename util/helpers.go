package util

import "strings"

// ContainsString returns true if the slice contains the given string
func ContainsString(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}
	return false
}

// SplitAndTrim splits s by sep and trims whitespace from each element,
// dropping empties
func SplitAndTrim(s string, sep string) []string {
	spl := strings.Split(s, sep)
	result := make([]string, 0, len(spl))
	for _, v := range spl {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
