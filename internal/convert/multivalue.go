package convert

import "strings"

// The multi-value grammar:
//
//	""           no elements
//	"A"          exactly one element
//	"(A,B,...)"  two or more elements
//
// Element tokens are not escaped. A token that itself contains '(', ')' or
// ',' cannot be represented.
const (
	groupOpen  = "("
	groupSep   = ","
	groupClose = ")"
)

// JoinValues renders already-encoded element tokens in the multi-value
// grammar, keeping their order.
func JoinValues(tokens []string) string {
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0]
	default:
		return groupOpen + strings.Join(tokens, groupSep) + groupClose
	}
}

// SplitValues breaks s into element tokens. A group without a closing
// parenthesis, and the empty group "()", yield no elements.
func SplitValues(s string) []string {
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, groupOpen) {
		return []string{s}
	}
	end := strings.LastIndex(s, groupClose)
	if end <= 0 {
		return nil
	}
	inner := s[len(groupOpen):end]
	if inner == "" {
		return nil
	}
	return strings.Split(inner, groupSep)
}
