package policy

import "unicode/utf8"

// MinLength is the minimum number of characters a password must contain.
const MinLength = 6

// Rule names, in evaluation order.
const (
	RuleMinLength = "min_length"
	RuleUppercase = "uppercase"
	RuleLowercase = "lowercase"
	RuleDigit     = "digit"
)

// Violation reports the first rule a password failed.
type Violation struct {
	Rule    string
	Message string
}

func (v *Violation) Error() string {
	return v.Message
}

type rule struct {
	name    string
	message string
	ok      func(string) bool
}

var rules = []rule{
	{
		name:    RuleMinLength,
		message: "Password must be at least 6 characters",
		ok: func(s string) bool {
			return utf8.RuneCountInString(s) >= MinLength
		},
	},
	{
		name:    RuleUppercase,
		message: "Password must contain at least 1 uppercase letter",
		ok:      containsIn('A', 'Z'),
	},
	{
		name:    RuleLowercase,
		message: "Password must contain at least 1 lowercase letter",
		ok:      containsIn('a', 'z'),
	},
	{
		name:    RuleDigit,
		message: "Password must contain at least 1 number",
		ok:      containsIn('0', '9'),
	},
}

// Validate returns nil when password satisfies every rule, otherwise a
// *Violation for the first rule it breaks.
func Validate(password string) error {
	for _, r := range rules {
		if !r.ok(password) {
			return &Violation{Rule: r.name, Message: r.message}
		}
	}
	return nil
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.name
	}
	return out
}

func containsIn(lo, hi byte) func(string) bool {
	return func(s string) bool {
		for i := 0; i < len(s); i++ {
			if s[i] >= lo && s[i] <= hi {
				return true
			}
		}
		return false
	}
}
