package policy

import "strings"

// Func scores a submitted answer against a stage's stored answer
// spec. Implementations are pure; they never touch I/O and never
// fail.
type Func func(userAnswer, answerSpec string) bool

const DefaultName = "default"

var registry = map[string]Func{
	"default": ExactMatch,
	"stage1":  ExactMatch,
	"stage2":  ListMatch,
	"stage3":  ContainsMatch,
}

// Lookup resolves a validation policy by name. Unknown or empty names
// fall back to the default policy so a typo in stage content never
// blocks a whole stage.
func Lookup(name string) Func {
	if fn, ok := registry[strings.TrimSpace(strings.ToLower(name))]; ok {
		return fn
	}
	return registry[DefaultName]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ExactMatch accepts the answer when it equals the spec, ignoring
// case and surrounding whitespace.
func ExactMatch(userAnswer, answerSpec string) bool {
	return normalize(userAnswer) == normalize(answerSpec)
}

// ListMatch treats the spec as a comma-separated list of accepted
// answers and accepts when the answer equals any element.
func ListMatch(userAnswer, answerSpec string) bool {
	answer := normalize(userAnswer)
	for _, accepted := range strings.Split(answerSpec, ",") {
		if accepted = normalize(accepted); accepted != "" && answer == accepted {
			return true
		}
	}
	return false
}

// ContainsMatch accepts when the answer contains the spec as a
// substring.
func ContainsMatch(userAnswer, answerSpec string) bool {
	return strings.Contains(normalize(userAnswer), normalize(answerSpec))
}
