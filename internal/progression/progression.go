package progression

import "encoding/json"

// Unlocked reports whether a group that has completed stages up to
// highestReached may see the requested stage. Stages unlock strictly
// one at a time: the next stage opens only once the one before it is
// complete, while every already-unlocked stage stays visitable.
// Stage 1 is always reachable because highestReached defaults to 0.
func Unlocked(highestReached, requested int) bool {
	return requested <= highestReached+1
}

// Contains reports whether stage is in the completed set.
func Contains(completed []int, stage int) bool {
	for _, s := range completed {
		if s == stage {
			return true
		}
	}
	return false
}

// AddStage returns the completed set with stage added. The slice has
// set semantics: adding a present stage returns the input unchanged,
// so repeated completions are idempotent.
func AddStage(completed []int, stage int) []int {
	if Contains(completed, stage) {
		return completed
	}
	return append(completed, stage)
}

// Decode parses a stored completed-stages JSON array. Empty or
// malformed input decodes to the empty set rather than failing; the
// zero value is the documented default for a group with no progress.
func Decode(raw []byte) []int {
	if len(raw) == 0 {
		return []int{}
	}
	var out []int
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []int{}
	}
	return out
}

// Encode serializes a completed set for storage.
func Encode(completed []int) []byte {
	if completed == nil {
		completed = []int{}
	}
	raw, err := json.Marshal(completed)
	if err != nil {
		return []byte("[]")
	}
	return raw
}
