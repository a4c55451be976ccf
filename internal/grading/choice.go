package grading

import "strings"

const choiceLetters = "ABCD"

// NormalizeChoiceLetter maps inputs such as "b", " C " or "A)" to a single
// option letter. It returns "" when no letter A-D can be read.
func NormalizeChoiceLetter(x string) string {
	s := strings.ToUpper(strings.TrimSpace(x))
	if s == "" {
		return ""
	}
	if len(s) == 1 && strings.Contains(choiceLetters, s) {
		return s
	}
	if first := s[:1]; strings.Contains(choiceLetters, first) {
		return first
	}
	return ""
}

// MatchChoice compares a submitted letter against the solution letter.
func MatchChoice(answer, solution string) (bool, Evaluation) {
	pick := NormalizeChoiceLetter(answer)
	sol := NormalizeChoiceLetter(solution)
	return pick != "" && sol != "" && pick == sol, Evaluation{
		Mode:           ModeStrict,
		Matched:        sol,
		Notes:          []string{},
		AcceptedAnswer: pick,
	}
}
