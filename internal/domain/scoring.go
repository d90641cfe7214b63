package domain

import (
	"strings"
)

const choiceLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ChoiceLabel returns the letter for a zero-based choice index ("A" for 0),
// or "" when i is out of the A-Z range.
func ChoiceLabel(i int) string {
	if i < 0 || i >= len(choiceLetters) {
		return ""
	}
	return choiceLetters[i : i+1]
}

// ChoiceIndex is the inverse of ChoiceLabel. It accepts a single letter in
// either case and returns -1 for anything else.
func ChoiceIndex(label string) int {
	label = strings.TrimSpace(label)
	if len(label) != 1 {
		return -1
	}
	return strings.IndexByte(choiceLetters, strings.ToUpper(label)[0])
}

// ChoiceText returns the choice at letter label, or false when the letter
// does not address a choice of q.
func ChoiceText(q QuizQuestion, label string) (string, bool) {
	i := ChoiceIndex(label)
	if i < 0 || i >= len(q.Choices) {
		return "", false
	}
	return q.Choices[i], true
}

// IsCorrect decides whether answer earns credit for q.
//
// Multiple choice compares the text of the chosen choice with the text of
// the correct choice, so two choices with identical text are
// interchangeable. A letter that addresses no choice never matches.
// Enumeration compares lower-cased strings exactly; callers trim input
// when they capture it.
func IsCorrect(q QuizQuestion, answer string) bool {
	if answer == "" {
		return false
	}
	if q.IsMultipleChoice() {
		got, ok := ChoiceText(q, answer)
		if !ok {
			return false
		}
		want, ok := ChoiceText(q, q.Correct)
		if !ok {
			return false
		}
		return got == want
	}
	return strings.ToLower(answer) == strings.ToLower(q.Answer)
}

// ScoreQuiz counts the answers that earn credit. answers[i] belongs to
// questions[i]; missing trailing answers count as wrong.
func ScoreQuiz(questions []QuizQuestion, answers []string) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && IsCorrect(q, answers[i]) {
			score++
		}
	}
	return score
}

// FormatAnswer renders an answer for display: "L. text" for multiple choice
// ("L. Unknown" when the letter addresses no choice) or the raw text for
// enumeration. An empty answer renders as "No answer".
func FormatAnswer(q QuizQuestion, answer string) string {
	if answer == "" {
		return "No answer"
	}
	if !q.IsMultipleChoice() {
		return answer
	}
	text, ok := ChoiceText(q, answer)
	if !ok {
		text = "Unknown"
	}
	return answer + ". " + text
}
