package tokenizer

import (
	"errors"
	"unicode/utf8"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting a piece of content.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountText estimates tokens for content. Content that is not valid UTF-8 is
// reported as not counted rather than as an error.
func CountText(counter Counter, content string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if !utf8.ValidString(content) {
		return CountResult{Counted: false}, nil
	}
	tokens, err := counter.CountString(content)
	if err != nil {
		return CountResult{}, err
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
