// Package typewriter splits an HTML fragment into reveal steps so it can be
// shown one visible character at a time.
package typewriter

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultDelay is the pause after each visible character
const DefaultDelay = 30 * time.Millisecond

// maxEntityLen bounds how far an '&' may be from its ';' to count as an entity
const maxEntityLen = 10

// Token is one reveal step
type Token struct {
	Text string
	// Markup is true for tags and entities, which are emitted whole
	// without a pause.
	Markup bool
}

// Tokenize splits fragment into tags, entities, and single runes. Joining the
// token texts gives back the input.
func Tokenize(fragment string) []Token {
	var tokens []Token
	for i := 0; i < len(fragment); {
		switch fragment[i] {
		case '<':
			if end := strings.IndexByte(fragment[i:], '>'); end > 0 {
				tokens = append(tokens, Token{Text: fragment[i : i+end+1], Markup: true})
				i += end + 1
				continue
			}
		case '&':
			if end := strings.IndexByte(fragment[i:], ';'); end > 1 && end <= maxEntityLen && !strings.ContainsAny(fragment[i+1:i+end], " <&") {
				tokens = append(tokens, Token{Text: fragment[i : i+end+1], Markup: true})
				i += end + 1
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(fragment[i:])
		tokens = append(tokens, Token{Text: fragment[i : i+size]})
		i += size
	}
	return tokens
}

// EmitFunc receives each chunk as it is revealed
type EmitFunc func(chunk string) error

// Reveal emits the fragment token by token, waiting delay after each visible
// character. It stops early when ctx is done or emit fails.
func Reveal(ctx context.Context, fragment string, delay time.Duration, emit EmitFunc) error {
	// Stopped timers never deliver a stale tick, so Reset needs no drain
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for _, tok := range Tokenize(fragment) {
		if err := emit(tok.Text); err != nil {
			return err
		}
		if tok.Markup || delay <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		timer.Reset(delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
