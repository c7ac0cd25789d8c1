package narrative

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	domain "github.com/gmalickovski/vibraweb/internal/domain"
)

// ErrNotFound is returned when no narrative exists for a (label, value) pair.
var ErrNotFound = errors.New("narrative: not found")

// Source resolves interpretive text for a field label and its numeric value.
type Source interface {
	Lookup(ctx context.Context, label string, value int) ([]domain.NarrativeBlock, error)
	Ping(ctx context.Context) error
}

// Slug converts a field label into a path-safe identifier: "3º Desafio (Principal)" becomes
// "3o-desafio-principal".
func Slug(label string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), label)
	if err != nil {
		folded = label
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}

func cloneBlocks(blocks []domain.NarrativeBlock) []domain.NarrativeBlock {
	if blocks == nil {
		return nil
	}
	out := make([]domain.NarrativeBlock, len(blocks))
	copy(out, blocks)
	return out
}
