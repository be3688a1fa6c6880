package nametree

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/nsforge/authdns/internal/dns/domain"
)

// ApexLabel returns the registrable apex domain of name ("example.com" for
// "www.example.com."), for grouping log and metrics fields only. It never
// participates in Find/FindWithContext, which match purely on the label
// trie. On a public-suffix parse failure (unlisted TLD, single-label name)
// it falls back to name's own text.
func ApexLabel(name domain.Name) string {
	text := strings.TrimSuffix(name.String(), ".")
	apex, err := publicsuffix.EffectiveTLDPlusOne(text)
	if err != nil {
		return text
	}
	return apex
}
