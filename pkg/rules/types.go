package rules

import "fmt"

// DefaultFallback is the label used when no rule matches
const DefaultFallback = "Misc"

// KeywordRule maps a name substring to a destination label
type KeywordRule struct {
	Keyword string `koanf:"keyword" toml:"keyword" json:"keyword"`
	Label   string `koanf:"label" toml:"label" json:"label"`
}

// MatchKind identifies which class of rule produced a label
type MatchKind string

const (
	MatchKeyword   MatchKind = "keyword"
	MatchExtension MatchKind = "extension"
	MatchFallback  MatchKind = "fallback"
)

// Match explains a classification
type Match struct {
	Label string
	Kind  MatchKind

	// Matcher is the keyword or extension that matched, empty for fallback
	Matcher string
}

// String renders the match as "kind:matcher", or just "fallback"
func (m Match) String() string {
	if m.Kind == MatchFallback {
		return string(m.Kind)
	}
	return fmt.Sprintf("%s:%s", m.Kind, m.Matcher)
}
