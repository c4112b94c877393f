package rules

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/types"
)

// RuleSet is an immutable, ordered set of classification rules
type RuleSet struct {
	keywords   []KeywordRule
	extensions map[string]string
	fallback   string
	ignore     []string
}

// Options describes the tables a RuleSet is built from
type Options struct {
	Keywords   []KeywordRule
	Extensions map[string]string
	Fallback   string
	Ignore     []string
}

// New validates opts and builds a RuleSet. Inputs are copied, keywords and
// extensions are normalized to lower case and extensions lose a leading dot.
func New(opts Options) (*RuleSet, error) {
	rs := &RuleSet{
		keywords:   make([]KeywordRule, 0, len(opts.Keywords)),
		extensions: make(map[string]string, len(opts.Extensions)),
		fallback:   opts.Fallback,
	}

	if rs.fallback == "" {
		rs.fallback = DefaultFallback
	}
	if err := validateLabel(rs.fallback); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleInvalid, "invalid fallback label %q", rs.fallback)
	}

	for i, k := range opts.Keywords {
		keyword := strings.ToLower(strings.TrimSpace(k.Keyword))
		if keyword == "" {
			return nil, errors.Newf(errors.ErrRuleInvalid, "keyword rule %d has empty keyword", i)
		}
		if err := validateLabel(k.Label); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRuleInvalid, "keyword rule %d (%s)", i, keyword)
		}
		rs.keywords = append(rs.keywords, KeywordRule{Keyword: keyword, Label: k.Label})
	}

	for ext, label := range opts.Extensions {
		norm := NormalizeExtension(ext)
		if norm == "" {
			return nil, errors.Newf(errors.ErrRuleInvalid, "extension rule %q has empty extension", ext)
		}
		if err := validateLabel(label); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRuleInvalid, "extension rule %s", norm)
		}
		if existing, ok := rs.extensions[norm]; ok && existing != label {
			return nil, errors.Newf(errors.ErrRuleInvalid, "extension %s is mapped to both %q and %q", norm, existing, label).
				WithDetail("extension", norm)
		}
		rs.extensions[norm] = label
	}

	for _, pattern := range opts.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRuleInvalid, "invalid ignore pattern %q", pattern)
		}
		rs.ignore = append(rs.ignore, pattern)
	}

	return rs, nil
}

// validateLabel checks a label names exactly one directory below the source root
func validateLabel(label string) error {
	switch {
	case strings.TrimSpace(label) == "":
		return errors.New(errors.ErrRuleInvalid, "empty label")
	case label == "." || label == "..":
		return errors.Newf(errors.ErrRuleInvalid, "label %q is not a directory name", label)
	case strings.ContainsAny(label, `/\`):
		return errors.Newf(errors.ErrRuleInvalid, "label %q must not contain path separators", label)
	}
	return nil
}

// NormalizeExtension lower-cases ext and drops a leading dot, the form
// extension rules are keyed by
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Classify returns the destination label for file
func (rs *RuleSet) Classify(file types.File) string {
	return rs.Explain(file).Label
}

// Explain classifies file and reports which rule decided it.
// Keyword rules win over extension rules; among keywords the first declared wins.
func (rs *RuleSet) Explain(file types.File) Match {
	name := strings.ToLower(file.Name)
	for _, k := range rs.keywords {
		if strings.Contains(name, k.Keyword) {
			return Match{Label: k.Label, Kind: MatchKeyword, Matcher: k.Keyword}
		}
	}

	ext := NormalizeExtension(file.Ext)
	if label, ok := rs.extensions[ext]; ok && ext != "" {
		return Match{Label: label, Kind: MatchExtension, Matcher: ext}
	}

	return Match{Label: rs.fallback, Kind: MatchFallback}
}

// Ignored reports whether name matches an ignore pattern, and which one
func (rs *RuleSet) Ignored(name string) (string, bool) {
	for _, pattern := range rs.ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return pattern, true
		}
	}
	return "", false
}

// Keywords returns a copy of the keyword rules in evaluation order
func (rs *RuleSet) Keywords() []KeywordRule {
	out := make([]KeywordRule, len(rs.keywords))
	copy(out, rs.keywords)
	return out
}

// Extensions returns a copy of the extension table
func (rs *RuleSet) Extensions() map[string]string {
	out := make(map[string]string, len(rs.extensions))
	for k, v := range rs.extensions {
		out[k] = v
	}
	return out
}

// SortedExtensions returns the extension keys in lexical order
func (rs *RuleSet) SortedExtensions() []string {
	keys := make([]string, 0, len(rs.extensions))
	for k := range rs.extensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fallback returns the label used when nothing matches
func (rs *RuleSet) Fallback() string {
	return rs.fallback
}

// IgnorePatterns returns a copy of the ignore patterns
func (rs *RuleSet) IgnorePatterns() []string {
	out := make([]string, len(rs.ignore))
	copy(out, rs.ignore)
	return out
}

// Labels returns every distinct label the set can produce, sorted
func (rs *RuleSet) Labels() []string {
	seen := map[string]bool{rs.fallback: true}
	for _, k := range rs.keywords {
		seen[k.Label] = true
	}
	for _, label := range rs.extensions {
		seen[label] = true
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
