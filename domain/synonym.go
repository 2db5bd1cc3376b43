package domain

import (
	"fmt"
	"strings"
)

// SynonymRule is one line of a Solr-format synonym list.
//
//	"tv, television"          equivalence: every term expands to the others
//	"telly, tube => tv"       explicit: left-hand terms are replaced by the right
type SynonymRule struct {
	Terms        []string
	Replacements []string
}

// Explicit reports whether the rule uses the "=>" form.
func (r SynonymRule) Explicit() bool {
	return len(r.Replacements) > 0
}

// String renders the rule back into Solr format.
func (r SynonymRule) String() string {
	if r.Explicit() {
		return strings.Join(r.Terms, ", ") + " => " + strings.Join(r.Replacements, ", ")
	}
	return strings.Join(r.Terms, ", ")
}

// SynonymRules is an ordered synonym list.
type SynonymRules []SynonymRule

// DefaultSynonymLines are applied when no synonym file is configured.
var DefaultSynonymLines = []string{
	"panasonic, samsung, apple",
	"tv, television",
}

// ParseSynonymRules parses Solr-format lines. Blank lines and lines starting
// with '#' are skipped. Terms are lowercased to match the analyzer chain.
func ParseSynonymRules(lines []string) (SynonymRules, error) {
	rules := make(SynonymRules, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule, err := parseSynonymLine(line)
		if err != nil {
			return nil, fmt.Errorf("synonym line %d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseSynonymLine(line string) (SynonymRule, error) {
	parts := strings.Split(line, "=>")
	switch len(parts) {
	case 1:
		terms := splitTerms(parts[0])
		if len(terms) < 2 {
			return SynonymRule{}, fmt.Errorf("equivalence group %q needs at least two terms", line)
		}
		return SynonymRule{Terms: terms}, nil
	case 2:
		terms := splitTerms(parts[0])
		replacements := splitTerms(parts[1])
		if len(terms) == 0 || len(replacements) == 0 {
			return SynonymRule{}, fmt.Errorf("explicit mapping %q needs terms on both sides", line)
		}
		return SynonymRule{Terms: terms, Replacements: replacements}, nil
	default:
		return SynonymRule{}, fmt.Errorf("malformed mapping %q: more than one '=>'", line)
	}
}

func splitTerms(s string) []string {
	raw := strings.Split(s, ",")
	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Lines renders the rules in Solr format, the form analyzers accept.
func (rs SynonymRules) Lines() []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.String())
	}
	return out
}

// ToMap expands the rules into a term -> alternatives dictionary.
// Equivalence groups become multi-way entries; explicit rules map each
// left-hand term to its replacements.
func (rs SynonymRules) ToMap() map[string][]string {
	out := make(map[string][]string)
	for _, r := range rs {
		if r.Explicit() {
			for _, t := range r.Terms {
				out[t] = appendUnique(out[t], r.Replacements...)
			}
			continue
		}
		for _, t := range r.Terms {
			for _, other := range r.Terms {
				if other != t {
					out[t] = appendUnique(out[t], other)
				}
			}
		}
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
