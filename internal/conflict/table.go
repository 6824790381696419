package conflict

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

var ErrEmptyTable = errors.New("conflict: table has no keywords and no rules")

// Rule explains why two substances should not be taken together. A rule
// matches when one name contains the first keyword of any pair and the other
// name contains the second.
type Rule struct {
	Pairs [][]string `yaml:"pairs"`
	// RequireAny narrows a broad pair: at least one of the two names must
	// contain one of these substrings.
	RequireAny []string `yaml:"requireAny"`
	Message    string   `yaml:"message"`
}

type KnowledgeBase struct {
	Keywords map[string][]string `yaml:"keywords"`
	Rules    []Rule              `yaml:"rules"`
}

// Default returns the table compiled into the binary.
func Default() *KnowledgeBase {
	kb, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("conflict: embedded table is invalid: %v", err))
	}
	return kb
}

func Load(path string) (*KnowledgeBase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read conflict table %s: %w", path, err)
	}
	kb, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse conflict table %s: %w", path, err)
	}
	return kb, nil
}

func Parse(raw []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(raw, &kb); err != nil {
		return nil, err
	}
	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return &kb, nil
}

func (kb *KnowledgeBase) Validate() error {
	if len(kb.Keywords) == 0 && len(kb.Rules) == 0 {
		return ErrEmptyTable
	}
	for i, rule := range kb.Rules {
		if strings.TrimSpace(rule.Message) == "" {
			return fmt.Errorf("conflict: rule %d has no message", i)
		}
		if len(rule.Pairs) == 0 {
			return fmt.Errorf("conflict: rule %d has no pairs", i)
		}
		for _, pair := range rule.Pairs {
			if len(pair) != 2 || pair[0] == "" || pair[1] == "" {
				return fmt.Errorf("conflict: rule %d has malformed pair %v", i, pair)
			}
		}
	}
	return nil
}

// Conflicts reports whether the keyword map lists the two names as a
// conflicting pair, in either direction.
func (kb *KnowledgeBase) Conflicts(a, b string) bool {
	return kb.listed(a, b) || kb.listed(b, a)
}

func (kb *KnowledgeBase) listed(from, to string) bool {
	for key, targets := range kb.Keywords {
		if !strings.Contains(from, key) {
			continue
		}
		for _, target := range targets {
			if strings.Contains(to, target) {
				return true
			}
		}
	}
	return false
}

// Message returns the explanation for the first rule matching the two
// names. A keyword map entry without an explaining rule yields false.
func (kb *KnowledgeBase) Message(a, b string) (string, bool) {
	for _, rule := range kb.Rules {
		if rule.matches(a, b) {
			return rule.Message, true
		}
	}
	return "", false
}

func (r Rule) matches(a, b string) bool {
	hit := false
	for _, pair := range r.Pairs {
		if hasPair(a, b, pair[0], pair[1]) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	if len(r.RequireAny) == 0 {
		return true
	}
	for _, s := range r.RequireAny {
		if strings.Contains(a, s) || strings.Contains(b, s) {
			return true
		}
	}
	return false
}

func hasPair(a, b, k1, k2 string) bool {
	return (strings.Contains(a, k1) && strings.Contains(b, k2)) ||
		(strings.Contains(a, k2) && strings.Contains(b, k1))
}

// Related lists the keywords name should be kept apart from, sorted.
func (kb *KnowledgeBase) Related(name string) []string {
	seen := make(map[string]bool)
	for key, targets := range kb.Keywords {
		if strings.Contains(name, key) {
			for _, target := range targets {
				seen[target] = true
			}
			continue
		}
		for _, target := range targets {
			if strings.Contains(name, target) {
				seen[key] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		if !strings.Contains(name, k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
