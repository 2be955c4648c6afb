package packaging

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

// Consumption is the amount of one material used per unit of an item sold.
type Consumption struct {
	Material string `yaml:"material"`
	Units    int64  `yaml:"units"`
}

// Rule overrides or augments the default packaging of one menu item.
type Rule struct {
	Item           string        `yaml:"item"`
	ReplaceDefault bool          `yaml:"replace_default"`
	Consumes       []Consumption `yaml:"consumes"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// RuleSet is the item name -> consumption table applied to every sale.
type RuleSet struct {
	rules  []Rule
	byName map[string]Rule
}

// Default returns the embedded rule table.
func Default() *RuleSet {
	rs, err := Parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("embedded packaging rules: %v", err))
	}
	return rs
}

// Load reads a rule table from path, or the embedded default when path is empty.
func Load(path string) (*RuleSet, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read packaging rules: %w", err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Parse decodes and validates a YAML rule table. Unknown fields are rejected.
func Parse(data []byte) (*RuleSet, error) {
	var f ruleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse packaging rules: %w", err)
	}
	return NewRuleSet(f.Rules)
}

func NewRuleSet(rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{byName: make(map[string]Rule, len(rules))}
	for i, r := range rules {
		r.Item = strings.TrimSpace(r.Item)
		if r.Item == "" {
			return nil, fmt.Errorf("rule %d: item is required", i+1)
		}
		if len(r.Consumes) == 0 {
			return nil, fmt.Errorf("rule %q: at least one consumption is required", r.Item)
		}
		for j, c := range r.Consumes {
			c.Material = strings.TrimSpace(c.Material)
			if c.Material == "" {
				return nil, fmt.Errorf("rule %q: consumption %d has no material", r.Item, j+1)
			}
			if c.Units <= 0 {
				return nil, fmt.Errorf("rule %q: units for %q must be positive", r.Item, c.Material)
			}
			r.Consumes[j] = c
		}
		key := NormalizeName(r.Item)
		if _, dup := rs.byName[key]; dup {
			return nil, fmt.Errorf("rule %q: duplicate item", r.Item)
		}
		rs.byName[key] = r
		rs.rules = append(rs.rules, r)
	}
	return rs, nil
}

// Rules returns the table in file order.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Lookup finds the rule for an item name, if any.
func (rs *RuleSet) Lookup(itemName string) (Rule, bool) {
	r, ok := rs.byName[NormalizeName(itemName)]
	return r, ok
}

// NormalizeName folds an item name for rule matching: NFC, trimmed, lower case.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}

// Line is one sold item as seen by the rule table.
type Line struct {
	ItemName  string
	Packaging *string
	Quantity  int64
}

// Need is the aggregated amount of one material a cart consumes.
type Need struct {
	Material string
	Units    int64
}

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Usage aggregates the packaging consumption of a cart. The result is sorted
// by material name.
func (rs *RuleSet) Usage(lines []Line) ([]Need, error) {
	totals := make(map[string]int64)
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%s: %w", l.ItemName, ErrInvalidQuantity)
		}
		rule, hasRule := rs.Lookup(l.ItemName)
		if l.Packaging != nil && *l.Packaging != "" && !(hasRule && rule.ReplaceDefault) {
			totals[*l.Packaging] += l.Quantity
		}
		if hasRule {
			for _, c := range rule.Consumes {
				totals[c.Material] += c.Units * l.Quantity
			}
		}
	}

	needs := make([]Need, 0, len(totals))
	for name, units := range totals {
		needs = append(needs, Need{Material: name, Units: units})
	}
	sort.Slice(needs, func(i, j int) bool { return needs[i].Material < needs[j].Material })
	return needs, nil
}

// WriteTable prints one line per rule, e.g.
//
//	Elote Chico -> default + 8 x elote
func (rs *RuleSet) WriteTable(w io.Writer) error {
	for _, r := range rs.rules {
		parts := make([]string, 0, len(r.Consumes)+1)
		if !r.ReplaceDefault {
			parts = append(parts, "default")
		}
		for _, c := range r.Consumes {
			parts = append(parts, fmt.Sprintf("%d x %s", c.Units, c.Material))
		}
		if _, err := fmt.Fprintf(w, "%s -> %s\n", r.Item, strings.Join(parts, " + ")); err != nil {
			return err
		}
	}
	return nil
}
