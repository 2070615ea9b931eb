package labels

import (
	"strings"
)

// DefaultIconKey is returned by Classify when no rule matches.
const DefaultIconKey = "default.png"

// Rule maps a keyword to an icon key.
type Rule struct {
	Keyword string
	Key     string
}

// RuleGroup is a named, ordered set of rules.
type RuleGroup struct {
	Name  string
	Rules []Rule
}

// defaultRules is scanned group by group, rule by rule. Order is priority:
// "bus_stop" must win over "station", "bar" is tested before "cafe", and so
// on.
var defaultRules = []RuleGroup{
	{
		Name: "transport",
		Rules: []Rule{
			{"bus_stop", "bus.png"},
			{"tram_stop", "tram.png"},
			{"subway_entrance", "subway.png"},
			{"station", "train.png"},
			{"halt", "default.png"},
		},
	},
	{
		Name: "education",
		Rules: []Rule{
			{"university", "university.png"},
			{"college", "university.png"},
			{"school", "school.png"},
			{"kindergarten", "school.png"},
		},
	},
	{
		Name: "food",
		Rules: []Rule{
			{"bar", "bar.png"},
			{"pub", "bar.png"},
			{"cafe", "cafe.png"},
			{"restaurant", "restaurant.png"},
			{"fast_food", "restaurant.png"},
		},
	},
	{
		Name: "administration",
		Rules: []Rule{
			{"townhall", "hall.png"},
			{"government", "hall.png"},
			{"public_building", "hall.png"},
		},
	},
}

// DefaultRules returns a copy of the built-in rule table.
func DefaultRules() []RuleGroup {
	out := make([]RuleGroup, len(defaultRules))
	for i, g := range defaultRules {
		out[i] = RuleGroup{Name: g.Name, Rules: append([]Rule(nil), g.Rules...)}
	}
	return out
}

// Classifier selects icon keys from an ordered rule table.
type Classifier struct {
	groups     []RuleGroup
	defaultKey string
}

// NewClassifier creates a classifier over groups. An empty defaultKey falls
// back to DefaultIconKey.
func NewClassifier(groups []RuleGroup, defaultKey string) *Classifier {
	if defaultKey == "" {
		defaultKey = DefaultIconKey
	}
	return &Classifier{groups: groups, defaultKey: defaultKey}
}

// Classify returns the key of the first rule whose keyword is a substring of
// subtype or typ, or the default key. Matching is case-sensitive; table
// values are already lowercased.
func (c *Classifier) Classify(typ, subtype string) string {
	for _, g := range c.groups {
		for _, r := range g.Rules {
			if strings.Contains(subtype, r.Keyword) || strings.Contains(typ, r.Keyword) {
				return r.Key
			}
		}
	}
	return c.defaultKey
}

// Keys returns every distinct key the classifier can produce in rule order,
// with the default key last.
func (c *Classifier) Keys() []string {
	seen := map[string]bool{c.defaultKey: true}
	var keys []string
	for _, g := range c.groups {
		for _, r := range g.Rules {
			if !seen[r.Key] {
				seen[r.Key] = true
				keys = append(keys, r.Key)
			}
		}
	}
	return append(keys, c.defaultKey)
}

var defaultClassifier = NewClassifier(defaultRules, DefaultIconKey)

// Classify selects an icon key with the built-in rule table.
func Classify(typ, subtype string) string {
	return defaultClassifier.Classify(typ, subtype)
}
