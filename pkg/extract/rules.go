package extract

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ledgervox/ledgervox/pkg/task"
)

//go:embed rules.yaml
var rulesYAML []byte

// Rules describe how one task domain is extracted: the legal field keys,
// the required subset, and the valid classification enumerations.
type Rules struct {
	Label           string              `yaml:"label"`
	Fields          []string            `yaml:"fields"`
	Required        []string            `yaml:"required"`
	Classifications map[string][]string `yaml:"classifications"`
	Guidance        string              `yaml:"guidance"`
}

var rulesByKind map[task.Kind]Rules

func init() {
	var raw map[string]Rules
	if err := yaml.Unmarshal(rulesYAML, &raw); err != nil {
		panic(fmt.Sprintf("extract: embedded rules are invalid: %v", err))
	}
	rulesByKind = make(map[task.Kind]Rules, len(raw))
	for k, r := range raw {
		rulesByKind[task.Kind(k)] = r
	}
}

// RulesFor returns the extraction rules for a task kind.
func RulesFor(kind task.Kind) (Rules, error) {
	r, ok := rulesByKind[kind]
	if !ok {
		return Rules{}, fmt.Errorf("extract: no rules for task kind %q", kind)
	}
	return r, nil
}

// describe renders the rules as prompt text.
func (r Rules) describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: record a %s.\n", r.Label)
	fmt.Fprintf(&sb, "Extractable fields: %s.\n", strings.Join(r.Fields, ", "))
	fmt.Fprintf(&sb, "Required fields: %s.\n", strings.Join(r.Required, ", "))

	keys := make([]string, 0, len(r.Classifications))
	for k := range r.Classifications {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "Valid values for %q: %s.\n", k, strings.Join(r.Classifications[k], ", "))
	}

	if r.Guidance != "" {
		sb.WriteString(strings.TrimSpace(r.Guidance))
		sb.WriteString("\n")
	}
	return sb.String()
}
