package normalize

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var aliasesYAML []byte

type aliasTable struct {
	Fields  map[string][]string `yaml:"fields"`
	Contact struct {
		Keys []string `yaml:"keys"`
		Name []string `yaml:"name"`
	} `yaml:"contact"`
}

var aliases aliasTable

func init() {
	if err := yaml.Unmarshal(aliasesYAML, &aliases); err != nil {
		panic(fmt.Sprintf("normalize: bad embedded alias table: %v", err))
	}
}

// Aliases returns the ordered alias list for a canonical field. Unknown
// fields resolve to the field name itself, so callers can probe ad hoc
// keys through the same path.
func Aliases(field string) []string {
	if list, ok := aliases.Fields[field]; ok {
		return list
	}
	return []string{field}
}
