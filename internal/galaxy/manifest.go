package galaxy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest counts the entries of a requirements file.
type Manifest struct {
	Roles       int
	Collections int
}

// Entries may be plain strings or mappings, so they are kept as nodes.
type requirementsFile struct {
	Roles       []yaml.Node `yaml:"roles"`
	Collections []yaml.Node `yaml:"collections"`
}

// ParseManifest reads an ansible-galaxy requirements file. Both the legacy
// top-level role list and the {roles, collections} mapping are accepted.
func ParseManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if len(root.Content) == 0 {
		return Manifest{}, nil
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var roles []yaml.Node
		if err := doc.Decode(&roles); err != nil {
			return Manifest{}, fmt.Errorf("decode role list: %w", err)
		}
		return Manifest{Roles: len(roles)}, nil
	case yaml.MappingNode:
		var file requirementsFile
		if err := doc.Decode(&file); err != nil {
			return Manifest{}, fmt.Errorf("decode requirements: %w", err)
		}
		return Manifest{Roles: len(file.Roles), Collections: len(file.Collections)}, nil
	default:
		return Manifest{}, fmt.Errorf("parse manifest: unexpected top-level %s", kindName(doc.Kind))
	}
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("node kind %d", kind)
	}
}
