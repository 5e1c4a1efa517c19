package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hxcode/nativeos/pkg/registry"
)

// manifestSchema validates the optional agents manifest. The registry is
// immutable after startup, so a malformed manifest must fail loud here
// rather than misroute later.
const manifestSchema = `{
	"type": "object",
	"required": ["agents"],
	"properties": {
		"agents": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "target", "arg_mode"],
				"properties": {
					"id": {"type": "string", "pattern": "^[a-z0-9-]+$"},
					"target": {"type": "string", "minLength": 1},
					"arg_mode": {"enum": ["raw_text", "extracted_query", "none"]}
				},
				"additionalProperties": false
			}
		}
	},
	"additionalProperties": false
}`

// agentsManifest mirrors the manifest file layout.
type agentsManifest struct {
	Agents []manifestEntry `json:"agents"`
}

type manifestEntry struct {
	ID      string `json:"id"`
	Target  string `json:"target"`
	ArgMode string `json:"arg_mode"`
}

// Descriptors builds the final agent descriptor set: the built-in agents
// rooted at AgentsRoot, with manifest entries overriding or extending
// them by identifier. A missing manifest file is not an error.
func (c *Config) Descriptors() ([]registry.AgentDescriptor, error) {
	descriptors := registry.DefaultDescriptors(c.AgentsRoot)

	if c.AgentsManifest == "" {
		return descriptors, nil
	}

	data, err := os.ReadFile(c.AgentsManifest)
	if os.IsNotExist(err) {
		return descriptors, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read agents manifest: %w", err)
	}

	if err := validateManifest(data); err != nil {
		return nil, fmt.Errorf("agents manifest %s: %w", c.AgentsManifest, err)
	}

	var manifest agentsManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse agents manifest: %w", err)
	}

	byID := make(map[string]int, len(descriptors))
	for i, d := range descriptors {
		byID[d.ID] = i
	}

	for _, entry := range manifest.Agents {
		desc := registry.AgentDescriptor{
			ID:      entry.ID,
			Target:  entry.Target,
			ArgMode: registry.ArgMode(entry.ArgMode),
		}
		if i, exists := byID[entry.ID]; exists {
			descriptors[i] = desc
		} else {
			byID[entry.ID] = len(descriptors)
			descriptors = append(descriptors, desc)
		}
	}

	return descriptors, nil
}

// validateManifest checks the manifest bytes against the JSON schema.
func validateManifest(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errMsg string
		for i, verr := range result.Errors() {
			if i > 0 {
				errMsg += "; "
			}
			errMsg += verr.String()
		}
		return fmt.Errorf("schema validation errors: %s", errMsg)
	}

	return nil
}
