package loader

import (
	"context"
	"fmt"

	"github.com/vk/taskgrid/internal/config"
	"gopkg.in/yaml.v3"
)

// decodeYAML reads a definition with top-level `config`, `env` and `tasks`
// mappings. Task order comes from the node tree.
func decodeYAML(ctx context.Context, source string, data []byte, environ map[string]string) (*config.Model, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, config.Malformed(source, "", fmt.Errorf("failed to decode YAML: %w", err))
	}

	// Nested mappings take the destination's map type, so decode into a plain
	// map to keep them map[string]any.
	raw := map[string]any{}
	if root.Kind != 0 {
		if err := root.Decode(&raw); err != nil {
			return nil, config.Malformed(source, "", fmt.Errorf("failed to decode YAML: %w", err))
		}
	}
	return translate(ctx, source, document(raw), yamlTaskOrder(&root), environ)
}

func yamlTaskOrder(root *yaml.Node) []string {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "tasks" {
			continue
		}
		tasks := top.Content[i+1]
		if tasks.Kind != yaml.MappingNode {
			return nil
		}
		var order []string
		for j := 0; j < len(tasks.Content); j += 2 {
			order = append(order, tasks.Content[j].Value)
		}
		return order
	}
	return nil
}
