package loader

import (
	"context"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"github.com/vk/taskgrid/internal/config"
)

// decodeTOML reads a cargo-make style definition:
//
//	[config]
//	skip_core_tasks = true
//
//	[env]
//	KERNEL_TARGET = "x86_64-unknown-none"
//
//	[tasks.build]
//	dependencies = ["build-loader", "build-kernel"]
func decodeTOML(ctx context.Context, source string, data []byte, environ map[string]string) (*config.Model, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, config.Malformed(source, "", fmt.Errorf("failed to decode TOML: %w", err))
	}
	return translate(ctx, source, document(raw), tomlTaskOrder(data), environ)
}

// tomlTaskOrder walks the raw expressions to recover the order in which tasks
// were declared, since decoding into a map loses it.
func tomlTaskOrder(data []byte) []string {
	p := unstable.Parser{}
	p.Reset(data)

	var order []string
	var table []string
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(expr.Key())
			if len(table) >= 2 && table[0] == "tasks" {
				order = append(order, table[1])
			}
		case unstable.KeyValue:
			key := keyParts(expr.Key())
			switch {
			case len(table) == 1 && table[0] == "tasks" && len(key) >= 1:
				order = append(order, key[0])
			case len(table) == 0 && len(key) >= 2 && key[0] == "tasks":
				order = append(order, key[1])
			}
		}
	}
	// Syntax errors are reported by toml.Unmarshal.
	return order
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}
