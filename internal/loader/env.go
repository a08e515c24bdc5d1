package loader

import (
	"strings"

	"github.com/vk/taskgrid/internal/config"
)

// EnvironMap converts KEY=VALUE pairs into a map. Later duplicates win.
func EnvironMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// expandEnvMap expands `${NAME}` references in every value of env against the
// given lookup layers, first layer winning.
func expandEnvMap(env map[string]string, layers ...map[string]string) (map[string]string, error) {
	lookup := func(name string) (string, bool) {
		for _, layer := range layers {
			if v, ok := layer[name]; ok {
				return v, true
			}
		}
		return "", false
	}

	out := make(map[string]string, len(env))
	for k, v := range env {
		expanded, err := config.ExpandEnv(v, lookup)
		if err != nil {
			return nil, err
		}
		out[k] = expanded
	}
	return out, nil
}
