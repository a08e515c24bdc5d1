package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Validate(t *testing.T) {
	t.Run("aggregator is valid", func(t *testing.T) {
		task := &Task{Name: "build", Dependencies: []string{"build-loader", "build-kernel"}}
		require.NoError(t, task.Validate())
		assert.True(t, task.IsAggregator())
	})

	t.Run("command and script are mutually exclusive", func(t *testing.T) {
		task := &Task{Name: "x", Command: "cargo", Script: []string{"echo hi"}}
		assert.ErrorContains(t, task.Validate(), "both command and script")
	})

	t.Run("args require a command", func(t *testing.T) {
		task := &Task{Name: "x", Args: []string{"a"}}
		assert.ErrorContains(t, task.Validate(), "args without a command")
	})

	t.Run("negative min_args", func(t *testing.T) {
		task := &Task{Name: "x", MinArgs: -1}
		assert.ErrorContains(t, task.Validate(), "negative min_args")
	})

	t.Run("empty dependency name", func(t *testing.T) {
		task := &Task{Name: "x", Dependencies: []string{"a", ""}}
		assert.ErrorContains(t, task.Validate(), "position 1")
	})
}

func TestDefinitionError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Malformed("Makefile.toml", TaskSection("build"), cause)

	assert.ErrorIs(t, err, ErrMalformedDefinition)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `malformed definition: Makefile.toml: task "build": boom`, err.Error())

	var defErr *DefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, `task "build"`, defErr.Section)
}

func TestParseTemplate(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    []Segment
		wantErr string
	}{
		{name: "plain", input: "cargo", want: []Segment{{Literal: "cargo"}}},
		{name: "empty", input: "", want: nil},
		{name: "placeholder only", input: "${@}", want: []Segment{{Ref: "@"}}},
		{
			name:  "mixed",
			input: "--target=${TARGET}/x ${@}",
			want: []Segment{
				{Literal: "--target="},
				{Ref: "TARGET"},
				{Literal: "/x "},
				{Ref: "@"},
			},
		},
		{name: "unterminated", input: "abc ${HOME", wantErr: "unterminated reference at offset 4"},
		{name: "empty name", input: "x${}", wantErr: "empty reference at offset 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTemplate(tc.input)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExpandEnv(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "HOME" {
			return "/home/mikan", true
		}
		return "", false
	}

	got, err := ExpandEnv("${HOME}/disk.img ${MISSING}${@}", lookup)
	require.NoError(t, err)
	assert.Equal(t, "/home/mikan/disk.img ${@}", got)
}
