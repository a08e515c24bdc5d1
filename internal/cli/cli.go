package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vk/taskgrid/internal/app"
)

// EnvPrefix is the prefix of environment variables that mirror flags, e.g.
// TASKGRID_WORKERS for --workers.
const EnvPrefix = "TASKGRID"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

const usageTemplate = `Usage:
  {{.UseLine}}

Arguments:
  TASK   task to run (default: the definition's default task)
  ARGS   trailing arguments, forwarded verbatim to ${@} placeholders

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

Every flag can also be set through the environment, e.g. TASKGRID_WORKERS=4.
`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Flag parsing stops at the task name; everything after it is forwarded.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	v := newViper()

	var cfg *app.Config
	cmd := &cobra.Command{
		Use:   "taskgrid [flags] [TASK] [ARGS...]",
		Short: "taskgrid runs declarative task graphs.",
		Long: `taskgrid - a declarative task runner.

It loads tasks from Taskfile.hcl, Makefile.toml or taskgrid.yaml, resolves the
dependencies of the requested task and runs each task at most once.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			if err := checkEnv(v, cmd.Flags()); err != nil {
				return err
			}
			c, err := buildConfig(v, positional)
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}
	// A nil slice would make cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)
	cmd.SetUsageTemplate(usageTemplate)

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	registerFlags(flags)
	if err := v.BindPFlags(flags); err != nil {
		return nil, false, &ExitError{Code: ExitInvalidInvocation, Message: err.Error(), Err: err}
	}

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: ExitInvalidInvocation, Message: err.Error(), Err: err}
	}
	if cfg == nil {
		// Help was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "target", cfg.Target, "args", len(cfg.Args))
	return cfg, false, nil
}

func registerFlags(flags *pflag.FlagSet) {
	flags.StringP("makefile", "f", "", "Path to the definition file (.hcl, .toml, .yaml).")
	flags.Int("workers", 1, "Number of tasks that may run at once. 1 runs sequentially.")
	flags.Bool("fail-fast", false, "Stop starting new tasks after the first failure.")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.Bool("no-color", false, "Disable colored progress output.")
	flags.StringP("directory", "C", ".", "Directory to look for default definition files in.")
	flags.BoolP("list", "l", false, "List tasks and exit.")
}

func buildConfig(v *viper.Viper, positional []string) (*app.Config, error) {
	cfg := app.Config{
		MakefilePath: v.GetString("makefile"),
		WorkDir:      v.GetString("directory"),
		Workers:      v.GetInt("workers"),
		FailFast:     v.GetBool("fail-fast"),
		List:         v.GetBool("list"),
		NoColor:      v.GetBool("no-color"),
		LogFormat:    strings.ToLower(v.GetString("log-format")),
		LogLevel:     strings.ToLower(v.GetString("log-level")),
	}
	if len(positional) > 0 {
		cfg.Target = positional[0]
		cfg.Args = append([]string{}, positional[1:]...)
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: ExitInvalidInvocation, Message: err.Error(), Err: err}
	}
	return config, nil
}

// newViper reads settings from TASKGRID_* variables of the process
// environment. An explicitly passed flag still wins over the environment.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// checkEnv rejects environment values that the typed getters would silently
// turn into zero values. Malformed flag values are already rejected by pflag.
func checkEnv(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, check := range []struct {
		key, kind string
		conv      func(any) error
	}{
		{"workers", "an integer", func(x any) error { _, err := cast.ToIntE(x); return err }},
		{"fail-fast", "a boolean", func(x any) error { _, err := cast.ToBoolE(x); return err }},
		{"list", "a boolean", func(x any) error { _, err := cast.ToBoolE(x); return err }},
		{"no-color", "a boolean", func(x any) error { _, err := cast.ToBoolE(x); return err }},
	} {
		if flags.Changed(check.key) {
			continue
		}
		raw := v.Get(check.key)
		if err := check.conv(raw); err != nil {
			msg := fmt.Sprintf("invalid %s: %q is not %s", describe(check.key), fmt.Sprint(raw), check.kind)
			return &ExitError{Code: ExitInvalidInvocation, Message: msg, Err: err}
		}
	}
	return nil
}

// describe is used in error messages for a value read from the environment.
func describe(key string) string {
	return fmt.Sprintf("%s_%s", EnvPrefix, strings.ToUpper(strings.ReplaceAll(key, "-", "_")))
}
