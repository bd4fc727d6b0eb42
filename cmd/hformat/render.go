package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angmorpri/hformat/pkg/hformat"
)

var renderCmd = &cobra.Command{
	Use:   "render [template]",
	Short: "Render a template with the given arguments",
	Long: `Render a template against positional and named arguments.

The template is taken from the first argument, or from stdin when no
argument is given. Positional values are supplied with repeated --arg
flags, named values with repeated --set key=value flags:

  hformat render "{name} is {}" --set name=Ada --arg 36`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringArray("arg", nil, "positional argument (repeatable)")
	renderCmd.Flags().StringArray("set", nil, "named argument as key=value (repeatable)")
}

func runRender(cmd *cobra.Command, args []string) error {
	template, err := readTemplate(cmd, args)
	if err != nil {
		return fail(err)
	}

	rawArgs, _ := cmd.Flags().GetStringArray("arg")
	positional := make([]interface{}, len(rawArgs))
	for i, raw := range rawArgs {
		positional[i] = parseScalar(raw)
	}

	pairs, _ := cmd.Flags().GetStringArray("set")
	named := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fail(fmt.Errorf("invalid --set value %q, expected key=value", pair))
		}
		named[key] = parseScalar(value)
	}

	result, err := hformat.Format(template, positional, named)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

func readTemplate(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading template from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// parseScalar interprets a command-line value as an int, float or bool when
// it looks like one, falling back to the raw string.
func parseScalar(raw string) interface{} {
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}
