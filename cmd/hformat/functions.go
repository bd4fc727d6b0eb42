package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/angmorpri/hformat/pkg/hformat"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the available pipeline functions",
	RunE:  runFunctions,
}

func runFunctions(cmd *cobra.Command, args []string) error {
	registry := hformat.GetRegistry()
	nameStyle := color.New(color.FgCyan, color.Bold)
	aliasStyle := color.New(color.Faint)

	out := cmd.OutOrStdout()
	for _, name := range registry.Names() {
		desc, _ := registry.Lookup(name)
		nameStyle.Fprint(out, name)
		if len(desc.Aliases) > 0 {
			aliasStyle.Fprintf(out, "  (%s)", strings.Join(desc.Aliases, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}
