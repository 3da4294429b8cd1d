// Command fieldctl is a command line client for the franchise backend.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/fieldops/franchise-client/internal/httpapi"
	"github.com/fieldops/franchise-client/internal/version"
	"github.com/spf13/cobra"
)

// Options contains the options you can set from the CLI.
type Options struct {
	BaseURL     string
	ConfigPath  string
	HomeDir     string
	MetricsFile string
	Verbose     bool
}

// main is the main function of fieldctl.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run runs fieldctl with the given arguments and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCommand(stdout, stderr)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// newRootCommand creates the root command and registers all the subcommands.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var globalOptions Options
	rootCmd := &cobra.Command{
		Use:           "fieldctl",
		Short:         "fieldctl is the franchise backend command line client",
		Args:          cobra.NoArgs,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetVersionTemplate("{{ .Version }}\n")
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	flags := rootCmd.PersistentFlags()

	flags.StringVar(
		&globalOptions.BaseURL,
		"base-url",
		"",
		"URL of the franchise backend (overrides the config file)",
	)

	flags.StringVar(
		&globalOptions.ConfigPath,
		"config",
		"",
		"path of the config file (default: \"$FIELDCTL_HOME/config.json\")",
	)

	flags.StringVar(
		&globalOptions.HomeDir,
		"home",
		"",
		"force specific home directory",
	)

	flags.StringVar(
		&globalOptions.MetricsFile,
		"metrics-file",
		"",
		"write request metrics in the Prometheus text format to this file at exit",
	)

	flags.BoolVarP(
		&globalOptions.Verbose,
		"verbose",
		"v",
		false,
		"increase verbosity level",
	)

	registerAuthCommands(rootCmd, &globalOptions, stderr)
	registerInfoCommands(rootCmd, &globalOptions, stdout, stderr)
	registerCallCommand(rootCmd, &globalOptions, stdout, stderr)
	return rootCmd
}

// printError prints err, with status and message for backend errors.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	var apiErr *httpapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.HasStatus() {
			fmt.Fprintf(w, "%s %s (status %d): %s\n", red.Sprint("error:"), apiErr.Kind, apiErr.Status, apiErr.Message)
			return
		}
		fmt.Fprintf(w, "%s %s: %s\n", red.Sprint("error:"), apiErr.Kind, apiErr.Message)
		return
	}
	fmt.Fprintf(w, "%s %s\n", red.Sprint("error:"), err.Error())
}
