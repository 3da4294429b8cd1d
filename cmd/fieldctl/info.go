package main

//
// Informational subcommands.
//

import (
	"context"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/fieldops/franchise-client/internal/version"
	"github.com/spf13/cobra"
)

// registerInfoCommands registers whoami, endpoints, init and version.
func registerInfoCommands(rootCmd *cobra.Command, globalOptions *Options, stdout, stderr io.Writer) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Shows the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(globalOptions, stderr, func(env *environment) error {
				return whoami(context.Background(), env)
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "endpoints",
		Short: "Lists the known endpoint keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(globalOptions, stderr, func(env *environment) error {
				return listEndpoints(stdout, env)
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Writes the effective config to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(globalOptions, stderr, func(env *environment) error {
				if err := env.config.Write(); err != nil {
					return err
				}
				env.logger.Infof("config written to %s", env.config.Path())
				return nil
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(stdout, version.Version)
		},
	})
}

// whoami logs the profile of the logged-in user as a table.
func whoami(ctx context.Context, env *environment) error {
	demo, err := env.service.InDemoMode(ctx)
	if err != nil {
		return err
	}
	if demo {
		env.logger.Info("running in demo mode")
		return nil
	}
	profile, err := env.service.Profile(ctx)
	if err != nil {
		return err
	}
	env.logger.WithFields(log.Fields{
		"type":      "table",
		"name":      profile.Name,
		"email":     profile.Email,
		"franchise": profile.FranchiseName,
	}).Info("profile")
	return nil
}

// endpointParamPlaceholder is the path parameter shown by listEndpoints.
const endpointParamPlaceholder = ":id"

// listEndpoints writes the registered endpoints to w.
func listEndpoints(w io.Writer, env *environment) error {
	for _, key := range env.client.Registry.Keys() {
		desc, err := env.client.Registry.Resolve(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-24s %-6s %s\n", key, desc.Method, desc.Path(endpointParamPlaceholder))
	}
	return nil
}
