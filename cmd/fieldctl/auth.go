package main

//
// Authentication subcommands.
//

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fieldops/franchise-client/internal/franchise"
	"github.com/spf13/cobra"
)

// PasswordEnvVariable is the environment variable containing the password.
const PasswordEnvVariable = "FIELDCTL_PASSWORD"

// errMissingPassword indicates that we don't know the password.
var errMissingPassword = errors.New("missing password: use --password or " + PasswordEnvVariable)

// registerAuthCommands registers login, logout and demo.
func registerAuthCommands(rootCmd *cobra.Command, globalOptions *Options, stderr io.Writer) {
	var creds franchise.Credentials
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Logs into the backend and stores the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.Password == "" {
				creds.Password = os.Getenv(PasswordEnvVariable)
			}
			if creds.Password == "" {
				return errMissingPassword
			}
			return withEnvironment(globalOptions, stderr, func(env *environment) error {
				resp, err := env.service.Login(context.Background(), creds)
				if err != nil {
					return err
				}
				env.logger.Infof("logged in as %s <%s>", resp.User.Name, resp.User.Email)
				return nil
			})
		},
	}
	loginCmd.Flags().StringVarP(&creds.Email, "email", "e", "", "email of the franchise owner")
	loginCmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password (default: $"+PasswordEnvVariable+")")
	_ = loginCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(loginCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Logs out and removes the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(globalOptions, stderr, func(env *environment) error {
				if err := env.service.Logout(context.Background()); err != nil {
					return err
				}
				env.logger.Info("logged out")
				return nil
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Enters demo mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(globalOptions, stderr, func(env *environment) error {
				if err := env.service.EnterDemoMode(context.Background()); err != nil {
					return err
				}
				env.logger.Info("demo mode enabled: the backend rejects the demo session")
				return nil
			})
		},
	})
}
