package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/easyapply-agent/internal/credentials"
)

var credentialsCommand = &cobra.Command{
	Use:   "credentials",
	Short: "Manage the local encrypted credential store",
}

var credentialsSaveCommand = &cobra.Command{
	Use:   "save",
	Short: "Encrypt and save credentials to the local store",
	Long: `Reads the email and password and saves them encrypted under ` + "`~/.easyapply`" + `.
Values come from LINKEDIN_EMAIL and LINKEDIN_PASSWORD when set, otherwise
they are prompted for on stdin. Stored credentials take priority over
environment variables on later runs.`,
	RunE: credentialsSaveCmd,
}

var credentialsCheckCommand = &cobra.Command{
	Use:   "check",
	Short: "Show which credential source a run would use",
	RunE:  credentialsCheckCmd,
}

func init() {
	credentialsCommand.AddCommand(credentialsSaveCommand)
	credentialsCommand.AddCommand(credentialsCheckCommand)
	rootCmd.AddCommand(credentialsCommand)
}

func credentialsSaveCmd(_ *cobra.Command, _ []string) error {
	creds, err := credentials.FromEnv()
	if err != nil {
		creds, err = promptCredentials()
		if err != nil {
			return err
		}
	}

	dir, err := credentials.DefaultDir()
	if err != nil {
		return fmt.Errorf("could not locate credential store: %w", err)
	}
	if err := credentials.SaveToStore(dir, creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Credentials for %s saved to %s\n", creds.Email(), dir)
	return nil
}

func credentialsCheckCmd(_ *cobra.Command, _ []string) error {
	dir, err := credentials.DefaultDir()
	if err != nil {
		return fmt.Errorf("could not locate credential store: %w", err)
	}
	creds, source, err := credentials.Resolve(dir)
	if err != nil {
		return fmt.Errorf("no credentials available: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Using credentials for %s (source: %s)\n", creds.Email(), source)
	return nil
}

func promptCredentials() (credentials.Credentials, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Fprint(os.Stdout, "Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return credentials.Credentials{}, fmt.Errorf("failed to read email: %w", err)
	}

	fmt.Fprint(os.Stdout, "Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return credentials.Credentials{}, fmt.Errorf("failed to read password: %w", err)
	}

	return credentials.New(strings.TrimSpace(email), strings.TrimSpace(password))
}
