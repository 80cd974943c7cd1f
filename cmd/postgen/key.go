package main

import (
	"fmt"
	"strings"

	"postgen/internal/credential"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newKeyCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored Together AI API key",
	}
	cmd.AddCommand(newKeySetCmd(root))
	cmd.AddCommand(newKeyClearCmd(root))
	cmd.AddCommand(newKeyStatusCmd(root))
	return cmd
}

func newKeySetCmd(root *rootOptions) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save the API key (prompts when --value is not given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd, root)
			if err != nil {
				return err
			}
			if strings.TrimSpace(value) == "" {
				if value, err = askForKey(); err != nil {
					return err
				}
			}
			if err := rt.creds.Save(value); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("API key saved."))
			return nil
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "API key value")
	return cmd
}

func newKeyClearCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd, root)
			if err != nil {
				return err
			}
			if err := rt.creds.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
			return nil
		},
	}
}

func newKeyStatusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an API key is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd, root)
			if err != nil {
				return err
			}
			current, ok := rt.creds.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "API key: not set")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key: %s\n", credential.Mask(current))
			return nil
		},
	}
}

// askForKey показывает поле ввода со скрытым вводом.
func askForKey() (string, error) {
	var value string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Together AI API key").
			Description("Stored locally as togetherApiKey.").
			EchoMode(huh.EchoModePassword).
			Value(&value).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return credential.ErrEmptyCredential
				}
				return nil
			}),
	)).Run()
	return value, err
}
