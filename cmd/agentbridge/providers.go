package main

import (
	"fmt"

	"github.com/spf13/cobra"

	agentbridge "github.com/agentwire/agent-bridge-go"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured provider profiles",
	RunE:  listProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func listProviders(cmd *cobra.Command, args []string) error {
	profiles, err := agentbridge.LoadProviders(providerConfig)
	if err != nil {
		return err
	}

	if len(profiles.Providers) == 0 {
		fmt.Printf("no provider profiles in %s\n", providerConfig)

		return nil
	}

	for name, provider := range profiles.Providers {
		marker := " "
		if name == profiles.Default {
			marker = "*"
		}

		fmt.Printf("%s %-16s model=%s base_url=%s\n", marker, name, provider.Model, provider.BaseURL)
	}

	return nil
}
