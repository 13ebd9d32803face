package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trackerctl",
		Short: "Apartment maintenance tracker administration",
	}

	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		tokenCmd(),
		schemaCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
