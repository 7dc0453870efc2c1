package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "escrow",
	Short: "Escrow payment mediator",
	Long:  "An escrow mediator holding user funds between payment and confirmation, releasing them to shops minus a mediator fee.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
