package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-escrow/app/mapper"
	"github.com/vibast-solutions/ms-go-escrow/app/types"
)

var (
	mediatorOwner   string
	mediatorFeeRate string
)

var mediatorCmd = &cobra.Command{
	Use:   "mediator",
	Short: "Manage the mediator singleton",
}

var mediatorInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the mediator with its owner and initial fee rate",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, escrowService, cleanup := mustCreateEscrowService()
		defer cleanup()

		owner := mediatorOwner
		if owner == "" {
			owner = cfg.Escrow.OwnerAccount
		}
		rate := mediatorFeeRate
		if rate == "" {
			rate = cfg.Escrow.InitialFeeRate.String()
		}

		m, err := escrowService.Initialize(context.Background(), owner, rate)
		if err != nil {
			logrus.WithError(err).Fatal("Mediator initialization failed")
		}
		printJSON(&types.MediatorResponse{Mediator: mapper.MediatorToProto(m)})
	},
}

var mediatorShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the mediator summary",
	Run: func(_ *cobra.Command, _ []string) {
		_, escrowService, cleanup := mustCreateEscrowService()
		defer cleanup()

		m, err := escrowService.GetMediator(context.Background())
		if err != nil {
			logrus.WithError(err).Fatal("Failed to load mediator")
		}
		printJSON(&types.MediatorResponse{Mediator: mapper.MediatorToProto(m)})
	},
}

func init() {
	rootCmd.AddCommand(mediatorCmd)
	mediatorCmd.AddCommand(mediatorInitCmd)
	mediatorCmd.AddCommand(mediatorShowCmd)

	mediatorInitCmd.Flags().StringVar(&mediatorOwner, "owner", "", "Owner account (defaults to ESCROW_OWNER_ACCOUNT)")
	mediatorInitCmd.Flags().StringVar(&mediatorFeeRate, "fee-rate", "", "Fee rate out of 100000 (defaults to ESCROW_INITIAL_FEE_RATE)")
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to encode output")
	}
	fmt.Fprintln(os.Stdout, string(out))
}
