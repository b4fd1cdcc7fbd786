package main

import (
	"fmt"

	"github.com/spf13/cobra"

	rtb "rtbsamples/internal/realtimebidding"
)

var buyersCmd = &cobra.Command{
	Use:   "buyers",
	Short: "Buyer accounts and their creatives and user lists",
}

var buyersGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a buyer account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		buyer, err := client.GetBuyer(cmd.Context(), rtb.BuyerName(id))
		if err != nil {
			return fmt.Errorf("failed to get buyer %s: %w", id, err)
		}

		rt.out.Printf("Get buyer with ID '%s'.\n", id)
		return rt.out.Print(buyer)
	},
}

var buyersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the buyer accounts the service account can access",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		rt.out.Printf("Listing buyers:\n")
		return printAll(cmd, "buyers", client.BuyerPages(), "No buyers found.")
	},
}

func init() {
	rootCmd.AddCommand(buyersCmd)
	buyersCmd.AddCommand(buyersGetCmd)
	buyersCmd.AddCommand(buyersListCmd)

	addAccountIDFlag(buyersGetCmd, "Resource ID of the buyer account")
}
