package main

import (
	"fmt"

	"github.com/spf13/cobra"

	rtb "rtbsamples/internal/realtimebidding"
)

var biddersCmd = &cobra.Command{
	Use:   "bidders",
	Short: "Bidder accounts and their endpoints, pretargeting and creatives",
}

var biddersGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a bidder account",
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

		bidder, err := client.GetBidder(cmd.Context(), rtb.BidderName(id))
		if err != nil {
			return fmt.Errorf("failed to get bidder %s: %w", id, err)
		}

		rt.out.Printf("Get bidder with ID '%s'.\n", id)
		return rt.out.Print(bidder)
	},
}

var biddersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bidder accounts the service account can access",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		rt.out.Printf("Listing bidders:\n")
		return printAll(cmd, "bidders", client.BidderPages(), "No bidders found.")
	},
}

func init() {
	rootCmd.AddCommand(biddersCmd)
	biddersCmd.AddCommand(biddersGetCmd)
	biddersCmd.AddCommand(biddersListCmd)

	addAccountIDFlag(biddersGetCmd, "Resource ID of the bidder account")
}
