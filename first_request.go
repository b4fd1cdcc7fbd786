package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rtbsamples/internal/printer"
	rtb "rtbsamples/internal/realtimebidding"
)

var firstRequestCmd = &cobra.Command{
	Use:   "first-request",
	Short: "Make a first API request by listing a buyer's creatives",
	Long: `Lists the creatives of a buyer account with the FULL view and prints
their names. Use it to check that the key file and account are set up.`,
	Args: cobra.NoArgs,
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

		buyer := rtb.BuyerName(id)
		creatives, err := rtb.All(cmd.Context(), "creatives",
			client.CreativePages(buyer, &rtb.ListOptions{View: rtb.ViewFull}))
		if err != nil {
			return fmt.Errorf("failed to list creatives for %s: %w", buyer, err)
		}

		if rt.out.Format() == printer.FormatJSON {
			if creatives == nil {
				creatives = []*rtb.Creative{}
			}
			return rt.out.JSON(creatives)
		}

		if len(creatives) == 0 {
			rt.out.Printf("No creatives were found that were associated with buyer '%s'.\n", id)
			return nil
		}
		rt.out.Printf("Listing of creatives associated with buyer '%s'\n", id)
		for _, c := range creatives {
			rt.out.Field("Creative name", c.Name, 0)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(firstRequestCmd)
	addAccountIDFlag(firstRequestCmd, "Resource ID of the buyer account whose creatives are listed")
}
