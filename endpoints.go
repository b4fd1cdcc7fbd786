package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	rtb "rtbsamples/internal/realtimebidding"
	"rtbsamples/internal/validate"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "Bid request endpoints of a bidder",
}

var endpointsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get an endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		endpointID, _ := cmd.Flags().GetString("endpoint-id")
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		name := rtb.EndpointName(id, endpointID)
		endpoint, err := client.GetEndpoint(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to get endpoint %s: %w", name, err)
		}

		rt.out.Printf("Get endpoint with name '%s':\n", name)
		return rt.out.Print(endpoint)
	},
}

var endpointsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List endpoints of a bidder",
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

		rt.out.Printf("Listing endpoints for bidder account ID '%s':\n", id)
		return printAll(cmd, "endpoints", client.EndpointPages(rtb.BidderName(id)), "No endpoints found.")
	},
}

var endpointsPatchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Patch an endpoint's bid protocol, maximum QPS and trading location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		endpointID, _ := flags.GetString("endpoint-id")
		protocol, _ := flags.GetString("bid-protocol")
		qps, _ := flags.GetInt64("maximum-qps")
		location, _ := flags.GetString("trading-location")

		patch := &rtb.Endpoint{
			BidProtocol:     strings.ToUpper(protocol),
			MaximumQps:      qps,
			TradingLocation: strings.ToUpper(location),
		}
		if err := validate.Var(patch.MaximumQps, "gte=0"); err != nil {
			return fmt.Errorf("invalid --maximum-qps %d: must not be negative", qps)
		}

		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		name := rtb.EndpointName(id, endpointID)
		patched, err := client.PatchEndpoint(cmd.Context(), name, patch,
			[]string{"maximumQps", "tradingLocation", "bidProtocol"})
		if err != nil {
			return fmt.Errorf("failed to patch endpoint %s: %w", name, err)
		}

		rt.out.Printf("Patched endpoint with name '%s':\n", name)
		return rt.out.Print(patched)
	},
}

func init() {
	biddersCmd.AddCommand(endpointsCmd)
	endpointsCmd.AddCommand(endpointsGetCmd)
	endpointsCmd.AddCommand(endpointsListCmd)
	endpointsCmd.AddCommand(endpointsPatchCmd)

	for _, c := range []*cobra.Command{endpointsGetCmd, endpointsListCmd, endpointsPatchCmd} {
		addAccountIDFlag(c, "Resource ID of the bidder account")
	}
	for _, c := range []*cobra.Command{endpointsGetCmd, endpointsPatchCmd} {
		c.Flags().StringP("endpoint-id", "e", "", "Resource ID of the endpoint")
		c.MarkFlagRequired("endpoint-id")
	}

	endpointsPatchCmd.Flags().StringP("bid-protocol", "b", "GOOGLE_RTB", "Bid protocol of the endpoint")
	endpointsPatchCmd.Flags().Int64P("maximum-qps", "m", 1, "Maximum number of queries per second sent to the endpoint")
	endpointsPatchCmd.Flags().StringP("trading-location", "t", "US_EAST", "Trading location of the endpoint")
}
