package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	rtb "rtbsamples/internal/realtimebidding"
)

var publisherConnectionsCmd = &cobra.Command{
	Use:   "publisher-connections",
	Short: "Publisher connections of a bidder",
}

var publisherConnectionsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a publisher connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		connectionID, _ := cmd.Flags().GetString("publisher-connection-id")
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		name := rtb.PublisherConnectionName(id, connectionID)
		conn, err := client.GetPublisherConnection(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to get publisher connection %s: %w", name, err)
		}

		rt.out.Printf("Get publisher connection with name \"%s\":\n", name)
		return rt.out.Print(conn)
	},
}

var publisherConnectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List publisher connections of a bidder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		orderBy, _ := cmd.Flags().GetString("order-by")
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		parent := rtb.BidderName(id)
		rt.out.Printf("Listing publisher connections for bidder with name \"%s\":\n", parent)
		return printAll(cmd, "publisherConnections",
			client.PublisherConnectionPages(parent, &rtb.ListOptions{Filter: filter, OrderBy: orderBy}),
			"No publisher connections found.")
	},
}

var publisherConnectionsBatchApproveCmd = &cobra.Command{
	Use:   "batch-approve",
	Short: "Approve publisher connections in bulk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return batchPublisherConnections(cmd, true)
	},
}

var publisherConnectionsBatchRejectCmd = &cobra.Command{
	Use:   "batch-reject",
	Short: "Reject publisher connections in bulk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return batchPublisherConnections(cmd, false)
	},
}

func batchPublisherConnections(cmd *cobra.Command, approve bool) error {
	rt := runtimeFrom(cmd)
	id, err := accountID(cmd)
	if err != nil {
		return err
	}
	ids, _ := cmd.Flags().GetStringSlice("publisher-connection-ids")
	names := make([]string, 0, len(ids))
	for _, connectionID := range ids {
		if connectionID = strings.TrimSpace(connectionID); connectionID != "" {
			names = append(names, rtb.PublisherConnectionName(id, connectionID))
		}
	}
	client, err := rt.API(cmd.Context())
	if err != nil {
		return err
	}

	parent := rtb.BidderName(id)
	var conns []*rtb.PublisherConnection
	if approve {
		rt.out.Printf("Batch approving publisher connections for bidder with name: '%s'\n", parent)
		conns, err = client.BatchApprovePublisherConnections(cmd.Context(), parent, names)
		if err != nil {
			return fmt.Errorf("failed to batch approve publisher connections for %s: %w", parent, err)
		}
	} else {
		rt.out.Printf("Batch rejecting publisher connections for bidder with name: '%s'\n", parent)
		conns, err = client.BatchRejectPublisherConnections(cmd.Context(), parent, names)
		if err != nil {
			return fmt.Errorf("failed to batch reject publisher connections for %s: %w", parent, err)
		}
	}
	return rt.out.Print(conns)
}

func init() {
	biddersCmd.AddCommand(publisherConnectionsCmd)
	publisherConnectionsCmd.AddCommand(publisherConnectionsBatchApproveCmd)
	publisherConnectionsCmd.AddCommand(publisherConnectionsBatchRejectCmd)
	publisherConnectionsCmd.AddCommand(publisherConnectionsGetCmd)
	publisherConnectionsCmd.AddCommand(publisherConnectionsListCmd)

	for _, c := range publisherConnectionsCmd.Commands() {
		addAccountIDFlag(c, "Resource ID of the bidder account")
	}
	for _, c := range []*cobra.Command{publisherConnectionsBatchApproveCmd, publisherConnectionsBatchRejectCmd} {
		c.Flags().StringSlice("publisher-connection-ids", nil, "Comma separated IDs of the publisher connections")
		c.MarkFlagRequired("publisher-connection-ids")
	}

	publisherConnectionsGetCmd.Flags().StringP("publisher-connection-id", "p", "", "ID of the publisher connection")
	publisherConnectionsGetCmd.MarkFlagRequired("publisher-connection-id")

	publisherConnectionsListCmd.Flags().StringP("filter", "f", rtb.DefaultPublisherConnectionFilter, "Publisher connection list filter")
	publisherConnectionsListCmd.Flags().String("order-by", rtb.DefaultPublisherConnectionOrderBy, "Sort order of the list")
}
