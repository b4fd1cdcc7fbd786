package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rtbsamples/internal/printer"
	"rtbsamples/internal/pubsub"
	"rtbsamples/internal/validate"
)

var subscriptionsCmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "Cloud Pub/Sub subscriptions that receive creative status changes",
}

var subscriptionsPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull creative status notifications from a subscription",
	Long: `Pulls the pending creative status notifications from a subscription
created by "rtb bidders creatives watch". Messages are redelivered unless
--acknowledge is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		flags := cmd.Flags()
		subscription, _ := flags.GetString("subscription-name")
		maxMessages, _ := flags.GetInt32("max-messages")
		acknowledge, _ := flags.GetBool("acknowledge")

		if err := validate.Var(maxMessages, "gte=1,lte=1000"); err != nil {
			return fmt.Errorf("invalid --max-messages %d: must be between 1 and 1000", maxMessages)
		}

		sub, err := rt.Subscriber(cmd.Context())
		if err != nil {
			return err
		}
		defer sub.Close()

		msgs, err := sub.Pull(cmd.Context(), subscription, maxMessages)
		if err != nil {
			return fmt.Errorf("failed to pull from subscription %s: %w", subscription, err)
		}
		rt.logger.Debug("Pulled messages", zap.String("subscription", subscription), zap.Int("count", len(msgs)))

		if rt.out.Format() == printer.FormatJSON {
			if msgs == nil {
				msgs = []pubsub.Message{}
			}
			if err := rt.out.JSON(msgs); err != nil {
				return err
			}
		} else {
			pubsub.PrintPull(rt.out.Writer(), subscription, msgs)
		}

		if !acknowledge || len(msgs) == 0 {
			return nil
		}
		if rt.out.Format() != printer.FormatJSON {
			pubsub.PrintAcknowledged(rt.out.Writer(), len(msgs))
		}
		if err := sub.Acknowledge(cmd.Context(), subscription, pubsub.AckIDs(msgs)); err != nil {
			return fmt.Errorf("failed to acknowledge messages: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subscriptionsCmd)
	subscriptionsCmd.AddCommand(subscriptionsPullCmd)

	flags := subscriptionsPullCmd.Flags()
	flags.StringP("subscription-name", "s", "", "Full subscription name, e.g. projects/realtimebidding-pubsub/subscriptions/rtbcreative-12345678")
	flags.Int32P("max-messages", "m", pubsub.DefaultMaxMessages, "Maximum number of messages to pull")
	flags.Bool("acknowledge", false, "Acknowledge the pulled messages so they are not redelivered")
	subscriptionsPullCmd.MarkFlagRequired("subscription-name")
}
