package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	rtb "rtbsamples/internal/realtimebidding"
	"rtbsamples/internal/validate"
)

const defaultHTMLSnippet = `<iframe marginwidth=0 marginheight=0 height=600 frameborder=0 width=160 scrolling=no src="https://test.com/ads?id=123456&curl=%%CLICK_URL_ESC%%&wprice=%%WINNING_PRICE_ESC%%"></iframe>`

var bidderCreativesCmd = &cobra.Command{
	Use:   "creatives",
	Short: "Creatives across all buyers of a bidder",
}

var bidderCreativesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List creatives for a bidder account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		opts, err := creativeListOptions(cmd)
		if err != nil {
			return err
		}
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		rt.out.Printf("Found creatives for bidder account ID '%s':\n", id)
		return printAll(cmd, "creatives", client.BidderCreativePages(rtb.BidderName(id), opts), "No creatives found.")
	},
}

var bidderCreativesWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Send creative status changes for a bidder to a Pub/Sub subscription",
	Long: `Enables notifications of creative status changes for all buyers of a
bidder. The returned subscription can be read with "rtb subscriptions pull".`,
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

		resp, err := client.WatchCreatives(cmd.Context(), rtb.BidderName(id))
		if err != nil {
			return fmt.Errorf("failed to watch creatives for bidder %s: %w", id, err)
		}

		rt.out.Printf("Watching creative status changes for bidder account '%s':\n", id)
		if err := rt.out.Print(resp); err != nil {
			return err
		}

		if copyToClipboard, _ := cmd.Flags().GetBool("copy"); copyToClipboard {
			if err := clipboard.WriteAll(resp.Subscription); err != nil {
				rt.logger.Warn("Failed to copy subscription", zap.Error(err))
				fmt.Fprintf(os.Stderr, "Could not copy the subscription to the clipboard: %v\n", err)
			} else {
				rt.out.Printf("Copied the subscription name to the clipboard.\n")
			}
		}
		return nil
	},
}

var buyerCreativesCmd = &cobra.Command{
	Use:   "creatives",
	Short: "Creatives of a buyer account",
}

var buyerCreativesGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a creative",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		creativeID, _ := cmd.Flags().GetString("creative-id")
		view, err := creativeView(cmd)
		if err != nil {
			return err
		}
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		creative, err := client.GetCreative(cmd.Context(), rtb.BuyerCreativeName(id, creativeID), view)
		if err != nil {
			return fmt.Errorf("failed to get creative %s: %w", creativeID, err)
		}

		rt.out.Printf("Found creative with ID '%s' for buyer account ID '%s':\n", creativeID, id)
		return rt.out.Print(creative)
	},
}

var buyerCreativesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List creatives for a buyer account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		opts, err := creativeListOptions(cmd)
		if err != nil {
			return err
		}
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		rt.out.Printf("Listing creatives for buyer account: '%s'.\n", id)
		return printAll(cmd, "creatives", client.CreativePages(rtb.BuyerName(id), opts), "No creatives found.")
	},
}

var buyerCreativesPatchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Patch a creative's advertiser name and declared click-through URLs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		creativeID, _ := cmd.Flags().GetString("creative-id")

		advertiser := uniqueName(cmd, "advertiser-name", "Test-Advertiser-")
		urls, _ := cmd.Flags().GetStringSlice("declared-click-urls")
		if len(urls) == 0 {
			for i := 0; i < 3; i++ {
				urls = append(urls, "https://test.clickurl.com/"+uuid.NewString())
			}
		}

		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		patched, err := client.PatchCreative(cmd.Context(), rtb.BuyerCreativeName(id, creativeID), &rtb.Creative{
			AdvertiserName:           advertiser,
			DeclaredClickThroughUrls: urls,
		}, []string{"advertiserName", "declaredClickThroughUrls"})
		if err != nil {
			return fmt.Errorf("failed to patch creative %s: %w", creativeID, err)
		}

		rt.out.Printf("Patched creative for buyer account ID '%s':\n", id)
		return rt.out.Print(patched)
	},
}

var buyerCreativesCreateHTMLCmd = &cobra.Command{
	Use:   "create-html",
	Short: "Create an HTML creative",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creative, err := baseCreative(cmd, "HTML_Creative_")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		snippet, _ := flags.GetString("html-snippet")
		height, _ := flags.GetInt32("html-height")
		width, _ := flags.GetInt32("html-width")
		creative.Html = &rtb.HtmlContent{Snippet: snippet, Height: int64(height), Width: int64(width)}
		return createCreative(cmd, creative)
	},
}

var buyerCreativesCreateNativeCmd = &cobra.Command{
	Use:   "create-native",
	Short: "Create a native creative",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creative, err := baseCreative(cmd, "Native_Creative_")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		str := func(name string) string { v, _ := flags.GetString(name); return v }
		i32 := func(name string) int64 { v, _ := flags.GetInt32(name); return int64(v) }

		creative.Native = &rtb.NativeContent{
			Headline:       str("native-headline"),
			Body:           str("native-body"),
			CallToAction:   str("native-call-to-action"),
			AdvertiserName: str("native-advertiser-name"),
			Image: &rtb.Image{
				Url:    str("native-image-url"),
				Height: i32("native-image-height"),
				Width:  i32("native-image-width"),
			},
			Logo: &rtb.Image{
				Url:    str("native-logo-url"),
				Height: i32("native-logo-height"),
				Width:  i32("native-logo-width"),
			},
			ClickLinkUrl:     str("native-click-link-url"),
			ClickTrackingUrl: str("native-click-tracking-url"),
		}
		return createCreative(cmd, creative)
	},
}

var buyerCreativesCreateVideoCmd = &cobra.Command{
	Use:   "create-video",
	Short: "Create a video creative",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creative, err := baseCreative(cmd, "Video_Creative_")
		if err != nil {
			return err
		}
		videoURL, _ := cmd.Flags().GetString("video-url")
		creative.Video = &rtb.VideoContent{VideoUrl: videoURL}
		return createCreative(cmd, creative)
	},
}

// baseCreative fills the fields shared by every creative format
func baseCreative(cmd *cobra.Command, idPrefix string) (*rtb.Creative, error) {
	flags := cmd.Flags()
	advertiser, _ := flags.GetString("advertiser-name")
	attributes, _ := flags.GetStringSlice("declared-attributes")
	clickURLs, _ := flags.GetStringSlice("declared-click-urls")
	categories, _ := flags.GetStringSlice("declared-restricted-categories")
	vendorFlag, _ := flags.GetStringSlice("declared-vendor-ids")

	vendors, err := parseInt32s("declared-vendor-ids", vendorFlag)
	if err != nil {
		return nil, err
	}

	return &rtb.Creative{
		CreativeId:                   uniqueName(cmd, "creative-id", idPrefix),
		AdvertiserName:               advertiser,
		DeclaredAttributes:           attributes,
		DeclaredClickThroughUrls:     clickURLs,
		DeclaredRestrictedCategories: categories,
		DeclaredVendorIds:            vendors,
	}, nil
}

func createCreative(cmd *cobra.Command, creative *rtb.Creative) error {
	rt := runtimeFrom(cmd)
	id, err := accountID(cmd)
	if err != nil {
		return err
	}
	client, err := rt.API(cmd.Context())
	if err != nil {
		return err
	}

	created, err := client.CreateCreative(cmd.Context(), rtb.BuyerName(id), creative)
	if err != nil {
		return fmt.Errorf("failed to create creative %s: %w", creative.CreativeId, err)
	}

	rt.out.Printf("Created creative for buyer account ID '%s':\n", id)
	return rt.out.Print(created)
}

func creativeView(cmd *cobra.Command) (string, error) {
	view, _ := cmd.Flags().GetString("view")
	view = strings.ToUpper(view)
	if err := validate.Var(view, "oneof=FULL SERVING_DECISION_ONLY"); err != nil {
		return "", fmt.Errorf("invalid --view %q: want FULL or SERVING_DECISION_ONLY", view)
	}
	return view, nil
}

func creativeListOptions(cmd *cobra.Command) (*rtb.ListOptions, error) {
	view, err := creativeView(cmd)
	if err != nil {
		return nil, err
	}
	filter, _ := cmd.Flags().GetString("filter")
	return &rtb.ListOptions{Filter: filter, View: view}, nil
}

func addCreativeFormatFlags(cmd *cobra.Command, attribute string) {
	flags := cmd.Flags()
	addAccountIDFlag(cmd, "Resource ID of the buyer account the creative is created under")
	flags.StringP("creative-id", "c", "", "Creative ID (default a unique ID for the format)")
	flags.String("advertiser-name", "Test", "Advertiser name")
	flags.StringSlice("declared-attributes", []string{attribute}, "Declared creative attributes")
	flags.StringSlice("declared-click-urls", []string{"http://test.com"}, "Declared click-through URLs")
	flags.StringSlice("declared-restricted-categories", nil, "Declared restricted categories")
	flags.StringSlice("declared-vendor-ids", nil, "Declared vendor IDs")
}

func init() {
	biddersCmd.AddCommand(bidderCreativesCmd)
	bidderCreativesCmd.AddCommand(bidderCreativesListCmd)
	bidderCreativesCmd.AddCommand(bidderCreativesWatchCmd)

	buyersCmd.AddCommand(buyerCreativesCmd)
	buyerCreativesCmd.AddCommand(buyerCreativesCreateHTMLCmd)
	buyerCreativesCmd.AddCommand(buyerCreativesCreateNativeCmd)
	buyerCreativesCmd.AddCommand(buyerCreativesCreateVideoCmd)
	buyerCreativesCmd.AddCommand(buyerCreativesGetCmd)
	buyerCreativesCmd.AddCommand(buyerCreativesListCmd)
	buyerCreativesCmd.AddCommand(buyerCreativesPatchCmd)

	for _, c := range []*cobra.Command{bidderCreativesListCmd, buyerCreativesListCmd} {
		c.Flags().StringP("filter", "f", rtb.DefaultCreativeFilter, "Creative list filter")
		c.Flags().String("view", rtb.ViewFull, "Creative view: FULL or SERVING_DECISION_ONLY")
	}
	addAccountIDFlag(bidderCreativesListCmd, "Resource ID of the bidder account")
	addAccountIDFlag(buyerCreativesListCmd, "Resource ID of the buyer account")

	addAccountIDFlag(bidderCreativesWatchCmd, "Resource ID of the bidder account")
	bidderCreativesWatchCmd.Flags().Bool("copy", false, "Copy the subscription name to the clipboard")

	addAccountIDFlag(buyerCreativesGetCmd, "Resource ID of the buyer account")
	buyerCreativesGetCmd.Flags().StringP("creative-id", "c", "", "Creative ID")
	buyerCreativesGetCmd.Flags().String("view", rtb.ViewFull, "Creative view: FULL or SERVING_DECISION_ONLY")
	buyerCreativesGetCmd.MarkFlagRequired("creative-id")

	addAccountIDFlag(buyerCreativesPatchCmd, "Resource ID of the buyer account")
	buyerCreativesPatchCmd.Flags().StringP("creative-id", "c", "", "Creative ID")
	buyerCreativesPatchCmd.Flags().String("advertiser-name", "", "New advertiser name (default Test-Advertiser-<uuid>)")
	buyerCreativesPatchCmd.Flags().StringSlice("declared-click-urls", nil, "New declared click-through URLs (default three unique test URLs)")
	buyerCreativesPatchCmd.MarkFlagRequired("creative-id")

	addCreativeFormatFlags(buyerCreativesCreateHTMLCmd, "CREATIVE_TYPE_HTML")
	buyerCreativesCreateHTMLCmd.Flags().String("html-snippet", defaultHTMLSnippet, "HTML snippet that displays the ad")
	buyerCreativesCreateHTMLCmd.Flags().Int32("html-height", 250, "Height of the HTML snippet in pixels")
	buyerCreativesCreateHTMLCmd.Flags().Int32("html-width", 300, "Width of the HTML snippet in pixels")

	addCreativeFormatFlags(buyerCreativesCreateNativeCmd, "NATIVE_ELIGIBILITY_ELIGIBLE")
	nf := buyerCreativesCreateNativeCmd.Flags()
	nf.String("native-headline", "Luxury Mars Cruises", "Headline of the native ad")
	nf.String("native-body", "Visit the planet in a luxury spaceship.", "Body text of the native ad")
	nf.String("native-call-to-action", "Book today", "Call to action of the native ad")
	nf.String("native-advertiser-name", "Galactic Luxury Cruises", "Advertiser name shown in the native ad")
	nf.String("native-image-url", "https://native.test.com/image?id=123456", "Image URL")
	nf.Int32("native-image-height", 627, "Image height in pixels")
	nf.Int32("native-image-width", 1200, "Image width in pixels")
	nf.String("native-logo-url", "https://native.test.com/logo?id=123456", "Logo URL")
	nf.Int32("native-logo-height", 100, "Logo height in pixels")
	nf.Int32("native-logo-width", 100, "Logo width in pixels")
	nf.String("native-click-link-url", "https://www.google.com", "URL the ad links to")
	nf.String("native-click-tracking-url", "https://native.test.com/click?id=123456", "Click tracking URL")

	addCreativeFormatFlags(buyerCreativesCreateVideoCmd, "CREATIVE_TYPE_VAST_VIDEO")
	buyerCreativesCreateVideoCmd.Flags().String("video-url", "https://video.test.com/ads?id=123456&wprice=%%WINNING_PRICE%%", "URL of the video ad")
}
