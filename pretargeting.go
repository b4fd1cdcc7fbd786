package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	rtb "rtbsamples/internal/realtimebidding"
	"rtbsamples/internal/validate"
)

var pretargetingCmd = &cobra.Command{
	Use:     "pretargeting-configs",
	Aliases: []string{"pretargeting"},
	Short:   "Pretargeting configurations of a bidder",
}

var pretargetingGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a pretargeting configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPretargetingConfig(cmd, func(ctx context.Context, client *rtb.Client, name string) error {
			cfg, err := client.GetPretargetingConfig(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to get pretargeting configuration %s: %w", name, err)
			}
			rt := runtimeFrom(cmd)
			rt.out.Printf("Get pretargeting configuration with name '%s':\n", name)
			return rt.out.Print(cfg)
		})
	},
}

var pretargetingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pretargeting configurations of a bidder",
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

		rt.out.Printf("Listing pretargeting configurations for bidder account: '%s'.\n", id)
		return printAll(cmd, "pretargetingConfigs", client.PretargetingConfigPages(rtb.BidderName(id)),
			"No pretargeting configurations found.")
	},
}

var pretargetingDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a pretargeting configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPretargetingConfig(cmd, func(ctx context.Context, client *rtb.Client, name string) error {
			if err := client.DeletePretargetingConfig(ctx, name); err != nil {
				return fmt.Errorf("failed to delete pretargeting configuration %s: %w", name, err)
			}
			runtimeFrom(cmd).out.Printf("Pretargeting configuration with name '%s' deleted successfully.\n", name)
			return nil
		})
	},
}

var pretargetingActivateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate a suspended pretargeting configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPretargetingConfig(cmd, func(ctx context.Context, client *rtb.Client, name string) error {
			rt := runtimeFrom(cmd)
			rt.out.Printf("Activating pretargeting configuration with name: %s\n", name)
			cfg, err := client.ActivatePretargetingConfig(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to activate pretargeting configuration %s: %w", name, err)
			}
			return rt.out.Print(cfg)
		})
	},
}

var pretargetingSuspendCmd = &cobra.Command{
	Use:   "suspend",
	Short: "Suspend an active pretargeting configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPretargetingConfig(cmd, func(ctx context.Context, client *rtb.Client, name string) error {
			rt := runtimeFrom(cmd)
			rt.out.Printf("Suspending pretargeting configuration with name: %s\n", name)
			cfg, err := client.SuspendPretargetingConfig(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to suspend pretargeting configuration %s: %w", name, err)
			}
			return rt.out.Print(cfg)
		})
	},
}

var pretargetingCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a pretargeting configuration",
	Long: `Creates a pretargeting configuration. A bidder has at most ten, and the
targeting flags left unset are omitted from the request.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		cfg, err := pretargetingFromFlags(cmd)
		if err != nil {
			return err
		}
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		created, err := client.CreatePretargetingConfig(cmd.Context(), rtb.BidderName(id), cfg)
		if err != nil {
			return fmt.Errorf("failed to create pretargeting configuration: %w", err)
		}

		rt.out.Printf("Created pretargeting configuration for bidder account ID '%s':\n", id)
		return rt.out.Print(created)
	},
}

var pretargetingPatchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Patch a pretargeting configuration's name, formats, geos and dimensions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		formats, _ := flags.GetStringSlice("included-formats")
		geoFlag, _ := flags.GetStringSlice("included-geo-ids")
		dimFlag, _ := flags.GetStringSlice("included-creative-dimensions")

		geos, err := parseInt64s("included-geo-ids", geoFlag)
		if err != nil {
			return err
		}
		dims, err := parseDimensions("included-creative-dimensions", dimFlag)
		if err != nil {
			return err
		}
		patch := &rtb.PretargetingConfig{
			DisplayName:                uniqueName(cmd, "display-name", "TEST_PRETARGETING_CONFIG_"),
			IncludedFormats:            upper(formats),
			GeoTargeting:               &rtb.NumericTargetingDimension{IncludedIds: geos},
			IncludedCreativeDimensions: dims,
		}

		return withPretargetingConfig(cmd, func(ctx context.Context, client *rtb.Client, name string) error {
			patched, err := client.PatchPretargetingConfig(ctx, name, patch,
				[]string{"displayName", "includedFormats", "geoTargeting.includedIds", "includedCreativeDimensions"})
			if err != nil {
				return fmt.Errorf("failed to patch pretargeting configuration %s: %w", name, err)
			}
			rt := runtimeFrom(cmd)
			rt.out.Printf("Patched pretargeting configuration with name '%s':\n", name)
			return rt.out.Print(patched)
		})
	},
}

// targetingAction adds or removes apps, publishers or sites
type targetingAction struct {
	use, short, valuesFlag, header string
	withMode                       bool
	call                           func(ctx context.Context, client *rtb.Client, name, mode string, values []string) (*rtb.PretargetingConfig, error)
}

var targetingActions = []targetingAction{
	{
		use: "add-targeted-apps", short: "Add mobile app IDs to mobile app targeting",
		valuesFlag: "app-ids", withMode: true,
		header: "Updating mobile app targeting with new app IDs for pretargeting configuration with name: '%s'",
		call: func(ctx context.Context, c *rtb.Client, name, mode string, ids []string) (*rtb.PretargetingConfig, error) {
			return c.AddTargetedApps(ctx, name, mode, ids)
		},
	},
	{
		use: "remove-targeted-apps", short: "Remove mobile app IDs from mobile app targeting",
		valuesFlag: "app-ids",
		header:     "Removing mobile app IDs from mobile app targeting for pretargeting configuration with name: '%s'",
		call: func(ctx context.Context, c *rtb.Client, name, _ string, ids []string) (*rtb.PretargetingConfig, error) {
			return c.RemoveTargetedApps(ctx, name, ids)
		},
	},
	{
		use: "add-targeted-publishers", short: "Add publisher IDs to publisher targeting",
		valuesFlag: "publisher-ids", withMode: true,
		header: "Updating publisher targeting with new publisher IDs for pretargeting configuration with name: '%s'",
		call: func(ctx context.Context, c *rtb.Client, name, mode string, ids []string) (*rtb.PretargetingConfig, error) {
			return c.AddTargetedPublishers(ctx, name, mode, ids)
		},
	},
	{
		use: "remove-targeted-publishers", short: "Remove publisher IDs from publisher targeting",
		valuesFlag: "publisher-ids",
		header:     "Removing publisher IDs from publisher targeting for pretargeting configuration with name: '%s'",
		call: func(ctx context.Context, c *rtb.Client, name, _ string, ids []string) (*rtb.PretargetingConfig, error) {
			return c.RemoveTargetedPublishers(ctx, name, ids)
		},
	},
	{
		use: "add-targeted-sites", short: "Add site URLs to web targeting",
		valuesFlag: "sites", withMode: true,
		header: "Updating web targeting with new site URLs for pretargeting configuration with name: '%s'",
		call: func(ctx context.Context, c *rtb.Client, name, mode string, sites []string) (*rtb.PretargetingConfig, error) {
			return c.AddTargetedSites(ctx, name, mode, sites)
		},
	},
	{
		use: "remove-targeted-sites", short: "Remove site URLs from web targeting",
		valuesFlag: "sites",
		header:     "Removing site URLs from web targeting for pretargeting configuration with name: '%s'",
		call: func(ctx context.Context, c *rtb.Client, name, _ string, sites []string) (*rtb.PretargetingConfig, error) {
			return c.RemoveTargetedSites(ctx, name, sites)
		},
	},
}

func (a targetingAction) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   a.use,
		Short: a.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, _ := cmd.Flags().GetStringSlice(a.valuesFlag)
			var mode string
			if a.withMode {
				mode, _ = cmd.Flags().GetString("targeting-mode")
				mode = strings.ToUpper(mode)
			}
			return withPretargetingConfig(cmd, func(ctx context.Context, client *rtb.Client, name string) error {
				rt := runtimeFrom(cmd)
				rt.out.Printf(a.header+"\n", name)
				cfg, err := a.call(ctx, client, name, mode, values)
				if err != nil {
					return err
				}
				return rt.out.Print(cfg)
			})
		},
	}
	addPretargetingFlags(cmd)
	cmd.Flags().StringSlice(a.valuesFlag, nil, "Comma separated values to "+strings.SplitN(a.use, "-", 2)[0])
	cmd.MarkFlagRequired(a.valuesFlag)
	if a.withMode {
		cmd.Flags().String("targeting-mode", "", "Targeting mode: INCLUSIVE or EXCLUSIVE")
		cmd.MarkFlagRequired("targeting-mode")
	}
	return cmd
}

// withPretargetingConfig resolves the configuration named by -a and -p and
// runs fn against it
func withPretargetingConfig(cmd *cobra.Command, fn func(ctx context.Context, client *rtb.Client, name string) error) error {
	rt := runtimeFrom(cmd)
	id, err := accountID(cmd)
	if err != nil {
		return err
	}
	configID, _ := cmd.Flags().GetString("pretargeting-config-id")
	if err := validate.Var(configID, "required,numeric"); err != nil {
		return fmt.Errorf("invalid --pretargeting-config-id %q: must be numeric", configID)
	}
	client, err := rt.API(cmd.Context())
	if err != nil {
		return err
	}
	return fn(cmd.Context(), client, rtb.PretargetingConfigName(id, configID))
}

// pretargetingFromFlags builds a configuration from the create flags
func pretargetingFromFlags(cmd *cobra.Command) (*rtb.PretargetingConfig, error) {
	flags := cmd.Flags()
	strs := func(name string) []string { v, _ := flags.GetStringSlice(name); return v }
	str := func(name string) string { v, _ := flags.GetString(name); return strings.ToUpper(v) }

	ids := map[string][]int64{}
	for _, name := range []string{
		"included-geo-ids", "excluded-geo-ids",
		"included-user-list-ids", "excluded-user-list-ids",
		"excluded-content-label-ids", "included-mobile-os-ids",
		"included-vertical-ids", "excluded-vertical-ids",
		"included-mobile-app-category-ids", "excluded-mobile-app-category-ids",
	} {
		parsed, err := parseInt64s(name, strs(name))
		if err != nil {
			return nil, err
		}
		ids[name] = parsed
	}

	height, _ := flags.GetInt64("included-creative-dimension-height")
	width, _ := flags.GetInt64("included-creative-dimension-width")
	decile, _ := flags.GetInt32("minimum-viewability-decile")
	if err := validate.Var(decile, "gte=0,lte=10"); err != nil {
		return nil, fmt.Errorf("invalid --minimum-viewability-decile %d: must be between 0 and 10", decile)
	}

	cfg := &rtb.PretargetingConfig{
		DisplayName:                      uniqueName(cmd, "display-name", "TEST_PRETARGETING_CONFIG_"),
		IncludedFormats:                  upper(strs("included-formats")),
		GeoTargeting:                     numericDimension(ids["included-geo-ids"], ids["excluded-geo-ids"]),
		UserListTargeting:                numericDimension(ids["included-user-list-ids"], ids["excluded-user-list-ids"]),
		InterstitialTargeting:            str("interstitial-targeting"),
		AllowedUserTargetingModes:        upper(strs("allowed-user-targeting-modes")),
		ExcludedContentLabelIds:          ids["excluded-content-label-ids"],
		IncludedUserIdTypes:              upper(strs("included-user-id-types")),
		IncludedLanguages:                strs("included-language-codes"),
		IncludedMobileOperatingSystemIds: ids["included-mobile-os-ids"],
		VerticalTargeting:                numericDimension(ids["included-vertical-ids"], ids["excluded-vertical-ids"]),
		IncludedPlatforms:                upper(strs("included-platforms")),
		IncludedEnvironments:             upper(strs("included-environments")),
		WebTargeting:                     stringDimension(str("web-targeting-mode"), strs("web-targeting-urls")),
		PublisherTargeting:               stringDimension(str("publisher-targeting-mode"), strs("publisher-targeting-publisher-ids")),
		MinimumViewabilityDecile:         int64(decile),
	}
	if height > 0 || width > 0 {
		cfg.IncludedCreativeDimensions = []*rtb.CreativeDimensions{{Height: height, Width: width}}
	}

	apps := stringDimension(str("mobile-app-targeting-mode"), strs("mobile-app-targeting-app-ids"))
	categories := numericDimension(ids["included-mobile-app-category-ids"], ids["excluded-mobile-app-category-ids"])
	if apps != nil || categories != nil {
		cfg.AppTargeting = &rtb.AppTargeting{MobileAppTargeting: apps, MobileAppCategoryTargeting: categories}
	}
	return cfg, nil
}

func upper(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(strings.TrimSpace(v))
	}
	return out
}

func addPretargetingFlags(cmd *cobra.Command) {
	addAccountIDFlag(cmd, "Resource ID of the bidder account")
	cmd.Flags().StringP("pretargeting-config-id", "p", "", "Resource ID of the pretargeting configuration")
	cmd.MarkFlagRequired("pretargeting-config-id")
}

func init() {
	biddersCmd.AddCommand(pretargetingCmd)
	for _, c := range []*cobra.Command{
		pretargetingActivateCmd, pretargetingSuspendCmd, pretargetingDeleteCmd,
		pretargetingGetCmd, pretargetingPatchCmd,
	} {
		addPretargetingFlags(c)
		pretargetingCmd.AddCommand(c)
	}
	for _, a := range targetingActions {
		pretargetingCmd.AddCommand(a.command())
	}

	pretargetingCmd.AddCommand(pretargetingListCmd)
	addAccountIDFlag(pretargetingListCmd, "Resource ID of the bidder account")

	pretargetingCmd.AddCommand(pretargetingCreateCmd)
	addAccountIDFlag(pretargetingCreateCmd, "Resource ID of the bidder account")
	cf := pretargetingCreateCmd.Flags()
	cf.StringP("display-name", "d", "", "Display name (default TEST_PRETARGETING_CONFIG_<uuid>)")
	cf.StringSlice("included-formats", nil, "Creative formats to include: HTML, NATIVE or VAST")
	cf.StringSlice("included-geo-ids", nil, "Geo criteria IDs to include")
	cf.StringSlice("excluded-geo-ids", nil, "Geo criteria IDs to exclude")
	cf.StringSlice("included-user-list-ids", nil, "User list IDs to include")
	cf.StringSlice("excluded-user-list-ids", nil, "User list IDs to exclude")
	cf.String("interstitial-targeting", "ONLY_NON_INTERSTITIAL_REQUESTS", "Interstitial targeting")
	cf.StringSlice("allowed-user-targeting-modes", nil, "Allowed user targeting modes")
	cf.StringSlice("excluded-content-label-ids", nil, "Content label IDs to exclude")
	cf.StringSlice("included-user-id-types", nil, "User ID types to include")
	cf.StringSlice("included-language-codes", nil, "Language codes to include")
	cf.StringSlice("included-mobile-os-ids", nil, "Mobile operating system IDs to include")
	cf.StringSlice("included-vertical-ids", nil, "Vertical IDs to include")
	cf.StringSlice("excluded-vertical-ids", nil, "Vertical IDs to exclude")
	cf.StringSlice("included-platforms", nil, "Platforms to include")
	cf.Int64("included-creative-dimension-height", 300, "Height of the included creative dimension")
	cf.Int64("included-creative-dimension-width", 250, "Width of the included creative dimension")
	cf.StringSlice("included-environments", nil, "Environments to include: APP or WEB")
	cf.String("web-targeting-mode", "", "Web targeting mode: INCLUSIVE or EXCLUSIVE")
	cf.StringSlice("web-targeting-urls", nil, "Site URLs for web targeting")
	cf.String("mobile-app-targeting-mode", "", "Mobile app targeting mode: INCLUSIVE or EXCLUSIVE")
	cf.StringSlice("mobile-app-targeting-app-ids", nil, "App IDs for mobile app targeting")
	cf.StringSlice("included-mobile-app-category-ids", nil, "Mobile app category IDs to include")
	cf.StringSlice("excluded-mobile-app-category-ids", nil, "Mobile app category IDs to exclude")
	cf.String("publisher-targeting-mode", "", "Publisher targeting mode: INCLUSIVE or EXCLUSIVE")
	cf.StringSlice("publisher-targeting-publisher-ids", nil, "Publisher IDs for publisher targeting")
	cf.Int32P("minimum-viewability-decile", "m", 5, "Minimum predicted viewability decile, 0 to 10")

	pf := pretargetingPatchCmd.Flags()
	pf.StringP("display-name", "d", "", "New display name (default TEST_PRETARGETING_CONFIG_<uuid>)")
	pf.StringSlice("included-formats", []string{"HTML", "VAST"}, "Creative formats to include")
	pf.StringSlice("included-geo-ids", []string{"200635", "1014448", "1022183", "200622", "1023191", "9061237", "1014221"}, "Geo criteria IDs to include")
	pf.StringSlice("included-creative-dimensions", []string{"480x320", "1080x1920"}, "Creative dimensions to include, as HEIGHTxWIDTH")
}
