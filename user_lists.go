package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	rtb "rtbsamples/internal/realtimebidding"
	"rtbsamples/internal/validate"
)

var restrictionTypes = []string{
	"CONTAINS", "EQUALS", "STARTS_WITH", "ENDS_WITH",
	"DOES_NOT_EQUAL", "DOES_NOT_CONTAIN", "DOES_NOT_START_WITH", "DOES_NOT_END_WITH",
}

var userListsCmd = &cobra.Command{
	Use:   "user-lists",
	Short: "Remarketing user lists of a buyer",
}

var userListsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a user list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		name, err := userListName(cmd)
		if err != nil {
			return err
		}
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		list, err := client.GetUserList(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to get user list %s: %w", name, err)
		}

		rt.out.Printf("Get user list with name '%s':\n", name)
		return rt.out.Print(list)
	},
}

var userListsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user lists of a buyer",
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

		rt.out.Printf("Listing user lists for buyer account ID '%s':\n", id)
		return printAll(cmd, "userLists", client.UserListPages(rtb.BuyerName(id)), "No user lists found.")
	},
}

var userListsCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Stop a user list from collecting new members",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		name, err := userListName(cmd)
		if err != nil {
			return err
		}
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		rt.out.Printf("Closing user list with name '%s':\n", name)
		list, err := client.CloseUserList(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to close user list %s: %w", name, err)
		}
		return rt.out.Print(list)
	},
}

var userListsOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Let a closed user list collect members again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		name, err := userListName(cmd)
		if err != nil {
			return err
		}
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		rt.out.Printf("Opening user list with name '%s':\n", name)
		list, err := client.OpenUserList(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to open user list %s: %w", name, err)
		}
		return rt.out.Print(list)
	},
}

var userListsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user list with a URL restriction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		id, err := accountID(cmd)
		if err != nil {
			return err
		}
		restriction, err := urlRestrictionFromFlags(cmd)
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		days, _ := cmd.Flags().GetInt64("membership-duration-days")
		if err := validate.Var(days, "gte=0,lte=540"); err != nil {
			return fmt.Errorf("invalid --membership-duration-days %d: must be between 0 and 540", days)
		}

		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		rt.out.Printf("Creating user list for buyer account ID '%s':\n", id)
		created, err := client.CreateUserList(cmd.Context(), rtb.BuyerName(id), &rtb.UserList{
			DisplayName:            uniqueName(cmd, "display-name", "Test_UserList_"),
			Description:            description,
			MembershipDurationDays: days,
			UrlRestriction:         restriction,
		})
		if err != nil {
			return fmt.Errorf("failed to create user list: %w", err)
		}
		return rt.out.Print(created)
	},
}

var userListsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a user list's name, description and URL restriction",
	Long: `Fetches the user list, replaces its display name and URL restriction with
the flag values, and writes the whole list back. The description and membership
duration are kept unless their flags are set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := runtimeFrom(cmd)
		name, err := userListName(cmd)
		if err != nil {
			return err
		}
		restriction, err := urlRestrictionFromFlags(cmd)
		if err != nil {
			return err
		}
		client, err := rt.API(cmd.Context())
		if err != nil {
			return err
		}

		list, err := client.GetUserList(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to get user list %s: %w", name, err)
		}

		flags := cmd.Flags()
		list.DisplayName = uniqueName(cmd, "display-name", "Test_UserList_")
		list.UrlRestriction = restriction
		if flags.Changed("description") {
			list.Description, _ = flags.GetString("description")
		}
		if flags.Changed("membership-duration-days") {
			list.MembershipDurationDays, _ = flags.GetInt64("membership-duration-days")
		}

		rt.out.Printf("Updating user list with name '%s':\n", name)
		updated, err := client.UpdateUserList(cmd.Context(), name, list)
		if err != nil {
			return fmt.Errorf("failed to update user list %s: %w", name, err)
		}
		return rt.out.Print(updated)
	},
}

func userListName(cmd *cobra.Command) (string, error) {
	id, err := accountID(cmd)
	if err != nil {
		return "", err
	}
	listID, _ := cmd.Flags().GetString("user-list-id")
	if err := validate.Var(listID, "required,numeric"); err != nil {
		return "", fmt.Errorf("invalid --user-list-id %q: must be numeric", listID)
	}
	return rtb.UserListName(id, listID), nil
}

// urlRestrictionFromFlags reads --url, --restriction-type and the date range.
// Dates default to today and tomorrow.
func urlRestrictionFromFlags(cmd *cobra.Command) (*rtb.UrlRestriction, error) {
	flags := cmd.Flags()
	url, _ := flags.GetString("url")
	restrictionType, _ := flags.GetString("restriction-type")
	restrictionType = strings.ToUpper(restrictionType)
	if err := validate.Var(restrictionType, "oneof="+strings.Join(restrictionTypes, " ")); err != nil {
		return nil, fmt.Errorf("invalid --restriction-type %q: must be one of %s",
			restrictionType, strings.Join(restrictionTypes, ", "))
	}

	today := time.Now()
	start, err := dateFlag(cmd, "start-date", today)
	if err != nil {
		return nil, err
	}
	end, err := dateFlag(cmd, "end-date", today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if rtb.DateTime(end).Before(rtb.DateTime(start)) {
		return nil, fmt.Errorf("--end-date %s is before --start-date %s", rtb.FormatDate(end), rtb.FormatDate(start))
	}

	return &rtb.UrlRestriction{
		Url:             url,
		RestrictionType: restrictionType,
		StartDate:       start,
		EndDate:         end,
	}, nil
}

func dateFlag(cmd *cobra.Command, flag string, fallback time.Time) (*rtb.Date, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v == "" {
		return rtb.DateFromTime(fallback), nil
	}
	d, err := rtb.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return d, nil
}

func addUserListFields(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("display-name", "n", "", "Display name (default Test_UserList_<uuid>)")
	flags.StringP("description", "d", "", "Description of the user list")
	flags.String("url", "https://luxurymarscruises.com", "URL the restriction applies to")
	flags.StringP("restriction-type", "r", "EQUALS", "URL restriction type: "+strings.Join(restrictionTypes, ", "))
	flags.String("start-date", "", "First day of the restriction as YYYY/MM/DD (default today)")
	flags.String("end-date", "", "Last day of the restriction as YYYY/MM/DD (default tomorrow)")
	flags.Int64("membership-duration-days", 30, "Days a user stays on the list")
}

func init() {
	buyersCmd.AddCommand(userListsCmd)
	userListsCmd.AddCommand(userListsCloseCmd)
	userListsCmd.AddCommand(userListsCreateCmd)
	userListsCmd.AddCommand(userListsGetCmd)
	userListsCmd.AddCommand(userListsListCmd)
	userListsCmd.AddCommand(userListsOpenCmd)
	userListsCmd.AddCommand(userListsUpdateCmd)

	for _, c := range userListsCmd.Commands() {
		addAccountIDFlag(c, "Resource ID of the buyer account")
	}
	for _, c := range []*cobra.Command{userListsCloseCmd, userListsGetCmd, userListsOpenCmd, userListsUpdateCmd} {
		c.Flags().StringP("user-list-id", "u", "", "Resource ID of the user list")
		c.MarkFlagRequired("user-list-id")
	}

	addUserListFields(userListsCreateCmd)
	addUserListFields(userListsUpdateCmd)
}
