package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rtbsamples/internal/printer"
	rtb "rtbsamples/internal/realtimebidding"
	"rtbsamples/internal/validate"
)

func addAccountIDFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringP("account-id", "a", "", usage)
}

// accountID returns --account-id, falling back to the configured account
func accountID(cmd *cobra.Command) (string, error) {
	id, _ := cmd.Flags().GetString("account-id")
	if id == "" {
		if rt := runtimeFrom(cmd); rt != nil {
			id = rt.cfg.AccountID
		}
	}
	if id == "" {
		return "", fmt.Errorf("--account-id is required")
	}
	if err := validate.Var(id, "numeric"); err != nil {
		return "", fmt.Errorf("invalid --account-id %q: must be numeric", id)
	}
	return id, nil
}

// uniqueName returns flag's value, or prefix followed by a random UUID
func uniqueName(cmd *cobra.Command, flag, prefix string) string {
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v
	}
	return prefix + uuid.NewString()
}

func parseInt64s(flag string, values []string) ([]int64, error) {
	return parseInts(flag, values, 64)
}

// parseInt32s parses IDs that the API defines as int32. Out of range values
// are rejected rather than wrapped.
func parseInt32s(flag string, values []string) ([]int64, error) {
	return parseInts(flag, values, 32)
}

func parseInts(flag string, values []string, bitSize int) ([]int64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]int64, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, bitSize)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s value %q: %w", flag, v, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseDimensions parses HEIGHTxWIDTH pairs such as "480x320"
func parseDimensions(flag string, values []string) ([]*rtb.CreativeDimensions, error) {
	var out []*rtb.CreativeDimensions
	for _, v := range values {
		h, w, ok := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "x")
		if !ok {
			return nil, fmt.Errorf("invalid --%s value %q: want HEIGHTxWIDTH", flag, v)
		}
		height, err := strconv.ParseInt(h, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s height %q: %w", flag, h, err)
		}
		width, err := strconv.ParseInt(w, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s width %q: %w", flag, w, err)
		}
		out = append(out, &rtb.CreativeDimensions{Height: height, Width: width})
	}
	return out, nil
}

func numericDimension(included, excluded []int64) *rtb.NumericTargetingDimension {
	if len(included) == 0 && len(excluded) == 0 {
		return nil
	}
	return &rtb.NumericTargetingDimension{IncludedIds: included, ExcludedIds: excluded}
}

func stringDimension(mode string, values []string) *rtb.StringTargetingDimension {
	if mode == "" && len(values) == 0 {
		return nil
	}
	return &rtb.StringTargetingDimension{TargetingMode: mode, Values: values}
}

// printAll walks every page from list and prints each item. JSON output is
// a single array of all items.
func printAll[T any](cmd *cobra.Command, resource string, list rtb.Lister[T], empty string) error {
	rt := runtimeFrom(cmd)
	ctx := cmd.Context()

	if rt.out.Format() == printer.FormatJSON {
		items, err := rtb.All(ctx, resource, list)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", resource, err)
		}
		if items == nil {
			items = []*T{}
		}
		return rt.out.JSON(items)
	}

	n := 0
	err := rtb.Each(ctx, resource, list, func(item *T) error {
		n++
		return rt.out.Print(item)
	})
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", resource, err)
	}
	if n == 0 {
		rt.out.Printf("%s\n", empty)
	}
	return nil
}
