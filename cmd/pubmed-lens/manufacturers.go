// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-lens/internal/identity"
	"github.com/pdiddy/pubmed-lens/pkg/types"
)

var manufacturersCmd = &cobra.Command{
	Use:   "manufacturers",
	Short: "Manage manufacturer identity configuration",
	Long: `Manufacturers manages the identity store: the canonical name, display
order, historical name variations, and acquisitions of each tracked
manufacturer. The search and counts commands read this store.`,
}

// --- list subcommand ---

var manufacturersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured manufacturers in display order",
	RunE:  runManufacturersList,
}

func runManufacturersList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	identities, err := store.List()
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(identities)
	}

	if len(identities) == 0 {
		fmt.Println("No manufacturers configured.")
		return nil
	}
	for _, m := range identities {
		fmt.Printf("%d. %s\n", m.DisplayOrder, m.Name)
		for _, v := range m.Variations {
			fmt.Printf("     variation:   %-30s %d-%d\n", v.Name, v.StartYear, v.EndYear)
		}
		for _, a := range m.Acquisitions {
			fmt.Printf("     acquisition: %-30s %d\n", a.Name, a.Year)
		}
	}
	return nil
}

// --- add subcommand ---

var manufacturersAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add or replace a manufacturer",
	Long: `Add creates or replaces a manufacturer identity. Variations take the
form "Name:start:end" and acquisitions "Name:year", both repeatable:

  pubmed-lens manufacturers add Siemens \
      --variation "Siemens Medical Solutions:1999:2008" \
      --acquisition "Varian:2021"`,
	Args: cobra.ExactArgs(1),
	RunE: runManufacturersAdd,
}

func runManufacturersAdd(cmd *cobra.Command, args []string) error {
	m := types.ManufacturerIdentity{Name: strings.TrimSpace(args[0])}
	m.Color, _ = cmd.Flags().GetString("color")
	m.DisplayOrder, _ = cmd.Flags().GetInt("order")

	variations, _ := cmd.Flags().GetStringArray("variation")
	for _, spec := range variations {
		v, err := parseVariation(spec)
		if err != nil {
			return err
		}
		m.Variations = append(m.Variations, v)
	}
	acquisitions, _ := cmd.Flags().GetStringArray("acquisition")
	for _, spec := range acquisitions {
		a, err := parseAcquisition(spec)
		if err != nil {
			return err
		}
		m.Acquisitions = append(m.Acquisitions, a)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Put(m); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", m.Name)
	return nil
}

// parseVariation parses "Name:start:end". The name may itself contain
// colons; the two year fields are taken from the end.
func parseVariation(spec string) (types.NameVariation, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return types.NameVariation{}, fmt.Errorf("invalid variation %q: want Name:start:end", spec)
	}
	start, err1 := strconv.Atoi(parts[len(parts)-2])
	end, err2 := strconv.Atoi(parts[len(parts)-1])
	if err1 != nil || err2 != nil {
		return types.NameVariation{}, fmt.Errorf("invalid variation %q: years must be numeric", spec)
	}
	return types.NameVariation{
		Name:      strings.Join(parts[:len(parts)-2], ":"),
		StartYear: start,
		EndYear:   end,
	}, nil
}

// parseAcquisition parses "Name:year".
func parseAcquisition(spec string) (types.Acquisition, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 {
		return types.Acquisition{}, fmt.Errorf("invalid acquisition %q: want Name:year", spec)
	}
	year, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return types.Acquisition{}, fmt.Errorf("invalid acquisition %q: year must be numeric", spec)
	}
	return types.Acquisition{
		Name: strings.Join(parts[:len(parts)-1], ":"),
		Year: year,
	}, nil
}

// --- remove subcommand ---

var manufacturersRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a manufacturer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

// --- reorder subcommand ---

var manufacturersReorderCmd = &cobra.Command{
	Use:   "reorder [name]...",
	Short: "Set the display order of manufacturers",
	Long: `Reorder assigns display positions 1..n following the argument order.
Manufacturers not named keep their relative order after the named ones.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Reorder(args); err != nil {
			return err
		}
		fmt.Println("Display order updated.")
		return nil
	},
}

// --- shared helpers ---

func openStore() (identity.Store, error) {
	return identity.Open(loadAppConfig().Store)
}

func init() {
	manufacturersListCmd.Flags().Bool("json", false, "output as JSON")

	manufacturersAddCmd.Flags().String("color", "", "display color for charts")
	manufacturersAddCmd.Flags().Int("order", 0, "display order (0 = append at end)")
	manufacturersAddCmd.Flags().StringArray("variation", nil, `name variation "Name:start:end" (repeatable)`)
	manufacturersAddCmd.Flags().StringArray("acquisition", nil, `acquisition "Name:year" (repeatable)`)

	manufacturersCmd.AddCommand(manufacturersListCmd)
	manufacturersCmd.AddCommand(manufacturersAddCmd)
	manufacturersCmd.AddCommand(manufacturersRemoveCmd)
	manufacturersCmd.AddCommand(manufacturersReorderCmd)

	rootCmd.AddCommand(manufacturersCmd)
}
