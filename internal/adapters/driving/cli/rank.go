package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
)

var (
	rankItems   []string
	rankCart    string
	rankAddress string
	rankAlpha   float64
	rankJSON    bool
	rankTimeout time.Duration
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank branches for a shopping cart",
	Long: `Ranks the retail branches that can satisfy the whole cart near the
given address. Items are passed as repeated --item "name=qty" flags or as a
JSON file mapping product names to quantities.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringArrayVarP(&rankItems, "item", "i", nil, `cart item as "product=quantity" (repeatable)`)
	rankCmd.Flags().StringVar(&rankCart, "cart", "", "JSON file mapping product names to quantities")
	rankCmd.Flags().StringVarP(&rankAddress, "address", "a", "", "origin address (required)")
	rankCmd.Flags().Float64Var(&rankAlpha, "alpha", 0.5, "price weight in [0,1]; distance gets the rest (default from config)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "output results as JSON")
	rankCmd.Flags().DurationVar(&rankTimeout, "timeout", 2*time.Minute, "overall pipeline timeout")
	rankCmd.MarkFlagRequired("address") //nolint:errcheck
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	cart, err := buildCart(rankItems, rankCart)
	if err != nil {
		return err
	}

	// The config default applies only when the flag is absent, so an
	// explicitly invalid --alpha still reaches validation.
	alpha := cfg.Alpha
	if cmd.Flags().Changed("alpha") {
		alpha = rankAlpha
	}

	ctx, cancel := context.WithTimeout(context.Background(), rankTimeout)
	defer cancel()

	report, err := ranker.Rank(ctx, cart, rankAddress, alpha)
	if err != nil {
		return fmt.Errorf("rank failed: %w", err)
	}

	if rankJSON {
		return outputRankJSON(cmd, report)
	}
	return outputRankTable(cmd, cart, report)
}

// buildCart assembles the cart from --item flags and/or a JSON cart file.
func buildCart(items []string, cartFile string) (domain.Cart, error) {
	cart := domain.Cart{}

	if cartFile != "" {
		data, err := os.ReadFile(cartFile)
		if err != nil {
			return nil, fmt.Errorf("reading cart file: %w", err)
		}
		if err := json.Unmarshal(data, &cart); err != nil {
			return nil, fmt.Errorf("parsing cart file: %w", err)
		}
	}

	for _, item := range items {
		name, qtyStr, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: item %q is not in product=quantity form", domain.ErrInvalidInput, item)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil {
			return nil, fmt.Errorf("%w: item %q has a non-numeric quantity", domain.ErrInvalidInput, item)
		}
		cart[name] = qty
	}

	return cart, nil
}

func outputRankJSON(cmd *cobra.Command, report *domain.RankReport) error {
	payload := struct {
		Results             []rankedJSON `json:"results"`
		RecommendedRemovals []string     `json:"recommended_removals"`
	}{
		Results:             make([]rankedJSON, 0, len(report.Results)),
		RecommendedRemovals: report.RecommendedRemovals,
	}
	if payload.RecommendedRemovals == nil {
		payload.RecommendedRemovals = []string{}
	}

	for _, r := range report.Results {
		row := rankedJSON{
			Store:      r.Branch.Store,
			Address:    r.Branch.Address,
			Total:      r.Total.Float64(),
			DistanceKm: r.DistanceKm,
			Stars:      r.Stars,
			UnitPrices: make(map[string]*float64, len(r.UnitPrices)),
		}
		for product, price := range r.UnitPrices {
			if price != nil {
				v := price.Float64()
				row.UnitPrices[product] = &v
			} else {
				row.UnitPrices[product] = nil
			}
		}
		payload.Results = append(payload.Results, row)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// rankedJSON is the wire shape of one ranked branch.
type rankedJSON struct {
	Store      string              `json:"store"`
	Address    string              `json:"address"`
	Total      float64             `json:"total"`
	DistanceKm float64             `json:"distance_km"`
	Stars      int                 `json:"stars"`
	UnitPrices map[string]*float64 `json:"unit_prices"`
}

func outputRankTable(cmd *cobra.Command, cart domain.Cart, report *domain.RankReport) error {
	if len(report.Results) == 0 {
		cmd.Println("No branches within reach can satisfy this cart.")
	}

	for i, r := range report.Results {
		stars := strings.Repeat("*", r.Stars)
		cmd.Printf("  [%d] %s %s\n", i+1, r.Branch.Store, stars)
		cmd.Printf("      %s (%.1f km)\n", r.Branch.Address, r.DistanceKm)
		cmd.Printf("      Total: %s\n", r.Total)
		for _, product := range cart.Products() {
			if price := r.UnitPrices[product]; price != nil {
				cmd.Printf("        %s: %s/unit\n", product, *price)
			}
		}
		cmd.Println()
	}

	if len(report.RecommendedRemovals) > 0 {
		cmd.Println("Few branches carry the whole cart. Dropping these would widen the choice:")
		for _, product := range report.RecommendedRemovals {
			cmd.Printf("  - %s\n", product)
		}
	}
	return nil
}
