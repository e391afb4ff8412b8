package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/recommend"
	"github.com/pageza/pantrychef/backend/internal/types"
)

func newProposeCmd() *cobra.Command {
	proposeCmd := &cobra.Command{
		Use:   "propose",
		Short: "Rank the recipes of a request file",
		Long: `Rank the recipes in --request against its inventory. The file uses the
body format of POST /api/v1/recommendation/propose and must include
"recipes" and "inventory"; "history" is optional.`,
		Args: cobra.NoArgs,
		RunE: runPropose,
	}
	proposeCmd.Flags().StringP("request", "r", "", "request JSON file (required)")
	proposeCmd.Flags().StringP("config", "c", "", "YAML tuning file; RECOMMEND_* variables override it")
	proposeCmd.Flags().String("now", "", "reference time in RFC3339 (default: current time)")
	proposeCmd.Flags().Bool("pretty", false, "indent the JSON output")
	_ = proposeCmd.MarkFlagRequired("request")
	return proposeCmd
}

func runPropose(cmd *cobra.Command, args []string) error {
	requestPath, _ := cmd.Flags().GetString("request")
	configPath, _ := cmd.Flags().GetString("config")
	nowFlag, _ := cmd.Flags().GetString("now")
	pretty, _ := cmd.Flags().GetBool("pretty")

	tuning, err := config.LoadRecommendation(configPath)
	if err != nil {
		return err
	}
	engine, err := recommend.NewEngine(tuning)
	if err != nil {
		return err
	}

	now := time.Now()
	if nowFlag != "" {
		if now, err = time.Parse(time.RFC3339, nowFlag); err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
	}

	data, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	var req types.ProposeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse request: %w", err)
	}
	if req.MaxTime == nil || req.MaxCalories == nil {
		return errors.New("request must set max_time and max_calories")
	}
	if len(req.Recipes) == 0 {
		return errors.New("request must include recipes")
	}

	recipes, skipped := recommend.VectorizeCatalog(types.ToRawRecipes(req.Recipes), recommend.IdentityResolver)
	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Msg("ignored malformed recipe records")
	}

	loc := engine.Location()
	items := types.ToInventory(req.Inventory, loc)
	profile := engine.BuildProfile(types.ToHistory(req.History, loc), recommend.VectorLookup(recipes), now)

	results := engine.Propose(recommend.Snapshot{
		Recipes:   recipes,
		Inventory: recommend.NewInventory(items),
		Profile:   profile,
		Params:    recommend.NewUserParameters(*req.MaxTime, *req.MaxCalories, req.Allergies),
		Now:       now,
	})

	label := fmt.Sprintf("client inventory: %d items", len(items))
	out := make([]types.ProposalResponse, 0, len(results))
	for _, r := range results {
		out = append(out, types.ProposalResponse{
			ProposalResult:  r,
			InventorySource: "client",
			InventoryCount:  len(items),
			InventoryLabel:  label,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
