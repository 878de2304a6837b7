package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/alignleap/internal/ranking"
	"github.com/nvandessel/alignleap/internal/visualization"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Visualize the learned inertia graph",
		Long: `Run the configured simulation, then output the final inertia graph in
DOT (Graphviz) or JSON format. Nodes carry a kappa-weighted PageRank.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			minKappa, _ := cmd.Flags().GetFloat64("min-kappa")

			f, err := visualization.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applySimulationFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			sc, err := buildScenario(cfg, "graph")
			if err != nil {
				return err
			}
			sc.DiscardSteps = true

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			res, err := execute(ctx, cfg, sc, newLogger(cmd, cfg))
			if err != nil {
				return fmt.Errorf("simulation: %w", err)
			}

			opts := visualization.Options{
				MinKappa: minKappa,
				Rank:     ranking.ComputePageRank(res.Final, ranking.DefaultPageRankConfig()),
			}

			switch f {
			case visualization.FormatDOT:
				fmt.Fprint(cmd.OutOrStdout(), visualization.RenderDOT(res.Final, opts))

			case visualization.FormatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(visualization.RenderJSON(res.Final, opts)); err != nil {
					return fmt.Errorf("encode JSON: %w", err)
				}
			}
			return nil
		},
	}

	addSimulationFlags(cmd)
	cmd.Flags().String("format", "dot", "Output format: dot or json")
	cmd.Flags().Float64("min-kappa", 0, "Hide edges with kappa at or below this value")

	return cmd
}
