package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/alignleap/internal/dynamics"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the effective engine parameters",
		Long: `Print the engine parameters after applying the config file, or the
built-in defaults with --defaults. Output is YAML that can be pasted under
the params: key of a config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			defaults, _ := cmd.Flags().GetBool("defaults")

			params := dynamics.DefaultParams()
			if !defaults {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				params = cfg.Params
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(params)
			}
			data, err := yaml.Marshal(params)
			if err != nil {
				return fmt.Errorf("failed to marshal params: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().Bool("defaults", false, "Print built-in defaults, ignoring config")
	return cmd
}
