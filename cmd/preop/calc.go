// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/preop-engine/internal/calc"
	"github.com/pdiddy/preop-engine/pkg/types"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run a single perioperative formula",
	Long: `Calc runs one body-weight or blood-volume formula from explicit inputs.
Sex and age group must come from their closed sets; anything else is
rejected.`,
}

// --- ibw subcommand ---

var calcIBWCmd = &cobra.Command{
	Use:   "ibw",
	Short: "Ideal body weight (Devine), plus adjusted body weight when --weight is set",
	RunE: func(cmd *cobra.Command, args []string) error {
		sex, _ := cmd.Flags().GetString("sex")
		heightIn, _ := cmd.Flags().GetFloat64("height-in")
		if heightIn <= 0 {
			return fmt.Errorf("--height-in must be positive")
		}

		ibw, err := calc.IdealBodyWeight(types.Sex(sex), heightIn)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "IBW: %.2f kg\n", ibw)

		if weight, _ := cmd.Flags().GetFloat64("weight"); weight > 0 {
			fmt.Fprintf(out, "ABW: %.2f kg\n", calc.AdjustedBodyWeight(weight, ibw))
		}
		return nil
	},
}

// --- ebv subcommand ---

var calcEBVCmd = &cobra.Command{
	Use:   "ebv",
	Short: "Estimated blood volume",
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, sex, group, err := bloodVolumeInputs(cmd)
		if err != nil {
			return err
		}
		ebv, err := calc.EstimatedBloodVolume(weight, sex, group)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "EBV: %.0f mL\n", ebv)
		return nil
	},
}

// --- mabl subcommand ---

var calcMABLCmd = &cobra.Command{
	Use:   "mabl",
	Short: "Maximum allowable blood loss from hematocrit or hemoglobin",
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, sex, group, err := bloodVolumeInputs(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		lowest, _ := flags.GetFloat64("lowest")
		out := cmd.OutOrStdout()

		switch {
		case flags.Changed("hct"):
			hct, _ := flags.GetFloat64("hct")
			if !flags.Changed("lowest") {
				lowest = cfg.BloodLoss.LowestHct
			}
			v, err := calc.MaxAllowableBloodLossHct(weight, sex, group, hct, lowest)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "MABL (hct): %.1f mL\n", v)
		case flags.Changed("hgb"):
			hgb, _ := flags.GetFloat64("hgb")
			if !flags.Changed("lowest") {
				lowest = cfg.BloodLoss.LowestHgb
			}
			v, err := calc.MaxAllowableBloodLossHgb(weight, sex, group, hgb, lowest)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "MABL (hgb): %.1f mL\n", v)
		default:
			return fmt.Errorf("--hct or --hgb required")
		}

		logger.Debug("computed blood loss", zap.Float64("lowest", lowest))
		return nil
	},
}

// --- shared helpers ---

func bloodVolumeInputs(cmd *cobra.Command) (float64, types.Sex, types.AgeGroup, error) {
	weight, _ := cmd.Flags().GetFloat64("weight")
	if weight <= 0 {
		return 0, "", "", fmt.Errorf("--weight must be positive")
	}
	sex, _ := cmd.Flags().GetString("sex")
	group, _ := cmd.Flags().GetString("age-group")
	return weight, types.Sex(sex), types.AgeGroup(group), nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	calcCmd.PersistentFlags().String("sex", "", "patient sex: male or female")
	calcCmd.PersistentFlags().Float64("weight", 0, "weight in kg")

	calcIBWCmd.Flags().Float64("height-in", 0, "height in inches")

	calcEBVCmd.Flags().String("age-group", "adult", "age group: adult, child, or neonate")

	calcMABLCmd.Flags().String("age-group", "adult", "age group: adult, child, or neonate")
	calcMABLCmd.Flags().Float64("hct", 0, "initial hematocrit, fraction or percent")
	calcMABLCmd.Flags().Float64("hgb", 0, "initial hemoglobin in g/dL")
	calcMABLCmd.Flags().Float64("lowest", 0, "lowest acceptable hct or hgb (default from config)")

	calcCmd.AddCommand(calcIBWCmd)
	calcCmd.AddCommand(calcEBVCmd)
	calcCmd.AddCommand(calcMABLCmd)

	rootCmd.AddCommand(calcCmd)
}
