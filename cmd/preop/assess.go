// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/preop-engine/internal/parse"
	"github.com/pdiddy/preop-engine/internal/report"
	"github.com/pdiddy/preop-engine/pkg/types"
)

var assessCmd = &cobra.Command{
	Use:   "assess [text...]",
	Short: "Evaluate a patient case and print the full report",
	Long: `Assess extracts structured fields from the procedure name and free text,
then prints the patient record, ASA physical status, comorbidity score,
risk recommendation and any blood-loss estimates the inputs allow.

The case can come from flags, positional text, or a YAML case file
(--case). Flags override values from the case file.`,
	RunE: runAssess,
}

func runAssess(cmd *cobra.Command, args []string) error {
	c, err := caseFromFlags(cmd, args)
	if err != nil {
		return err
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := report.WriteCase(savePath, c); err != nil {
			return err
		}
		logger.Info("saved case", zap.String("path", savePath))
	}

	r, err := report.Build(c, cfg.BloodLoss)
	if err != nil {
		return err
	}

	logger.Debug("assessed case",
		zap.String("asa", r.ASA),
		zap.Int("score", r.Assessment.Score),
		zap.String("risk", string(r.Assessment.RiskCategory)),
		zap.String("systemic_disease", string(r.Patient.SystemicDisease)),
		zap.Bool("calculations", r.Calculations != nil),
	)

	format := types.OutputFormat(viper.GetString("format"))
	return report.Write(cmd.OutOrStdout(), r, format)
}

// caseFromFlags merges the optional case file with the command-line flags.
// An explicit sex or age group outside its closed set is rejected here so
// the formulas never see it.
func caseFromFlags(cmd *cobra.Command, args []string) (types.CaseInput, error) {
	var c types.CaseInput
	flags := cmd.Flags()

	if path, _ := flags.GetString("case"); path != "" {
		loaded, err := report.ReadCase(path)
		if err != nil {
			return c, err
		}
		c = loaded
	}

	if flags.Changed("procedure") {
		c.Procedure, _ = flags.GetString("procedure")
	}
	if flags.Changed("text") {
		c.Text, _ = flags.GetString("text")
	} else if len(args) > 0 {
		c.Text = strings.Join(args, " ")
	}
	if flags.Changed("sex") {
		s, _ := flags.GetString("sex")
		c.Sex = types.Sex(s)
	}
	if flags.Changed("age-group") {
		g, _ := flags.GetString("age-group")
		c.AgeGroup = types.AgeGroup(g)
	}
	if flags.Changed("emergency") {
		c.Emergency, _ = flags.GetBool("emergency")
	}
	if flags.Changed("functional-limitation") {
		c.FunctionalLimitation, _ = flags.GetBool("functional-limitation")
	}
	if flags.Changed("hct") {
		v, _ := flags.GetFloat64("hct")
		c.InitialHct = &v
	}
	if flags.Changed("hgb") {
		v, _ := flags.GetFloat64("hgb")
		c.InitialHgb = &v
	}

	if strings.TrimSpace(c.Procedure) == "" && strings.TrimSpace(c.Text) == "" {
		return c, fmt.Errorf("patient description required: provide text, --text, --procedure, or --case")
	}
	if c.Sex != "" {
		sex, ok := parse.ParseSex(string(c.Sex))
		if !ok {
			return c, fmt.Errorf("invalid sex %q: use male or female", c.Sex)
		}
		c.Sex = sex
	}
	if c.AgeGroup != "" {
		group, ok := parse.ParseAgeGroup(string(c.AgeGroup))
		if !ok {
			return c, fmt.Errorf("invalid age group %q: use adult, child, or neonate", c.AgeGroup)
		}
		c.AgeGroup = group
	}
	return c, nil
}

func addCaseFlags(cmd *cobra.Command) {
	cmd.Flags().String("procedure", "", "procedure name")
	cmd.Flags().String("text", "", "free-text patient description (default: positional arguments)")
	cmd.Flags().String("case", "", "YAML case file")
	cmd.Flags().String("sex", "", "patient sex: male or female")
	cmd.Flags().String("age-group", "", "age group: adult, child, or neonate (default: derived from age)")
	cmd.Flags().Bool("emergency", false, "emergency procedure")
	cmd.Flags().Bool("functional-limitation", false, "patient has a functional limitation")
	cmd.Flags().Float64("hct", 0, "initial hematocrit, fraction or percent")
	cmd.Flags().Float64("hgb", 0, "initial hemoglobin in g/dL")
}

func init() {
	addCaseFlags(assessCmd)
	assessCmd.Flags().String("format", "", "output format: yaml, json, or text (default from config)")
	assessCmd.Flags().String("save", "", "write the merged case to this YAML file")

	rootCmd.AddCommand(assessCmd)
}
