// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/preop-engine/internal/assess"
	"github.com/pdiddy/preop-engine/internal/parse"
)

var asaCmd = &cobra.Command{
	Use:   "asa [text...]",
	Short: "Print the ASA physical status for a patient description",
	Long: `ASA extracts the disease tier and mortality flags from the procedure
name and free text and prints the ASA physical status, with an E suffix
for emergency cases.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := caseFromFlags(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), assess.ClassifyASA(parse.ExtractCase(c)))
		return nil
	},
}

func init() {
	addCaseFlags(asaCmd)
	rootCmd.AddCommand(asaCmd)
}
