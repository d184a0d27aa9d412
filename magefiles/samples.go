//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const samplesDir = "testdata/cases"

// Samples builds the CLI and prints a text report for every sample case.
func Samples() error {
	mg.Deps(Build)

	cases, err := sampleCases()
	if err != nil {
		return err
	}
	bin := filepath.Join(binDir, binName)
	for _, c := range cases {
		fmt.Printf("== %s\n", filepath.Base(c))
		if err := sh.RunV(bin, "assess", "--format", "text", "--case", c); err != nil {
			return fmt.Errorf("assessing %s: %w", c, err)
		}
		fmt.Println()
	}
	return nil
}

func sampleCases() ([]string, error) {
	return filepath.Glob(filepath.Join(samplesDir, "*.yaml"))
}
