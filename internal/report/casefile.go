// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/preop-engine/pkg/types"
)

// ReadCase loads a patient case from a YAML file.
func ReadCase(path string) (types.CaseInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CaseInput{}, fmt.Errorf("reading case file: %w", err)
	}
	var c types.CaseInput
	if err := yaml.Unmarshal(data, &c); err != nil {
		return types.CaseInput{}, fmt.Errorf("parsing case file %s: %w", path, err)
	}
	if strings.TrimSpace(c.Procedure) == "" && strings.TrimSpace(c.Text) == "" {
		return types.CaseInput{}, fmt.Errorf("case file %s: procedure or text required", path)
	}
	return c, nil
}

// WriteCase saves a patient case to a YAML file so it can be re-run later.
func WriteCase(path string, c types.CaseInput) error {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return fmt.Errorf("marshaling case: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
