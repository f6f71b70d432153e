// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/maechanneler/patent-query-optimizer/pkg/types"
)

// RunFile is the on-disk YAML representation of one complete run: the
// starting query, the configuration that produced it, the iteration
// history, and the final result set. A saved run can be reloaded and
// inspected without re-querying any collaborator.
type RunFile struct {
	Query   string                  `yaml:"query"`
	Config  RunFileConfig           `yaml:"config"`
	History []types.IterationRecord `yaml:"history"`
	Results []types.PatentRecord    `yaml:"results,omitempty"`
	Summary RunSummary              `yaml:"summary"`
}

// RunFileConfig stores the loop configuration that produced the run.
type RunFileConfig struct {
	Iterations int    `yaml:"iterations"`
	Optimize   bool   `yaml:"optimize"`
	MaxResults int    `yaml:"max_results"`
	Country    string `yaml:"country,omitempty"`
	Language   string `yaml:"language,omitempty"`
}

// RunSummary stores outcome statistics and a timestamp.
type RunSummary struct {
	FinalQuery          string    `yaml:"final_query"`
	CompletedIterations int       `yaml:"completed_iterations"`
	Timestamp           time.Time `yaml:"timestamp"`
}

// WriteRunFile saves a run to a YAML file.
func WriteRunFile(path string, rf RunFile) error {
	if rf.Summary.Timestamp.IsZero() {
		rf.Summary.Timestamp = time.Now()
	}
	rf.Summary.CompletedIterations = len(rf.History)

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously saved run file from disk.
func ReadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	return &rf, nil
}
