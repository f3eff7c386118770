// Package config loads chain files.
//
// A chain file is YAML:
//
//	name: shout
//	initial: 5
//	steps:
//	  - inc
//	  - strconv::itoa
//	  - '|s: string| s + "!"'
//	mode: mixed
//	timeout: 2s
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/ib-77/ropipe/pkg/rop/chain"
	"github.com/ib-77/ropipe/pkg/rop/lambda"
)

var ErrNoSteps = errors.New("config: chain file has no steps")

// ChainFile is the decoded form of a chain file.
type ChainFile struct {
	Name string `mapstructure:"name"`
	// Initial is used as decoded from YAML.
	Initial any `mapstructure:"initial"`
	// InitialExpr is an expression evaluated to the initial value. It wins
	// over Initial.
	InitialExpr string        `mapstructure:"initial_expr"`
	Each        []any         `mapstructure:"each"`
	Steps       []string      `mapstructure:"steps"`
	Mode        string        `mapstructure:"mode"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Workers     int           `mapstructure:"workers"`
}

// Load reads and decodes the chain file at path.
func Load(path string) (*ChainFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain file: %w", err)
	}

	cf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cf, nil
}

// Parse decodes and validates a chain file.
func Parse(data []byte) (*ChainFile, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse chain file: %w", err)
	}

	cf := &ChainFile{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      cf,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode chain file: %w", err)
	}

	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

// Validate checks the fields that decoding cannot.
func (cf *ChainFile) Validate() error {
	if len(cf.Steps) == 0 {
		return ErrNoSteps
	}
	if _, err := chain.ParseMode(cf.Mode); err != nil {
		return err
	}
	if cf.Timeout < 0 {
		return fmt.Errorf("config: negative timeout %s", cf.Timeout)
	}
	if cf.Workers < 0 {
		return fmt.Errorf("config: negative workers %d", cf.Workers)
	}
	return nil
}

// InitialValue returns the value the chain starts from.
func (cf *ChainFile) InitialValue() (any, error) {
	if cf.InitialExpr != "" {
		v, err := lambda.Value(cf.InitialExpr)
		if err != nil {
			return nil, fmt.Errorf("config: initial_expr: %w", err)
		}
		return v, nil
	}
	return cf.Initial, nil
}

// ChainMode returns the parsed mode. Validate has already checked it.
func (cf *ChainFile) ChainMode() chain.Mode {
	m, _ := chain.ParseMode(cf.Mode)
	return m
}
