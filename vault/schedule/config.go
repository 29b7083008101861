// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// config is the YAML descriptor of a schedule. Exactly one of halving or
// periods must be present. Amounts are decimal strings to survive 64-bit
// overflow in YAML integers.
type config struct {
	Start   uint64 `yaml:"start"`
	Halving *struct {
		BaseRate string `yaml:"baseRate"`
		Interval uint64 `yaml:"interval"`
	} `yaml:"halving"`
	Periods []struct {
		Duration uint64 `yaml:"duration"`
		Total    string `yaml:"total"`
	} `yaml:"periods"`
}

// FromYAML builds a schedule from its YAML descriptor.
func FromYAML(data []byte) (Schedule, error) {
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse schedule")
	}

	switch {
	case cfg.Halving != nil && len(cfg.Periods) > 0:
		return nil, errors.New("schedule must be either halving or periods, not both")
	case cfg.Halving != nil:
		baseRate, err := parseAmount(cfg.Halving.BaseRate)
		if err != nil {
			return nil, errors.Wrap(err, "halving baseRate")
		}
		return NewHalving(cfg.Start, baseRate, cfg.Halving.Interval)
	case len(cfg.Periods) > 0:
		periods := make([]Period, len(cfg.Periods))
		for i, p := range cfg.Periods {
			total, err := parseAmount(p.Total)
			if err != nil {
				return nil, errors.Wrapf(err, "period %d total", i)
			}
			periods[i] = Period{Duration: p.Duration, Total: total}
		}
		return NewPeriods(cfg.Start, periods)
	default:
		return nil, errors.New("schedule descriptor is empty")
	}
}

// FromYAMLFile builds a schedule from a YAML descriptor file.
func FromYAMLFile(path string) (Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read schedule file")
	}
	return FromYAML(data)
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("not a decimal amount: %q", s)
	}
	return v, nil
}
