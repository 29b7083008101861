// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault/governance"
	"github.com/vechain/stakevault/vault/schedule"
)

func initLogger(ctx *cli.Context) {
	logLevel := ctx.Int(verbosityFlag.Name)
	level := log.FromLegacyLevel(logLevel)
	output := os.Stdout
	useColor := isatty.IsTerminal(output.Fd()) && os.Getenv("TERM") != "dumb"

	var lvl slog.LevelVar
	lvl.Set(level)
	handler := log.NewTerminalHandlerWithLevel(output, &lvl, useColor)
	log.SetDefault(log.NewLogger(handler))
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "org.vechain.stakevault")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "StakeVault")
	default:
		return filepath.Join(home, ".org.vechain.stakevault")
	}
}

func loadSchedule(ctx *cli.Context) (schedule.Schedule, error) {
	path := ctx.String(scheduleFlag.Name)
	if path == "" {
		return nil, errors.New("--schedule required")
	}
	sched, err := schedule.FromYAMLFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "load schedule")
	}
	return sched, nil
}

func loadParams(ctx *cli.Context) (governance.Params, error) {
	params := governance.Params{
		FeeRate:        uint32(ctx.Uint(feeRateFlag.Name)),
		WithdrawWindow: ctx.Uint64(withdrawWindowFlag.Name),
		WithdrawRate:   uint32(ctx.Uint(withdrawRateFlag.Name)),
	}
	if params.FeeRate > stakevault.RateScale {
		return params, errors.Errorf("fee rate exceeds %d", stakevault.RateScale)
	}
	if params.WithdrawRate > stakevault.RateScale {
		return params, errors.Errorf("withdraw rate exceeds %d", stakevault.RateScale)
	}
	if recipient := ctx.String(feeRecipientFlag.Name); recipient != "" {
		addr, err := stakevault.ParseAddress(recipient)
		if err != nil {
			return params, errors.WithMessage(err, "fee recipient")
		}
		params.FeeRecipient = addr
	}
	return params, nil
}
