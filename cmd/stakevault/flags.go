// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the operation history database",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8569",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	scheduleFlag = cli.StringFlag{
		Name:  "schedule",
		Usage: "path to the emission schedule YAML file",
	}
	feeRecipientFlag = cli.StringFlag{
		Name:  "fee-recipient",
		Usage: "address receiving skimmed emission fees",
	}
	feeRateFlag = cli.UintFlag{
		Name:  "fee-rate",
		Value: 0,
		Usage: "fee rate in basis points of RateScale",
	}
	withdrawWindowFlag = cli.Uint64Flag{
		Name:  "withdraw-window",
		Value: 0,
		Usage: "early-withdrawal limit window in seconds after schedule start",
	}
	withdrawRateFlag = cli.UintFlag{
		Name:  "withdraw-rate",
		Value: 10000,
		Usage: "fraction of lifetime reward withdrawable inside the window, in basis points",
	}
	timelockDelayFlag = cli.Uint64Flag{
		Name:  "timelock-delay",
		Value: 86400,
		Usage: "governance timelock delay in seconds",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "serve prometheus metrics on /metrics",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "persist operation history on disk instead of memory",
	}
)
