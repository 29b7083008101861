// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakevault/api"
	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/fortest"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/metrics"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/vault"
	"github.com/vechain/stakevault/vault/rewards"
	"github.com/vechain/stakevault/vault/weights"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "StakeVault",
		Usage:     "weighted-staking reward engine",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			scheduleFlag,
			feeRecipientFlag,
			feeRateFlag,
			withdrawWindowFlag,
			withdrawRateFlag,
			timelockDelayFlag,
			enableMetricsFlag,
			persistFlag,
		},
		Action: soloAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// soloAction runs the engine against in-memory asset doubles, the way
// a dev node runs without a network.
func soloAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	sched, err := loadSchedule(ctx)
	if err != nil {
		return err
	}
	params, err := loadParams(ctx)
	if err != nil {
		return err
	}

	table, err := weights.NewTable(map[stakevault.Class]uint64{
		stakevault.ClassLight:    1,
		stakevault.ClassStandard: 5,
		stakevault.ClassHeavy:    25,
	})
	if err != nil {
		return err
	}

	events, err := openEventDB(ctx)
	if err != nil {
		return err
	}
	defer events.Close()

	tokens := fortest.NewTokenLedger()
	items := fortest.NewItemRegistry()

	v, err := vault.New(state.New(), vault.Options{
		Self:            stakevault.BytesToAddress([]byte("stakevault")),
		Table:           table,
		Schedule:        sched,
		Residue:         rewards.ResidueSweepToFee,
		GovernanceDelay: ctx.Uint64(timelockDelayFlag.Name),
		Params:          params,
		Recorder:        events,
	}, tokens, items)
	if err != nil {
		return err
	}

	srvCloser, err := startAPIServer(ctx, v, events)
	if err != nil {
		return err
	}
	defer srvCloser()

	logger.Info("engine started",
		"schedule-start", sched.Start(),
		"schedule-end", sched.End(),
		"fee-rate", params.FeeRate,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")
	return nil
}

func openEventDB(ctx *cli.Context) (*eventdb.EventDB, error) {
	if !ctx.Bool(persistFlag.Name) {
		return eventdb.NewMem()
	}
	dir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return eventdb.New(filepath.Join(dir, "events.db"))
}

func startAPIServer(ctx *cli.Context, v *vault.Vault, events *eventdb.EventDB) (func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	handler := api.New(v, events, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: true,
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	srv := &http.Server{
		Handler:           http.HandlerFunc(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Error("api server stopped", "err", err)
		}
	}()
	logger.Info("api served", "addr", listener.Addr())

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}, nil
}
