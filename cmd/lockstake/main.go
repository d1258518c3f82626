// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockstake/api"
	"github.com/vechain/lockstake/kv"
	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/log"
	"github.com/vechain/lockstake/logdb"
	"github.com/vechain/lockstake/lvldb"
	"github.com/vechain/lockstake/metrics"
)

const appName = "lockstake"

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

func fullName() string {
	return fmt.Sprintf("%s %s", appName, fullVersion())
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      appName,
		Usage:     "Ledger of the lock staking contract",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			genesisFlag,
			devFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			skipLogsFlag,
			verifyLogsFlag,
			accountingFlag,
			priceMaxAgeFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			disableNTPFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if !ctx.Bool(disableNTPFlag.Name) {
		go checkClockOffset()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	opts, err := ledgerOptions(ctx)
	if err != nil {
		return err
	}

	var (
		mainDB      kv.Store
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(devFlag.Name) && !ctx.Bool(persistFlag.Name) {
		instanceDir = "Memory"
		if mainDB, err = lvldb.NewMem(); err != nil {
			return err
		}
		if !ctx.Bool(skipLogsFlag.Name) {
			if logDB, err = logdb.NewMem(); err != nil {
				return err
			}
		}
	} else {
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		if mainDB, err = openMainDB(ctx, instanceDir); err != nil {
			return err
		}
		if !ctx.Bool(skipLogsFlag.Name) {
			if logDB, err = openLogDB(instanceDir); err != nil {
				return err
			}
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	l, err := ledger.New(mainDB, gene, logDB, opts)
	if err != nil {
		return errors.WithMessage(err, "open ledger")
	}
	if logDB != nil {
		if err := syncLogDB(exitSignal, l, logDB, ctx.Bool(verifyLogsFlag.Name)); err != nil {
			return err
		}
	}

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.Init()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	handler := api.New(l, logDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      ctx.Bool(enableAPILogsFlag.Name),
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})
	apiURL, closeAPI, err := startAPIServer(ctx, handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); closeAPI() }()

	printStartupMessage(gene, l, opts, instanceDir, apiURL, metricsURL)

	<-exitSignal.Done()
	return nil
}
