// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/quipuswap/farmland/api"
	"github.com/quipuswap/farmland/api/farms"
	"github.com/quipuswap/farmland/genesis"
	"github.com/quipuswap/farmland/log"
	"github.com/quipuswap/farmland/metrics"
	"github.com/quipuswap/farmland/runtime"
	"github.com/quipuswap/farmland/tez"
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
		Name:      "Farmland",
		Usage:     "Staking farms ledger for QuipuSwap",
		Copyright: "2025 The Farmland developers",
		Flags: []cli.Flag{
			dataDirFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "Initialize the data dir from a genesis file, or the devnet",
				Flags:  []cli.Flag{genesisFlag, launchTimeFlag},
				Action: initAction,
			},
			{
				Name:      "exec",
				Usage:     "Execute a YAML list of calls as one batch",
				ArgsUsage: "<file|->",
				Action:    execAction,
			},
			{
				Name:      "farm",
				Usage:     "Print a farm",
				ArgsUsage: "<fid>",
				Action:    farmAction,
			},
			{
				Name:      "position",
				Usage:     "Print the position of a holder in a farm",
				ArgsUsage: "<fid> <address>",
				Flags:     []cli.Flag{nowFlag},
				Action:    positionAction,
			},
			{
				Name:  "serve",
				Usage: "Serve the HTTP API",
				Flags: []cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiLogsLimitFlag,
					apiSlowQueriesThresholdFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return genesis.Load(path)
	}
	return genesis.NewDevnet(nowOrFlag(ctx, launchTimeFlag)), nil
}

func initAction(ctx *cli.Context) error {
	initLogger(ctx)

	gen, err := selectGenesis(ctx)
	if err != nil {
		return errors.Wrap(err, "load genesis")
	}
	id, err := gen.ID()
	if err != nil {
		return err
	}

	dataDir := makeDataDir(ctx)
	mainDB := openMainDB(dataDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	addr, found, err := loadContract(mainDB)
	if err != nil {
		return err
	}
	if !found {
		addr = gen.Contract
		if err := saveContract(mainDB, addr); err != nil {
			return errors.Wrap(err, "save contract")
		}
	}

	logDB := openLogDB(dataDir)
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	rt := runtime.New(mainDB, addr).SetLogDB(logDB)
	if err := gen.Build(context.Background(), rt); err != nil {
		return errors.Wrap(err, "build genesis")
	}

	fmt.Printf(`Initialized %v
    Genesis  [ %v ]
    Contract [ %v ]
    Farms    [ %v ]
    Data dir [ %v ]
`,
		gen.Name,
		id,
		addr,
		len(gen.Farms),
		dataDir)
	return nil
}

func execAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.NArg() != 1 {
		return errors.New("exec expects one argument")
	}

	var r io.Reader = os.Stdin
	if path := ctx.Args().First(); path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}
	calls, err := readCalls(r, uint64(time.Now().Unix()))
	if err != nil {
		return err
	}

	inst := openInstance(ctx)
	defer inst.Close()

	receipt, err := inst.rt.ExecuteBatch(context.Background(), calls)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, receipt)
}

func parseFID(s string) (uint64, error) {
	fid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid fid %q", s)
	}
	return fid, nil
}

func farmAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.NArg() != 1 {
		return errors.New("farm expects one argument")
	}
	fid, err := parseFID(ctx.Args().First())
	if err != nil {
		return err
	}

	inst := openInstance(ctx)
	defer inst.Close()

	fm, err := farms.LoadFarm(inst.rt, fid)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, fm)
}

func positionAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.NArg() != 2 {
		return errors.New("position expects two arguments")
	}
	fid, err := parseFID(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	holder, err := tez.ParseAddress(ctx.Args().Get(1))
	if err != nil {
		return err
	}

	inst := openInstance(ctx)
	defer inst.Close()

	pos, err := farms.LoadPosition(inst.rt, fid, holder, nowOrFlag(ctx, nowFlag))
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, pos)
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()
	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	inst := openInstance(ctx)
	defer func() { logger.Info("closing databases..."); inst.Close() }()

	enableAPILogs := &atomic.Bool{}
	enableAPILogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	var handler http.Handler = api.New(inst.rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      enableAPILogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}

	listener := listenAPI(ctx)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	group, groupCtx := errgroup.WithContext(handleExitSignal())
	group.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	fmt.Printf(`Starting %v
    Contract   [ %v ]
    Last call  [ #%v ]
    API portal [ http://%v/ ]
`,
		fullVersion(),
		inst.rt.Address(),
		inst.logDB.LastCall(),
		listener.Addr())

	return group.Wait()
}
