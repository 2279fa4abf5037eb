// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	goruntime "runtime"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/quipuswap/farmland/kv"
	"github.com/quipuswap/farmland/log"
	"github.com/quipuswap/farmland/logdb"
	"github.com/quipuswap/farmland/lvldb"
	"github.com/quipuswap/farmland/runtime"
	"github.com/quipuswap/farmland/tez"
)

var (
	propsBucket = kv.Bucket("props/")
	contractKey = []byte("contract")
)

func fatal(args ...any) {
	var w io.Writer
	if goruntime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fatal(fmt.Sprintf(format, args...))
}

func initLogger(ctx *cli.Context) {
	lvl := log.FromVerbosity(ctx.GlobalInt(verbosityFlag.Name))
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		log.SetDefault(log.NewJSONHandler(os.Stderr, lvl))
		return
	}
	fd := os.Stderr.Fd()
	useColor := (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
	log.SetDefault(log.NewTerminalHandler(os.Stderr, lvl, useColor))
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		fatalf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatalf("create data dir at '%v': %v", dataDir, err)
	}
	return dataDir
}

func openMainDB(dataDir string) *lvldb.LevelDB {
	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		fatalf("open main database at '%v': %v", dir, err)
	}
	return db
}

func openLogDB(dataDir string) *logdb.LogDB {
	path := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		fatalf("open log database at '%v': %v", path, err)
	}
	return db
}

// loadContract returns the contract address the store was initialized for.
// found is false for a fresh store.
func loadContract(store kv.Store) (addr tez.Address, found bool, err error) {
	props := propsBucket.NewStore(store)
	data, err := props.Get(contractKey)
	if err != nil {
		if props.IsNotFound(err) {
			return tez.Address{}, false, nil
		}
		return tez.Address{}, false, err
	}
	addr, err = tez.ParseAddress(string(data))
	if err != nil {
		return tez.Address{}, false, errors.Wrap(err, "stored contract")
	}
	return addr, true, nil
}

func saveContract(store kv.Store, addr tez.Address) error {
	return propsBucket.NewStore(store).Put(contractKey, []byte(addr.String()))
}

// instance is an opened data dir.
type instance struct {
	mainDB *lvldb.LevelDB
	logDB  *logdb.LogDB
	rt     *runtime.Runtime
}

func (i *instance) Close() {
	if err := i.logDB.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	if err := i.mainDB.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

// openInstance opens the databases of an initialized data dir.
func openInstance(ctx *cli.Context) *instance {
	dataDir := makeDataDir(ctx)
	mainDB := openMainDB(dataDir)
	addr, found, err := loadContract(mainDB)
	if err != nil {
		mainDB.Close()
		fatal(err)
	}
	if !found {
		mainDB.Close()
		fatalf("data dir '%v' is not initialized, run init first", dataDir)
	}
	logDB := openLogDB(dataDir)
	return &instance{
		mainDB: mainDB,
		logDB:  logDB,
		rt:     runtime.New(mainDB, addr).SetLogDB(logDB),
	}
}

// execCall is one call of an exec file.
type execCall struct {
	Entrypoint string      `yaml:"entrypoint"`
	Sender     tez.Address `yaml:"sender"`
	Now        uint64      `yaml:"now"`
	Amount     *big.Int    `yaml:"amount"`
	Params     yaml.Node   `yaml:"params"`
}

// readCalls decodes a YAML list of calls. Calls without time are executed at now.
func readCalls(r io.Reader, now uint64) ([]*runtime.Call, error) {
	var list []execCall
	if err := yaml.NewDecoder(r).Decode(&list); err != nil {
		if err == io.EOF {
			return nil, errors.New("no calls")
		}
		return nil, errors.Wrap(err, "decode calls")
	}
	calls := make([]*runtime.Call, 0, len(list))
	for i := range list {
		c := &list[i]
		if c.Entrypoint == "" {
			return nil, errors.Errorf("call %d: missing entrypoint", i)
		}
		if c.Sender.IsZero() {
			return nil, errors.Errorf("call %d: missing sender", i)
		}
		call := &runtime.Call{
			Entrypoint: c.Entrypoint,
			Sender:     c.Sender,
			Now:        c.Now,
			Amount:     c.Amount,
			Params:     runtime.YAMLParams(&c.Params),
		}
		if call.Now == 0 {
			call.Now = now
		}
		calls = append(calls, call)
	}
	return calls, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nowOrFlag(ctx *cli.Context, flag cli.Uint64Flag) uint64 {
	if v := ctx.Uint64(flag.Name); v != 0 {
		return v
	}
	return uint64(time.Now().Unix())
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, timeout, `{"error":"request timeout"}`)
}

func listenAPI(ctx *cli.Context) net.Listener {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatalf("listen API addr [%v]: %v", addr, err)
	}
	return listener
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if goruntime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.quipuswap.farmland")
		} else if goruntime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.quipuswap.farmland")
		}
		return filepath.Join(home, ".org.quipuswap.farmland")
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
