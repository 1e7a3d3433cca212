// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nodestake/api"
	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/chain"
	"github.com/vechain/nodestake/genesis"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/metrics"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "nodestake")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "NodeStake"
	app.Usage = "Node staking builtins for test & dev"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Commands = []cli.Command{
		{
			Name:  "solo",
			Usage: "run the builtins against a local state and serve the API",
			Flags: []cli.Flag{
				genesisFlag,
				dataDirFlag,
				persistFlag,
				apiAddrFlag,
				apiCorsFlag,
				apiSlowQueriesThresholdFlag,
				enableAPILogsFlag,
				verbosityFlag,
				jsonLogsFlag,
				pprofFlag,
				enableMetricsFlag,
			},
			Action: soloAction,
		},
		{
			Name:  "sign",
			Usage: "produce authorization signatures",
			Subcommands: []cli.Command{
				{
					Name:   "bind",
					Usage:  "sign a node binding",
					Flags:  []cli.Flag{keyFlag, chainIDFlag, callerFlag, nodeIDFlag, nonceFlag},
					Action: signBindAction,
				},
				{
					Name:   "claim",
					Usage:  "sign a reward claim",
					Flags:  []cli.Flag{keyFlag, chainIDFlag, amountFlag, beneficiaryFlag, nodeIDFlag, nonceFlag},
					Action: signClaimAction,
				},
				{
					Name:   "execute",
					Usage:  "sign a threshold call",
					Flags:  []cli.Flag{keyFlag, chainIDFlag, toFlag, valueFlag, dataFlag, nonceFlag},
					Action: signExecuteAction,
				},
			},
		},
		{
			Name:   "genesis",
			Usage:  "print the dev genesis config",
			Action: genesisAction,
		},
		{
			Name:      "abi",
			Usage:     "print the ABI of a builtin contract",
			ArgsUsage: "<contract>",
			Action:    abiAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func soloAction(ctx *cli.Context) error {
	initLogger(ctx)
	defer func() { logger.Info("exited") }()

	// lazy metrics bind on first use, so this precedes everything else
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	mainDB, dataDir, err := openMainDB(ctx, gene)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); mainDB.Close() }()

	c, err := chain.New(mainDB, gene)
	if err != nil {
		return err
	}

	enableAPILogs := new(atomic.Bool)
	enableAPILogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler := api.New(c, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      enableAPILogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond, //#nosec G115
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})

	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}

	printSoloStartupMessage(ctx.App.Writer, gene, c, dataDir, "http://"+listener.Addr().String()+"/", ctx.String(genesisFlag.Name) == "")

	g, gctx := errgroup.WithContext(handleExitSignal())
	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func printSoloStartupMessage(w io.Writer, gene *genesis.Genesis, c *chain.Chain, dataDir, apiURL string, dev bool) {
	head := c.Head()

	var owner, signers string
	_ = c.View(func(st *state.State, _ uint64) error {
		if addr, err := builtin.NodeStake.WithState(st).Owner().Get(); err == nil {
			owner = addr.String()
		}
		if addrs, err := builtin.SignedClaim.WithState(st).Signers(); err == nil {
			signers = fmt.Sprint(len(addrs))
		}
		return nil
	})

	fmt.Fprintf(w, `Starting %v
    Chain id      [ %v ]
    Head          [ #%v @%v ]
    Ledger owner  [ %v ]
    Claim signers [ %v ]
    Data dir      [ %v ]
    API portal    [ %v ]
`,
		"NodeStake solo "+fullVersion(),
		gene.ChainID(),
		head.Number, formatTime(head.Time),
		owner,
		signers,
		dataDir,
		apiURL)

	if !dev {
		return
	}
	fmt.Fprintln(w, "    Dev accounts")
	for i, a := range genesis.DevAccounts() {
		fmt.Fprintf(w, "      #%d %v %v\n", i, a.Address, thor.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)))
	}
}

func genesisAction(ctx *cli.Context) error {
	data, err := genesis.DevConfig().Marshal()
	if err != nil {
		return err
	}
	_, err = ctx.App.Writer.Write(data)
	return err
}

func abiAction(ctx *cli.Context) error {
	name := ctx.Args().First()
	c, ok := builtin.Lookup(name)
	if !ok {
		var names []string
		for _, c := range builtin.All() {
			names = append(names, c.Name())
		}
		sort.Strings(names)
		return errors.Errorf("unknown contract %q, one of: %s", name, strings.Join(names, ", "))
	}
	_, err := fmt.Fprintln(ctx.App.Writer, string(c.ABIJSON()))
	return err
}
