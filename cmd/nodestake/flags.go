// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nodestake/thor"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the state database",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "save state to disk under data-dir instead of memory",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a genesis YAML file, the dev config is used when unset",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "all queries with duration (in milliseconds) higher than this threshold will be logged",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection, served on the API at /metrics",
	}

	// sign flags
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex encoded private key of the signer",
	}
	chainIDFlag = cli.Uint64Flag{
		Name:  "chain-id",
		Value: thor.DefaultChainID,
		Usage: "chain id the signature is bound to",
	}
	nodeIDFlag = cli.StringFlag{
		Name:  "node-id",
		Usage: "external node id",
	}
	nonceFlag = cli.StringFlag{
		Name:  "nonce",
		Usage: "single-use nonce",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address allowed to submit the binding",
	}
	beneficiaryFlag = cli.StringFlag{
		Name:  "beneficiary",
		Usage: "address receiving the claimed amount",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "claimed amount in ether, e.g. 1.5",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "target address of the call",
	}
	valueFlag = cli.StringFlag{
		Name:  "value",
		Value: "0",
		Usage: "value forwarded with the call, in ether",
	}
	dataFlag = cli.StringFlag{
		Name:  "data",
		Value: "0x",
		Usage: "hex encoded call data",
	}
)
