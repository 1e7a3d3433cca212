// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nodestake/genesis"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/lvldb"
	"github.com/vechain/nodestake/thor"
)

func initLogger(ctx *cli.Context) {
	level := log.LevelFromVerbosity(ctx.Int(verbosityFlag.Name))
	log.SetDefault(log.NewHandler(os.Stderr, level, ctx.Bool(jsonLogsFlag.Name)))
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

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".org.vechain.nodestake")
	}
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

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	cfg := genesis.DevConfig()
	if path := ctx.String(genesisFlag.Name); path != "" {
		var err error
		if cfg, err = genesis.Load(path); err != nil {
			return nil, err
		}
	}
	return genesis.New(cfg)
}

func openMainDB(ctx *cli.Context, gene *genesis.Genesis) (*lvldb.LevelDB, string, error) {
	if !ctx.Bool(persistFlag.Name) {
		db, err := lvldb.NewMem()
		if err != nil {
			return nil, "", errors.Wrap(err, "open state database")
		}
		return db, "Memory", nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, "", errors.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%d", gene.ChainID()))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return nil, "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	path := filepath.Join(instanceDir, "state.db")
	db, err := lvldb.New(path, lvldb.Options{CacheSize: 128, OpenFilesCacheCapacity: 64})
	if err != nil {
		return nil, "", errors.Wrapf(err, "open state database [%v]", path)
	}
	return db, instanceDir, nil
}

func parseKey(s string) (*ecdsa.PrivateKey, thor.Address, error) {
	if s == "" {
		return nil, thor.Address{}, errors.Errorf("missing -%s", keyFlag.Name)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, thor.Address{}, errors.Wrap(err, "key")
	}
	return key, thor.Address(crypto.PubkeyToAddress(key.PublicKey)), nil
}

func parseAddress(s string, flag string) (thor.Address, error) {
	if s == "" {
		return thor.Address{}, errors.Errorf("missing -%s", flag)
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, errors.WithMessage(err, flag)
	}
	return *addr, nil
}

// parseEther converts a decimal ether amount into wei.
func parseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "amount %q", s)
	}
	if d.IsNegative() {
		return nil, errors.Errorf("amount %s is negative", d)
	}
	wei := d.Shift(18)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, errors.Errorf("amount %s has more than 18 decimals", d)
	}
	return wei.BigInt(), nil
}

// formatEther renders wei as a decimal ether amount.
func formatEther(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -18).String()
}

func formatTime(t uint64) string {
	return time.Unix(int64(t), 0).UTC().Format(time.RFC3339) //#nosec G115
}
