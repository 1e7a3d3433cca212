// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/nodestake/thor"
)

// DevAccount account for development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{thor.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevConfig returns the solo mode genesis. Account 0 owns every builtin,
// account 1 manages node bindings and claims, accounts 2-4 are the signer
// slots A-C, and accounts 5-7 own the multisig.
func DevConfig() *Config {
	accs := DevAccounts()
	ref := func(i int) Ref { return Ref(accs[i].Address.String()) }

	cfg := &Config{
		ChainID:    thor.DefaultChainID,
		LaunchTime: 1700000000,
		Token: &Token{
			Owner:    ref(0),
			Name:     "Wrapped Token",
			Symbol:   "WTK",
			Decimals: 18,
		},
		Vesting: &Vesting{
			Owner:   ref(0),
			Periods: 12,
		},
		NodeStake: NodeStake{
			Owner:    ref(0),
			Manager:  ref(1),
			MinLimit: NewAmount("1"),
			MaxLimit: NewAmount("0"),
			Terms: []Terms{
				{DepositType: 0, Duration: thor.DefaultDuration, YieldRate: NewAmount("0.36")},
				{DepositType: 1, Duration: 12, YieldRate: NewAmount("0.1")},
			},
		},
		SignedClaim: &SignedClaim{
			Owner:    ref(0),
			Manager:  ref(1),
			Signers:  []Ref{ref(2), ref(3), ref(4)},
			Required: 2,
		},
		Executor: &Executor{
			Owner:   ref(0),
			Signers: []Ref{ref(2), ref(3), ref(4)},
		},
		MultiSig: &MultiSig{
			Owners:   []Ref{ref(5), ref(6), ref(7)},
			Required: 2,
		},
	}
	for i := range accs {
		cfg.Accounts = append(cfg.Accounts, Account{Address: ref(i), Balance: NewAmount("1000000")})
		cfg.Token.Mint = append(cfg.Token.Mint, Account{Address: ref(i), Balance: NewAmount("1000000")})
	}
	cfg.Accounts = append(cfg.Accounts, Account{Address: "SignedClaim", Balance: NewAmount("100000")})
	return cfg
}
