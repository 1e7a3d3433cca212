// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/thor"
)

// Config describes the initial state of a chain.
type Config struct {
	ChainID     uint64       `yaml:"chainId"`
	LaunchTime  uint64       `yaml:"launchTime"`
	Accounts    []Account    `yaml:"accounts"`
	Token       *Token       `yaml:"token,omitempty"`
	Vesting     *Vesting     `yaml:"vesting,omitempty"`
	NodeStake   NodeStake    `yaml:"nodeStake"`
	SignedClaim *SignedClaim `yaml:"signedClaim,omitempty"`
	Executor    *Executor    `yaml:"executor,omitempty"`
	MultiSig    *MultiSig    `yaml:"multiSig,omitempty"`
}

// Account is a native balance allocation.
type Account struct {
	Address Ref    `yaml:"address"`
	Balance Amount `yaml:"balance"`
}

type Token struct {
	Owner    Ref       `yaml:"owner"`
	Name     string    `yaml:"name"`
	Symbol   string    `yaml:"symbol"`
	Decimals uint8     `yaml:"decimals"`
	Mint     []Account `yaml:"mint,omitempty"`
}

type Vesting struct {
	Owner   Ref    `yaml:"owner"`
	Periods uint64 `yaml:"periods"`
}

type NodeStake struct {
	Owner        Ref         `yaml:"owner"`
	Manager      Ref         `yaml:"manager"`
	UseToken     bool        `yaml:"useToken,omitempty"`
	UseVault     bool        `yaml:"useVault,omitempty"`
	MinLimit     Amount      `yaml:"minLimit"`
	MaxLimit     Amount      `yaml:"maxLimit"`
	Terms        []Terms     `yaml:"terms,omitempty"`
	ReleaseTable []Milestone `yaml:"releaseTable,omitempty"`
	// StakingToken issues a receipt token owned by the ledger for every deposit.
	StakingToken *StakingToken `yaml:"stakingToken,omitempty"`
}

type StakingToken struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals uint8  `yaml:"decimals"`
}

// Terms configures a deposit type. YieldRate is a fraction, 0.36 for 36%.
type Terms struct {
	DepositType uint8  `yaml:"depositType"`
	Duration    uint64 `yaml:"duration"`
	YieldRate   Amount `yaml:"yieldRate"`
}

type Milestone struct {
	Periods  uint64 `yaml:"periods"`
	Permille uint64 `yaml:"permille"`
}

// SignedClaim pays in the same asset as NodeStake.
type SignedClaim struct {
	Owner    Ref    `yaml:"owner"`
	Manager  Ref    `yaml:"manager"`
	Signers  []Ref  `yaml:"signers"`
	Required uint64 `yaml:"required"`
}

type Executor struct {
	Owner   Ref   `yaml:"owner"`
	Signers []Ref `yaml:"signers"`
}

type MultiSig struct {
	Owners   []Ref  `yaml:"owners"`
	Required uint64 `yaml:"required"`
}

// Ref is a hex address or the name of a builtin contract.
type Ref string

// Resolve returns the address referenced by r.
func (r Ref) Resolve() (thor.Address, error) {
	if c, ok := builtin.Lookup(string(r)); ok {
		return c.Address, nil
	}
	addr, err := thor.ParseAddress(string(r))
	if err != nil {
		return thor.Address{}, errors.Wrapf(err, "address %q", string(r))
	}
	return *addr, nil
}

func resolveAll(refs []Ref) ([]thor.Address, error) {
	addrs := make([]thor.Address, 0, len(refs))
	for _, r := range refs {
		addr, err := r.Resolve()
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// Amount is a decimal quantity scaled by 1e18, so "1.5" is 1.5 ether.
type Amount struct {
	decimal.Decimal
}

// NewAmount makes an Amount from a decimal string, panicking on bad input.
func NewAmount(s string) Amount {
	return Amount{decimal.RequireFromString(s)}
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d: amount", node.Line)
	}
	a.Decimal = d
	return nil
}

func (a Amount) MarshalYAML() (any, error) {
	return a.String(), nil
}

// Wei returns the amount in base units.
func (a Amount) Wei() (*big.Int, error) {
	if a.IsNegative() {
		return nil, errors.Errorf("amount %s is negative", a)
	}
	wei := a.Shift(18)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, errors.Errorf("amount %s has more than 18 decimals", a)
	}
	return wei.BigInt(), nil
}

// Parse decodes a YAML genesis config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse genesis")
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = thor.DefaultChainID
	}
	return &cfg, nil
}

// Load reads a YAML genesis config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
