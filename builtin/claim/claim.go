// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package claim pays node rewards against a threshold of off-chain signatures.
package claim

import (
	"errors"
	"math/big"

	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/sigauth"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

// SignerCount is the number of signer slots.
const SignerCount = 3

var (
	logger = log.WithContext("pkg", "claim")

	slotSigners  = thor.SlotOf("signers")
	slotCanClaim = thor.SlotOf("can-claim")
	slotRequired = thor.SlotOf("required")
	slotClaimed  = thor.SlotOf("claimed")
	slotToken    = thor.SlotOf("token")
)

// DefaultRequired is the number of signatures a claim needs unless configured.
const DefaultRequired = 2

// Beneficiaries resolves the current beneficiary of a node. The claim contract
// reads it from NodeStake by node id.
type Beneficiaries interface {
	BeneficiaryOf(nodeID string) (thor.Address, error)
}

// Asset pays rewards out of the contract balance.
type Asset interface {
	Push(to thor.Address, amount *big.Int) error
	Balance() (*big.Int, error)
}

// Claim implements native methods of the `SignedClaim` contract.
type Claim struct {
	addr     thor.Address
	owner    *ownable.Role
	manager  *ownable.Role
	signers  [SignerCount]*solidity.Address
	canClaim *solidity.Raw[bool]
	required *solidity.Raw[uint64]
	claimed  *solidity.Uint256
	token    *solidity.Address
	nonces   *sigauth.Authority
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Claim {
	sctx := solidity.NewContext(addr, state)
	c := &Claim{
		addr:     addr,
		owner:    ownable.NewOwner(sctx),
		manager:  ownable.NewManager(sctx),
		canClaim: solidity.NewRaw[bool](sctx, slotCanClaim),
		required: solidity.NewRaw[uint64](sctx, slotRequired),
		claimed:  solidity.NewUint256(sctx, slotClaimed),
		token:    solidity.NewAddress(sctx, slotToken),
		nonces:   sigauth.New(sctx, sigauth.PurposeClaim),
	}
	for i := range c.signers {
		c.signers[i] = solidity.NewAddress(sctx, thor.Blake2b(slotSigners.Bytes(), []byte{byte(i)}))
	}
	return c
}

func (c *Claim) Address() thor.Address        { return c.addr }
func (c *Claim) Owner() *ownable.Role         { return c.owner }
func (c *Claim) Manager() *ownable.Role       { return c.manager }
func (c *Claim) CanClaim() (bool, error)      { return c.canClaim.Get() }
func (c *Claim) Claimed() (*big.Int, error)   { return c.claimed.Get() }
func (c *Claim) Token() (thor.Address, error) { return c.token.Get() }
func (c *Claim) IsNonceConsumed(nonce string) (bool, error) {
	return c.nonces.IsConsumed(nonce)
}

// Required returns the signature threshold.
func (c *Claim) Required() (uint64, error) {
	n, err := c.required.Get()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return DefaultRequired, nil
	}
	return n, nil
}

// Signers returns the configured signer of every slot.
func (c *Claim) Signers() ([]thor.Address, error) {
	out := make([]thor.Address, SignerCount)
	for i, s := range c.signers {
		addr, err := s.Get()
		if err != nil {
			return nil, err
		}
		out[i] = addr
	}
	return out, nil
}

// Initialize configures the contract at genesis. A zero token pays native balance.
func (c *Claim) Initialize(owner, manager, token thor.Address, signers []thor.Address, required uint64) error {
	if len(signers) != SignerCount {
		return errors.New("claim: exactly three signers required")
	}
	if required == 0 || required > SignerCount {
		return errors.New("claim: required out of range")
	}
	c.owner.Set(owner)
	c.manager.Set(manager)
	c.token.Set(token)
	for i, s := range signers {
		c.signers[i].Set(s)
	}
	if err := c.required.Set(required); err != nil {
		return err
	}
	return c.canClaim.Set(true)
}

// ClaimWithSignature pays amount to beneficiary when enough signer slots signed
// ClaimDigest(chainID, amount, nodeID, beneficiary, nonce).
func (c *Claim) ClaimWithSignature(
	chainID *big.Int,
	amount *big.Int,
	beneficiary thor.Address,
	nodeID string,
	nonce string,
	sigs [][]byte,
	registry Beneficiaries,
	asset Asset,
) error {
	canClaim, err := c.canClaim.Get()
	if err != nil {
		return err
	}
	if !canClaim {
		return reverts.New("claim stop")
	}
	current, err := registry.BeneficiaryOf(nodeID)
	if err != nil {
		return err
	}
	if current.IsZero() || current != beneficiary {
		return reverts.NewAuthorization("verifyClaimSigner: _beneficiary not good")
	}
	if amount == nil || amount.Sign() <= 0 {
		return reverts.New("verifyClaimSigner: amount not good")
	}
	used, err := c.nonces.IsConsumed(nonce)
	if err != nil {
		return err
	}
	if used {
		return reverts.NewReplay("verifyClaimSigner: signature validation failed")
	}
	signers, err := c.Signers()
	if err != nil {
		return err
	}
	required, err := c.Required()
	if err != nil {
		return err
	}
	hash := sigauth.ClaimDigest(chainID, amount, nodeID, beneficiary, nonce)
	if err := sigauth.VerifyThreshold(hash, sigs, signers, int(required)); err != nil {
		var slotErr *sigauth.SlotError
		if errors.As(err, &slotErr) {
			return reverts.NewAuthorization("verifyClaimSigner: " + slotErr.Error())
		}
		return reverts.NewAuthorization("verifyClaimSigner: signature validation failed")
	}
	balance, err := asset.Balance()
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.NewInsufficientFunds("claim: balance is not enough")
	}

	if err := c.nonces.Consume(nonce); err != nil {
		return err
	}
	if err := c.claimed.Add(amount); err != nil {
		return err
	}
	if err := asset.Push(beneficiary, amount); err != nil {
		return err
	}
	logger.Debug("reward claimed", "beneficiary", beneficiary, "node", nodeID, "amount", amount, "nonce", nonce)
	return nil
}

// SetSigner replaces the signer of slot, owner only.
func (c *Claim) SetSigner(caller thor.Address, slot int, signer thor.Address) error {
	if err := c.owner.Require(caller); err != nil {
		return err
	}
	if slot < 0 || slot >= SignerCount {
		return reverts.New("setSigner: slot not good")
	}
	if signer.IsZero() {
		return reverts.New("setSigner: signer not good")
	}
	c.signers[slot].Set(signer)
	return nil
}

// SetRequired changes the signature threshold, owner only.
func (c *Claim) SetRequired(caller thor.Address, required uint64) error {
	if err := c.owner.Require(caller); err != nil {
		return err
	}
	if required == 0 || required > SignerCount {
		return reverts.New("setRequired: required not good")
	}
	return c.required.Set(required)
}

func (c *Claim) SetCanClaim(caller thor.Address, canClaim bool) error {
	if err := c.owner.Require(caller); err != nil {
		return err
	}
	return c.canClaim.Set(canClaim)
}

func (c *Claim) SetManager(caller, manager thor.Address) error {
	if err := c.owner.Require(caller); err != nil {
		return err
	}
	if manager.IsZero() {
		return reverts.New("setManager: manager not good")
	}
	c.manager.Set(manager)
	return nil
}

func (c *Claim) TransferOwnership(caller, next thor.Address) (thor.Address, error) {
	return c.owner.Transfer(caller, next)
}

// Revoke cancels a claim nonce before it is redeemed, manager only.
func (c *Claim) Revoke(caller thor.Address, nonce string) error {
	if err := c.manager.Require(caller); err != nil {
		return err
	}
	return c.nonces.Consume(nonce)
}
