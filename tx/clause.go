// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/lockstake/lockstake"
)

// Op is the operation a clause invokes.
type Op uint8

const (
	OpTransfer Op = iota + 1
	OpAssetOptIn
	OpOptIn
	OpConfigure
	OpStake
	OpUnstake
	OpRestake
	OpWithdraw
	OpUpdateSettings
	OpUpdateAdmin
	OpUpdatePrice
)

var opNames = map[Op]string{
	OpTransfer:       "transfer",
	OpAssetOptIn:     "assetOptIn",
	OpOptIn:          "optIn",
	OpConfigure:      "configure",
	OpStake:          "stake",
	OpUnstake:        "unstake",
	OpRestake:        "restake",
	OpWithdraw:       "withdraw",
	OpUpdateSettings: "updateSettings",
	OpUpdateAdmin:    "updateAdmin",
	OpUpdatePrice:    "updatePrice",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Valid returns whether op is a known operation.
func (op Op) Valid() bool {
	_, ok := opNames[op]
	return ok
}

// ParseOp resolves an operation by its name.
func ParseOp(name string) (Op, error) {
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown op %q", name)
}

// Settings is the interest curve carried by an update settings clause.
type Settings struct {
	SlopeStart  uint64 `json:"slopeStart"`
	SlopeEnd    uint64 `json:"slopeEnd"`
	LengthStart uint64 `json:"lengthStart"`
	LengthEnd   uint64 `json:"lengthEnd"`
}

type clauseBody struct {
	Op       Op
	Asset    lockstake.AssetID
	Reward   lockstake.AssetID
	Amount   uint64
	Length   uint64
	To       lockstake.Address
	Settings Settings
}

// Clause is the basic execution unit of a batch.
type Clause struct {
	body clauseBody
}

// NewTransfer moves amount of asset from the batch origin to the recipient.
func NewTransfer(asset lockstake.AssetID, to lockstake.Address, amount uint64) *Clause {
	return &Clause{clauseBody{Op: OpTransfer, Asset: asset, To: to, Amount: amount}}
}

// NewAssetOptIn registers the origin as a holder of asset.
func NewAssetOptIn(asset lockstake.AssetID) *Clause {
	return &Clause{clauseBody{Op: OpAssetOptIn, Asset: asset}}
}

// NewOptIn creates the origin's staking account.
func NewOptIn() *Clause {
	return &Clause{clauseBody{Op: OpOptIn}}
}

// NewConfigure performs the one-time staking contract configuration.
// It must directly follow the native funding transfer.
func NewConfigure(asset, reward lockstake.AssetID) *Clause {
	return &Clause{clauseBody{Op: OpConfigure, Asset: asset, Reward: reward}}
}

// NewStake locks the principal transferred by the preceding clause for length days.
func NewStake(asset lockstake.AssetID, length uint64) *Clause {
	return &Clause{clauseBody{Op: OpStake, Asset: asset, Length: length}}
}

// NewUnstake pays out an unlocked stake.
func NewUnstake(asset, reward lockstake.AssetID) *Clause {
	return &Clause{clauseBody{Op: OpUnstake, Asset: asset, Reward: reward}}
}

// NewRestake folds an unlocked stake and its reward into a new stake.
func NewRestake(asset lockstake.AssetID, length uint64) *Clause {
	return &Clause{clauseBody{Op: OpRestake, Asset: asset, Length: length}}
}

// NewWithdraw moves free contract balance to the admin.
func NewWithdraw(asset lockstake.AssetID, amount uint64) *Clause {
	return &Clause{clauseBody{Op: OpWithdraw, Asset: asset, Amount: amount}}
}

// NewUpdateSettings replaces the interest curve.
func NewUpdateSettings(settings Settings) *Clause {
	return &Clause{clauseBody{Op: OpUpdateSettings, Settings: settings}}
}

// NewUpdateAdmin hands the admin role to another address.
func NewUpdateAdmin(admin lockstake.Address) *Clause {
	return &Clause{clauseBody{Op: OpUpdateAdmin, To: admin}}
}

// NewUpdatePrice publishes a price for asset. Only the feeder may send it.
func NewUpdatePrice(asset lockstake.AssetID, price uint64) *Clause {
	return &Clause{clauseBody{Op: OpUpdatePrice, Asset: asset, Amount: price}}
}

// Op returns the invoked operation.
func (c *Clause) Op() Op {
	return c.body.Op
}

// Asset returns the primary asset argument.
func (c *Clause) Asset() lockstake.AssetID {
	return c.body.Asset
}

// Reward returns the reward asset argument.
func (c *Clause) Reward() lockstake.AssetID {
	return c.body.Reward
}

// Amount returns the amount argument, the price for OpUpdatePrice.
func (c *Clause) Amount() uint64 {
	return c.body.Amount
}

// Length returns the lock length in days.
func (c *Clause) Length() uint64 {
	return c.body.Length
}

// To returns the recipient or the new admin.
func (c *Clause) To() lockstake.Address {
	return c.body.To
}

// Settings returns the interest curve argument.
func (c *Clause) Settings() Settings {
	return c.body.Settings
}

// EncodeRLP implements rlp.Encoder.
func (c *Clause) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

// DecodeRLP implements rlp.Decoder.
func (c *Clause) DecodeRLP(s *rlp.Stream) error {
	var body clauseBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*c = Clause{body}
	return nil
}

func (c *Clause) String() string {
	b := c.body
	switch b.Op {
	case OpTransfer:
		return fmt.Sprintf("Clause(%v asset=%v to=%v amount=%v)", b.Op, b.Asset, b.To, b.Amount)
	case OpUpdateSettings:
		return fmt.Sprintf("Clause(%v %+v)", b.Op, b.Settings)
	case OpUpdateAdmin:
		return fmt.Sprintf("Clause(%v to=%v)", b.Op, b.To)
	default:
		return fmt.Sprintf("Clause(%v asset=%v reward=%v amount=%v length=%v)", b.Op, b.Asset, b.Reward, b.Amount, b.Length)
	}
}
