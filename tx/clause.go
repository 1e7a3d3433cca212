// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/nodestake/thor"
)

type clauseBody struct {
	To    thor.Address
	Value *big.Int
	Data  []byte
}

// Clause is the basic execution unit: a call of To with Value and Data.
type Clause struct {
	body clauseBody
}

// NewClause create a new clause instance.
func NewClause(to thor.Address) *Clause {
	return &Clause{
		clauseBody{
			to,
			&big.Int{},
			nil,
		},
	}
}

// WithValue create a new clause copy with value changed.
func (c *Clause) WithValue(value *big.Int) *Clause {
	newClause := *c
	newClause.body.Value = new(big.Int).Set(value)
	return &newClause
}

// WithData create a new clause copy with data changed.
func (c *Clause) WithData(data []byte) *Clause {
	newClause := *c
	newClause.body.Data = append([]byte(nil), data...)
	return &newClause
}

// To returns 'To' address.
func (c *Clause) To() thor.Address {
	return c.body.To
}

// Value returns 'Value'.
func (c *Clause) Value() *big.Int {
	return new(big.Int).Set(c.body.Value)
}

// Data returns 'Data'.
func (c *Clause) Data() []byte {
	return append([]byte(nil), c.body.Data...)
}

// EncodeRLP implements rlp.Encoder
func (c *Clause) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

// DecodeRLP implements rlp.Decoder
func (c *Clause) DecodeRLP(s *rlp.Stream) error {
	var body clauseBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*c = Clause{body}
	return nil
}

type clauseJSON struct {
	To    thor.Address  `json:"to"`
	Value *hexutil.Big  `json:"value"`
	Data  hexutil.Bytes `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (c *Clause) MarshalJSON() ([]byte, error) {
	return json.Marshal(&clauseJSON{
		To:    c.body.To,
		Value: (*hexutil.Big)(c.body.Value),
		Data:  c.body.Data,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Clause) UnmarshalJSON(data []byte) error {
	var obj clauseJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	value := new(big.Int)
	if obj.Value != nil {
		value = obj.Value.ToInt()
	}
	*c = Clause{clauseBody{obj.To, value, obj.Data}}
	return nil
}

func (c *Clause) String() string {
	return fmt.Sprintf(`
		(To:	%v
		 Value:	%v
		 Data:	0x%x)`, c.body.To, c.body.Value, c.body.Data)
}
