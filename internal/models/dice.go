package models

import "encoding/json"

// DiceResult is a normalized roll result. The server reports either a
// single value or an array of dice; both collapse into Values plus a
// summed Total.
type DiceResult struct {
	// Values holds the individual dice, in roll order
	Values []int `json:"values"`

	// Total is the sum of Values
	Total int `json:"total"`
}

// Clone returns a deep copy of the result.
func (d *DiceResult) Clone() *DiceResult {
	if d == nil {
		return nil
	}
	out := DiceResult{
		Values: append([]int(nil), d.Values...),
		Total:  d.Total,
	}
	return &out
}

// NewDiceResult builds a result from individual dice values.
func NewDiceResult(values ...int) *DiceResult {
	total := 0
	for _, v := range values {
		total += v
	}
	return &DiceResult{
		Values: values,
		Total:  total,
	}
}

// wireDice mirrors the shapes dice results take on the wire:
// {"value": 4}, {"values": [2, 3]}, or {"dice": [2, 3], "total": 5}.
type wireDice struct {
	Value  *int  `json:"value"`
	Values []int `json:"values"`
	Dice   []int `json:"dice"`
	Total  *int  `json:"total"`
}

// ParseDiceResult normalizes a raw dice payload from the server.
// Returns nil when the payload carries no usable dice.
func ParseDiceResult(raw json.RawMessage) *DiceResult {
	if len(raw) == 0 {
		return nil
	}

	var wire wireDice
	if err := json.Unmarshal(raw, &wire); err != nil {
		// Some endpoints send a bare number.
		var single int
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil
		}
		return NewDiceResult(single)
	}

	values := wire.Values
	if len(values) == 0 {
		values = wire.Dice
	}
	if len(values) == 0 && wire.Value != nil {
		values = []int{*wire.Value}
	}
	if len(values) == 0 {
		return nil
	}

	result := NewDiceResult(values...)
	if wire.Total != nil && *wire.Total > 0 {
		result.Total = *wire.Total
	}
	return result
}
