package reduce

import (
	"errors"
	"fmt"
)

// Strategy names one of the five downsampling algorithms.
type Strategy uint8

const (
	StrategyMode Strategy = iota
	StrategySkip
	StrategyDistance
	StrategyMean
	StrategyAvg
)

var strategyNames = map[Strategy]string{
	StrategyMode:     "mode",
	StrategySkip:     "skip",
	StrategyDistance: "distance",
	StrategyMean:     "mean",
	StrategyAvg:      "avg",
}

// Strategies lists every strategy in display order.
var Strategies = []Strategy{StrategySkip, StrategyDistance, StrategyMean, StrategyAvg, StrategyMode}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// Next cycles through Strategies, used by the viewer.
func (s Strategy) Next() Strategy {
	for i, v := range Strategies {
		if v == s {
			return Strategies[(i+1)%len(Strategies)]
		}
	}
	return Strategies[0]
}

// UnknownPolicy decides what ParseStrategy does with a name it does not know.
type UnknownPolicy int

const (
	FallbackToMode UnknownPolicy = iota
	RejectUnknown
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// ParseStrategy resolves a case-sensitive strategy name.
func ParseStrategy(name string, policy UnknownPolicy) (Strategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	if policy == RejectUnknown {
		return StrategyMode, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return StrategyMode, nil
}
