package domain

import (
	"fmt"
	"strings"
)

// Position is one of the six canonical seat labels of the six-max table.
type Position string

const (
	UTG Position = "UTG"
	MP  Position = "MP"
	CO  Position = "CO"
	BTN Position = "BTN"
	SB  Position = "SB"
	BB  Position = "BB"
)

// Seating order clockwise around the table, also the preflop first-to-act
// order (action starts left of the big blind): UTG, MP, CO, BTN, SB, BB.
var positions = [6]Position{UTG, MP, CO, BTN, SB, BB}

// Postflop action starts with the small blind.
var postflopOrder = [6]Position{SB, BB, UTG, MP, CO, BTN}

func Positions() []Position {
	out := make([]Position, len(positions))
	copy(out, positions[:])
	return out
}

func PreflopOrder() []Position {
	return Positions()
}

func PostflopOrder() []Position {
	out := make([]Position, len(postflopOrder))
	copy(out, postflopOrder[:])
	return out
}

func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown position: %q", s)
	}
	return p, nil
}

func (p Position) Valid() bool {
	for _, q := range positions {
		if p == q {
			return true
		}
	}
	return false
}

// PreflopIndex returns the position's index in first-to-act order, or -1.
func PreflopIndex(p Position) int {
	for i, q := range positions {
		if p == q {
			return i
		}
	}
	return -1
}

// Street is a betting round as reported by the dealer.
type Street string

const (
	StreetPreflop  Street = "preflop"
	StreetFlop     Street = "flop"
	StreetTurn     Street = "turn"
	StreetRiver    Street = "river"
	StreetShowdown Street = "showdown"
)

// PastPreflop reports whether the street has advanced beyond preflop. Any
// unrecognized street counts as past: server truth wins over local guesses.
func (s Street) PastPreflop() bool {
	return s != "" && s != StreetPreflop
}

// ActionKind is a betting action name on the dealer's wire.
type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionRaise ActionKind = "raise"
)

// Card is a two-rune card string ("Ah", "Td"). HiddenCard is the dealer's
// card-back placeholder for seats whose cards are not revealed.
type Card string

const HiddenCard Card = "??"

// RanksDesc orders ranks high to low; the strategy grid's axes use this.
const RanksDesc = "AKQJT98765432"

const suits = "hdcs"

func (c Card) Hidden() bool { return c == HiddenCard }

func (c Card) Valid() bool {
	if len(c) != 2 {
		return false
	}
	return strings.IndexByte(RanksDesc, c[0]) >= 0 && strings.IndexByte(suits, c[1]) >= 0
}

func (c Card) Rank() byte {
	if len(c) != 2 {
		return 0
	}
	return c[0]
}

func (c Card) Suit() byte {
	if len(c) != 2 {
		return 0
	}
	return c[1]
}

// RankIndex returns the rank's offset in RanksDesc (A=0 .. 2=12), or -1.
func RankIndex(r byte) int {
	return strings.IndexByte(RanksDesc, r)
}
