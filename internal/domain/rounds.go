package domain

// Round identifies one contract in the Carioca round ladder.
type Round int

const (
	RoundTwoTrios Round = iota
	RoundTrioEscala
	RoundTwoEscalas
	RoundThreeTrios
	RoundTwoTriosEscala
	RoundTrioTwoEscalas
	RoundThreeEscalas
	RoundFourTrios
	RoundEscalaReal
)

// AllRounds returns the ladder in play order.
func AllRounds() []Round {
	return []Round{
		RoundTwoTrios,
		RoundTrioEscala,
		RoundTwoEscalas,
		RoundThreeTrios,
		RoundTwoTriosEscala,
		RoundTrioTwoEscalas,
		RoundThreeEscalas,
		RoundFourTrios,
		RoundEscalaReal,
	}
}

// Requirements returns the trio and escala counts a player must lay down to
// go out ("bajarse") in this round.
func (r Round) Requirements() (trios, escalas int) {
	switch r {
	case RoundTwoTrios:
		return 2, 0
	case RoundTrioEscala:
		return 1, 1
	case RoundTwoEscalas:
		return 0, 2
	case RoundThreeTrios:
		return 3, 0
	case RoundTwoTriosEscala:
		return 2, 1
	case RoundTrioTwoEscalas:
		return 1, 2
	case RoundThreeEscalas:
		return 0, 3
	case RoundFourTrios:
		return 4, 0
	case RoundEscalaReal:
		// A single full-length same-suit run.
		return 0, 1
	}
	return 0, 0
}

// Description is a short human-readable contract label.
func (r Round) Description() string {
	switch r {
	case RoundTwoTrios:
		return "2 Trios (6 cards)"
	case RoundTrioEscala:
		return "1 Trio, 1 Escala (7 cards)"
	case RoundTwoEscalas:
		return "2 Escalas (8 cards)"
	case RoundThreeTrios:
		return "3 Trios (9 cards)"
	case RoundTwoTriosEscala:
		return "2 Trios, 1 Escala (10 cards)"
	case RoundTrioTwoEscalas:
		return "1 Trio, 2 Escalas (11 cards)"
	case RoundThreeEscalas:
		return "3 Escalas (12 cards)"
	case RoundFourTrios:
		return "4 Trios (12 cards)"
	case RoundEscalaReal:
		return "Escala Real (13 cards, same suit)"
	}
	return "unknown round"
}
