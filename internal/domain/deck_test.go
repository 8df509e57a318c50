package domain

import "testing"

func TestNewDeck(t *testing.T) {
	deck := NewDeck()

	if len(deck) != 108 {
		t.Fatalf("deck has %d cards, want 108", len(deck))
	}

	jokers := 0
	counts := make(map[Card]int)
	for _, c := range deck {
		if c.IsJoker() {
			jokers++
			continue
		}
		counts[c]++
	}
	if jokers != 4 {
		t.Errorf("deck has %d jokers, want 4", jokers)
	}
	if len(counts) != 52 {
		t.Errorf("deck has %d distinct standard cards, want 52", len(counts))
	}
	for c, n := range counts {
		if n != 2 {
			t.Errorf("card %v appears %d times, want 2", c, n)
		}
	}
}

func TestRoundLadder(t *testing.T) {
	rounds := AllRounds()
	if len(rounds) != 9 {
		t.Fatalf("ladder has %d rounds, want 9", len(rounds))
	}
	if rounds[0] != RoundTwoTrios || rounds[8] != RoundEscalaReal {
		t.Errorf("ladder order wrong: starts %v, ends %v", rounds[0], rounds[8])
	}

	for _, r := range rounds {
		trios, escalas := r.Requirements()
		if trios == 0 && escalas == 0 {
			t.Errorf("round %v has no contract", r)
		}
		if r.Description() == "unknown round" {
			t.Errorf("round %v has no description", r)
		}
	}
}

func TestRemoveCards(t *testing.T) {
	hand := []Card{
		Standard(SuitHearts, Five), Standard(SuitHearts, Five),
		Standard(SuitClubs, Nine), NewJoker(),
	}

	got := RemoveCards(hand, []Card{Standard(SuitHearts, Five), NewJoker()})
	want := []Card{Standard(SuitHearts, Five), Standard(SuitClubs, Nine)}
	if !SameCards(got, want) {
		t.Errorf("RemoveCards = %v, want %v", got, want)
	}

	// Removing a duplicate only removes one copy per occurrence asked for.
	got = RemoveCards(hand, []Card{Standard(SuitHearts, Five), Standard(SuitHearts, Five)})
	if len(got) != 2 {
		t.Errorf("RemoveCards left %d cards, want 2", len(got))
	}
}

func TestContainsCards(t *testing.T) {
	hand := []Card{
		Standard(SuitHearts, Five), Standard(SuitClubs, Nine), NewJoker(),
	}

	if !ContainsCards(hand, []Card{NewJoker(), Standard(SuitHearts, Five)}) {
		t.Error("subset should be contained")
	}
	if ContainsCards(hand, []Card{Standard(SuitHearts, Five), Standard(SuitHearts, Five)}) {
		t.Error("hand has one five of hearts, not two")
	}
	if ContainsCards(hand, []Card{Standard(SuitSpades, Two)}) {
		t.Error("absent card reported as contained")
	}
}

func TestSameCards(t *testing.T) {
	a := []Card{Standard(SuitHearts, Five), NewJoker(), Standard(SuitClubs, Nine)}
	b := []Card{NewJoker(), Standard(SuitClubs, Nine), Standard(SuitHearts, Five)}

	if !SameCards(a, b) {
		t.Error("reordered hands should compare equal")
	}
	if SameCards(a, a[:2]) {
		t.Error("different lengths should not compare equal")
	}
}
