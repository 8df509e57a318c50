package domain

import "testing"

func TestFindTrioCandidates(t *testing.T) {
	t.Run("basic three of a kind", func(t *testing.T) {
		hand := []Card{Standard(SuitHearts, Five), Standard(SuitClubs, Five), Standard(SuitSpades, Five)}
		candidates := FindTrioCandidates(hand)
		if len(candidates) == 0 {
			t.Fatal("expected at least one trio candidate")
		}
		for _, c := range candidates {
			if c.Type != ComboTrio {
				t.Errorf("candidate type = %v, want trio", c.Type)
			}
		}
	})

	t.Run("joker completes a pair", func(t *testing.T) {
		hand := []Card{Standard(SuitHearts, Five), Standard(SuitClubs, Five), NewJoker()}
		if candidates := FindTrioCandidates(hand); len(candidates) == 0 {
			t.Fatal("expected joker-completed trio candidate")
		}
	})

	t.Run("one card plus joker is not enough", func(t *testing.T) {
		hand := []Card{Standard(SuitHearts, Five), NewJoker()}
		if candidates := FindTrioCandidates(hand); len(candidates) != 0 {
			t.Fatalf("expected no candidates, got %d", len(candidates))
		}
	})

	t.Run("candidates never reuse a hand position", func(t *testing.T) {
		hand := []Card{
			Standard(SuitHearts, Five), Standard(SuitHearts, Five), Standard(SuitClubs, Five),
		}
		for _, c := range FindTrioCandidates(hand) {
			seen := make(map[int]bool)
			for _, i := range c.Indices {
				if seen[i] {
					t.Fatalf("candidate reuses index %d: %+v", i, c)
				}
				seen[i] = true
			}
		}
	})
}

func TestFindEscalaCandidates(t *testing.T) {
	t.Run("four consecutive same suit", func(t *testing.T) {
		hand := []Card{
			Standard(SuitHearts, Three), Standard(SuitHearts, Four),
			Standard(SuitHearts, Five), Standard(SuitHearts, Six),
		}
		candidates := FindEscalaCandidates(hand)
		if len(candidates) == 0 {
			t.Fatal("expected an escala candidate")
		}
		for _, c := range candidates {
			if c.Type != ComboEscala {
				t.Errorf("candidate type = %v, want escala", c.Type)
			}
		}
	})

	t.Run("joker fills a one-card gap", func(t *testing.T) {
		hand := []Card{
			Standard(SuitHearts, Three), Standard(SuitHearts, Four),
			NewJoker(), Standard(SuitHearts, Six),
		}
		if candidates := FindEscalaCandidates(hand); len(candidates) == 0 {
			t.Fatal("expected joker-gap escala candidate")
		}
	})

	t.Run("different suit never joins a run", func(t *testing.T) {
		hand := []Card{
			Standard(SuitHearts, Three), Standard(SuitSpades, Four),
			Standard(SuitHearts, Five), Standard(SuitHearts, Six),
		}
		for _, c := range FindEscalaCandidates(hand) {
			for _, i := range c.Indices {
				if i == 1 {
					t.Fatalf("escala candidate includes the off-suit card: %+v", c)
				}
			}
		}
	})

	t.Run("ace is high only in solver runs", func(t *testing.T) {
		hand := []Card{
			Standard(SuitHearts, Jack), Standard(SuitHearts, Queen),
			Standard(SuitHearts, King), Standard(SuitHearts, Ace),
			Standard(SuitHearts, Two),
		}
		candidates := FindEscalaCandidates(hand)

		foundRoyal := false
		for _, c := range candidates {
			hasAce, hasTwo := false, false
			for _, i := range c.Indices {
				if i == 3 {
					hasAce = true
				}
				if i == 4 {
					hasTwo = true
				}
			}
			if hasAce && hasTwo {
				t.Fatalf("solver run connects ace to two: %+v", c)
			}
			if hasAce && len(c.Indices) == 4 {
				foundRoyal = true
			}
		}
		if !foundRoyal {
			t.Fatal("expected a J-Q-K-A candidate")
		}
	})

	t.Run("no duplicate masks", func(t *testing.T) {
		hand := []Card{
			Standard(SuitClubs, Two), Standard(SuitClubs, Three), Standard(SuitClubs, Four),
			Standard(SuitClubs, Five), Standard(SuitClubs, Six),
		}
		seen := make(map[HandMask]bool)
		for _, c := range FindEscalaCandidates(hand) {
			if seen[c.Mask] {
				t.Fatalf("duplicate mask %b", c.Mask)
			}
			seen[c.Mask] = true
		}
	})
}

func TestFindBestBajada(t *testing.T) {
	t.Run("two trios", func(t *testing.T) {
		hand := []Card{
			Standard(SuitHearts, Five), Standard(SuitClubs, Five), Standard(SuitSpades, Five),
			Standard(SuitHearts, Nine), Standard(SuitClubs, Nine), Standard(SuitDiamonds, Nine),
			Standard(SuitHearts, Two), Standard(SuitClubs, King), Standard(SuitSpades, Ace),
			Standard(SuitDiamonds, Jack), Standard(SuitHearts, Three), Standard(SuitClubs, Six),
		}
		melds, ok := FindBestBajada(hand, 2, 0, false)
		if !ok {
			t.Fatal("expected a two-trio solution")
		}
		if len(melds) != 2 {
			t.Fatalf("got %d melds, want 2", len(melds))
		}
		if melds[0].Overlaps(melds[1]) {
			t.Fatal("melds overlap")
		}
	})

	t.Run("trio plus escala", func(t *testing.T) {
		hand := []Card{
			Standard(SuitHearts, King), Standard(SuitClubs, King), Standard(SuitSpades, King),
			Standard(SuitSpades, Three), Standard(SuitSpades, Four), Standard(SuitSpades, Five), Standard(SuitSpades, Six),
			Standard(SuitHearts, Two), Standard(SuitClubs, Queen), Standard(SuitHearts, Ace),
			Standard(SuitDiamonds, Jack), Standard(SuitClubs, Ten),
		}
		melds, ok := FindBestBajada(hand, 1, 1, false)
		if !ok {
			t.Fatal("expected a trio+escala solution")
		}
		if len(melds) != 2 {
			t.Fatalf("got %d melds, want 2", len(melds))
		}
		if melds[0].Overlaps(melds[1]) {
			t.Fatal("melds overlap")
		}
	})

	t.Run("impossible requirements", func(t *testing.T) {
		hand := []Card{
			Standard(SuitHearts, Two), Standard(SuitClubs, Three), Standard(SuitSpades, Four),
		}
		if _, ok := FindBestBajada(hand, 2, 0, false); ok {
			t.Fatal("should not find two trios in three unrelated cards")
		}
	})

	t.Run("no card reused across melds", func(t *testing.T) {
		// Four fives produce overlapping trio candidates; the solver must
		// still pick disjoint melds.
		hand := []Card{
			Standard(SuitHearts, Five), Standard(SuitClubs, Five), Standard(SuitSpades, Five),
			Standard(SuitHearts, Five),
			Standard(SuitHearts, Nine), Standard(SuitClubs, Nine), Standard(SuitDiamonds, Nine),
			Standard(SuitHearts, King), Standard(SuitClubs, Ace), Standard(SuitSpades, Two),
			Standard(SuitDiamonds, Seven), Standard(SuitDiamonds, Eight),
		}
		melds, ok := FindBestBajada(hand, 2, 0, false)
		if !ok {
			t.Fatal("expected a two-trio solution")
		}
		seen := make(map[int]bool)
		for _, m := range melds {
			for _, i := range m.Indices {
				if seen[i] {
					t.Fatalf("index %d reused across melds", i)
				}
				seen[i] = true
			}
		}
	})

	t.Run("minimizing keeps expensive cards out of hand", func(t *testing.T) {
		hand := []Card{
			// Trio of fives, trio of aces, trio of twos: the best pair of
			// trios to lay keeps the aces out of the leftover hand.
			Standard(SuitHearts, Five), Standard(SuitClubs, Five), Standard(SuitSpades, Five),
			Standard(SuitHearts, Ace), Standard(SuitClubs, Ace), Standard(SuitSpades, Ace),
			Standard(SuitHearts, Two), Standard(SuitDiamonds, Two), Standard(SuitClubs, Two),
			Standard(SuitSpades, King), Standard(SuitHearts, Queen), Standard(SuitDiamonds, Jack),
		}
		melds, ok := FindBestBajada(hand, 2, 0, true)
		if !ok {
			t.Fatal("expected a solution")
		}
		if len(melds) != 2 {
			t.Fatalf("got %d melds, want 2", len(melds))
		}
		var used HandMask
		for _, m := range melds {
			used |= m.Mask
		}
		// Aces are worth 20 each; any best solution must consume them.
		for i := 3; i <= 5; i++ {
			if used&(1<<HandMask(i)) == 0 {
				t.Fatalf("best solution leaves an ace in hand (melds %+v)", melds)
			}
		}
	})
}
