package domain

// IsValidTrio reports whether cards form a legal trio: three or more cards
// sharing one value, at most one joker, and at least one standard card.
// Ordering is irrelevant.
func IsValidTrio(cards []Card) bool {
	if len(cards) < 3 {
		return false
	}
	return sameValueGroup(cards)
}

// IsPartialTrio reports whether exactly two cards are still on a trio
// trajectory: two same-value standard cards, or one standard plus a joker.
func IsPartialTrio(cards []Card) bool {
	return len(cards) == 2 && sameValueGroup(cards)
}

// sameValueGroup enforces the shared trio constraints: at most one joker,
// at least one standard card, and a single common value.
func sameValueGroup(cards []Card) bool {
	jokers := 0
	value := 0
	haveValue := false

	for _, c := range cards {
		if c.IsJoker() {
			jokers++
			continue
		}
		rank, ok := RankOf(c)
		if !ok {
			return false
		}
		if haveValue && rank != value {
			return false
		}
		value = rank
		haveValue = true
	}

	return jokers <= 1 && haveValue
}

// IsValidEscala reports whether cards form a legal escala: four or more
// consecutive same-suit ranks in either direction, at most one joker, and
// circular rank order (King, Ace, Two, Three is a valid run).
func IsValidEscala(cards []Card) bool {
	if len(cards) < 4 {
		return false
	}
	return sameSuitRun(cards)
}

// IsPartialEscala reports whether two or three cards are still on an escala
// trajectory, under the same suit, joker and anchor rules.
func IsPartialEscala(cards []Card) bool {
	if len(cards) != 2 && len(cards) != 3 {
		return false
	}
	return sameSuitRun(cards)
}

// sameSuitRun checks that every standard card shares one suit, at most one
// joker is present, and the positions form a consecutive run anchored on the
// first standard card. Both directions are tried because a caller may
// present the run in either orientation.
func sameSuitRun(cards []Card) bool {
	jokers := 0
	anchorIdx := -1
	var suit Suit
	haveSuit := false

	for i, c := range cards {
		if c.IsJoker() {
			jokers++
			continue
		}
		s, ok := SuitOf(c)
		if !ok {
			return false
		}
		if _, ok := RankOf(c); !ok {
			return false
		}
		if haveSuit && s != suit {
			return false
		}
		suit = s
		haveSuit = true
		if anchorIdx < 0 {
			anchorIdx = i
		}
	}

	if jokers > 1 || anchorIdx < 0 {
		return false
	}

	anchorRank, _ := RankOf(cards[anchorIdx])
	return runHolds(cards, anchorIdx, anchorRank, 1) || runHolds(cards, anchorIdx, anchorRank, -1)
}

// runHolds tests one direction hypothesis: the card at position i must carry
// rank WrappedRank(anchor, dir*(i-anchorIdx)). Jokers fill their slot.
func runHolds(cards []Card, anchorIdx, anchorRank, dir int) bool {
	for i, c := range cards {
		if c.IsJoker() {
			continue
		}
		rank, _ := RankOf(c)
		if rank != WrappedRank(anchorRank, dir*(i-anchorIdx)) {
			return false
		}
	}
	return true
}

// CanCardExtendGroup reports whether appending candidate to group would keep
// the group a valid meld or on a productive path toward one. It is a pure
// lookahead for gating a drop interaction and mutates nothing.
func CanCardExtendGroup(group []Card, candidate Card) bool {
	next := make([]Card, 0, len(group)+1)
	next = append(next, group...)
	next = append(next, candidate)

	return IsValidTrio(next) || IsValidEscala(next) ||
		IsPartialTrio(next) || IsPartialEscala(next)
}
