package domain

import "sort"

// HandMask is a bitmask over hand positions. It supports hands up to 32
// cards, comfortably above the 13-card deal.
type HandMask uint32

// MeldCandidate is a validated meld drawn from specific hand positions.
type MeldCandidate struct {
	Type    ComboType
	Indices []int // positions in the hand the meld consumes
	Mask    HandMask
}

func newMeldCandidate(typ ComboType, indices []int) MeldCandidate {
	var mask HandMask
	for _, i := range indices {
		mask |= 1 << HandMask(i)
	}
	return MeldCandidate{Type: typ, Indices: indices, Mask: mask}
}

// Overlaps reports whether two candidates share any hand position.
func (m MeldCandidate) Overlaps(other MeldCandidate) bool {
	return m.Mask&other.Mask != 0
}

// FindTrioCandidates returns every trio that can be assembled from the hand:
// same-value groups of three or more, plus pairs completed by a joker.
func FindTrioCandidates(hand []Card) []MeldCandidate {
	var candidates []MeldCandidate

	jokerIdx := jokerIndices(hand)

	byValue := make(map[Value][]int)
	for i, c := range hand {
		if _, ok := RankOf(c); ok {
			byValue[c.Value] = append(byValue[c.Value], i)
		}
	}

	// Iterate values in rank order for deterministic output.
	for _, v := range Values() {
		indices := byValue[v]
		n := len(indices)

		for start := 0; start < n; start++ {
			for end := start + 3; end <= n; end++ {
				subset := append([]int{}, indices[start:end]...)
				candidates = append(candidates, newMeldCandidate(ComboTrio, subset))
			}
		}

		if n >= 2 {
			for _, j := range jokerIdx {
				for a := 0; a < n; a++ {
					for b := a + 1; b < n; b++ {
						candidates = append(candidates, newMeldCandidate(ComboTrio, []int{indices[a], indices[b], j}))
					}
				}
			}
		}
	}

	return candidates
}

// FindEscalaCandidates returns every ace-high escala that can be assembled
// from the hand: four or more consecutive same-suit values, with at most one
// joker filling a single one-card gap.
func FindEscalaCandidates(hand []Card) []MeldCandidate {
	var candidates []MeldCandidate

	jokerIdx := jokerIndices(hand)

	for _, suit := range Suits() {
		type suitCard struct {
			value Value
			index int
		}
		var suitCards []suitCard
		for i, c := range hand {
			if c.IsJoker() || c.Suit != suit {
				continue
			}
			if _, ok := RankOf(c); ok {
				suitCards = append(suitCards, suitCard{value: c.Value, index: i})
			}
		}
		sort.Slice(suitCards, func(i, j int) bool {
			if suitCards[i].value != suitCards[j].value {
				return suitCards[i].value < suitCards[j].value
			}
			return suitCards[i].index < suitCards[j].index
		})

		n := len(suitCards)
		for start := 0; start < n; start++ {
			run := []int{suitCards[start].index}
			prev := suitCards[start].value
			jokerUsed := false

			for k := start + 1; k < n; k++ {
				cur := suitCards[k]
				gap := int(cur.value) - int(prev)

				if gap == 0 {
					// Double-deck duplicate, cannot repeat inside one run.
					continue
				} else if gap == 1 {
					run = append(run, cur.index)
					prev = cur.value
				} else if gap == 2 && !jokerUsed && len(jokerIdx) > 0 {
					jokerUsed = true
					run = append(run, jokerIdx[0], cur.index)
					prev = cur.value
				} else {
					break // gap too wide or second gap, run ends here
				}

				if len(run) >= 4 {
					emitSubruns(run, &candidates)
				}
			}
		}
	}

	// Deduplicate runs discovered from multiple start positions.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Mask < candidates[j].Mask })
	deduped := candidates[:0]
	var prev HandMask
	for i, c := range candidates {
		if i > 0 && c.Mask == prev {
			continue
		}
		deduped = append(deduped, c)
		prev = c.Mask
	}

	return deduped
}

// emitSubruns records every suffix window of the current run that still
// spans at least four cards.
func emitSubruns(run []int, out *[]MeldCandidate) {
	for start := 0; start+4 <= len(run); start++ {
		subset := append([]int{}, run[start:]...)
		*out = append(*out, newMeldCandidate(ComboEscala, subset))
	}
}

func jokerIndices(hand []Card) []int {
	var out []int
	for i, c := range hand {
		if c.IsJoker() {
			out = append(out, i)
		}
	}
	return out
}

// HandScore orders leftover hands after a bajada: fewer penalty points wins,
// then more partial meld opportunities among the leftovers.
type HandScore struct {
	RemainingPoints int
	PartialMelds    int
}

// Better reports whether s is a strictly better leftover than other.
func (s HandScore) Better(other HandScore) bool {
	if s.RemainingPoints != other.RemainingPoints {
		return s.RemainingPoints < other.RemainingPoints
	}
	return s.PartialMelds > other.PartialMelds
}

// ScoreRemaining scores the cards not consumed by usedMask.
func ScoreRemaining(hand []Card, usedMask HandMask) HandScore {
	var leftovers []Card
	for i, c := range hand {
		if usedMask&(1<<HandMask(i)) == 0 {
			leftovers = append(leftovers, c)
		}
	}

	partials := 0
	for i := 0; i < len(leftovers); i++ {
		for j := i + 1; j < len(leftovers); j++ {
			if IsPartialTrio([]Card{leftovers[i], leftovers[j]}) {
				partials++
				continue
			}
			a, b := leftovers[i], leftovers[j]
			if a.IsJoker() || b.IsJoker() || a.Suit != b.Suit {
				continue
			}
			diff := int(a.Value) - int(b.Value)
			if diff < 0 {
				diff = -diff
			}
			if diff == 1 || diff == 2 {
				partials++
			}
		}
	}

	return HandScore{RemainingPoints: HandPoints(leftovers), PartialMelds: partials}
}

// FindBestBajada searches for a non-overlapping set of melds satisfying the
// round requirements. With minimizePoints set it evaluates every solution
// and keeps the one with the cheapest leftover hand; otherwise it returns
// the first solution found.
func FindBestBajada(hand []Card, reqTrios, reqEscalas int, minimizePoints bool) ([]MeldCandidate, bool) {
	search := bajadaSearch{
		hand:           hand,
		trios:          FindTrioCandidates(hand),
		escalas:        FindEscalaCandidates(hand),
		reqTrios:       reqTrios,
		reqEscalas:     reqEscalas,
		minimizePoints: minimizePoints,
		bestScore:      HandScore{RemainingPoints: int(^uint(0) >> 1), PartialMelds: -1},
	}
	search.solve(0, 0, 0, nil)
	return search.best, search.best != nil
}

type bajadaSearch struct {
	hand           []Card
	trios          []MeldCandidate
	escalas        []MeldCandidate
	reqTrios       int
	reqEscalas     int
	minimizePoints bool

	best      []MeldCandidate
	bestScore HandScore
}

func (s *bajadaSearch) solve(chosenTrios, chosenEscalas int, used HandMask, current []MeldCandidate) {
	if chosenTrios == s.reqTrios && chosenEscalas == s.reqEscalas {
		score := ScoreRemaining(s.hand, used)
		if s.best == nil || (s.minimizePoints && score.Better(s.bestScore)) {
			s.best = append([]MeldCandidate{}, current...)
			s.bestScore = score
		}
		return
	}

	if !s.minimizePoints && s.best != nil {
		return
	}

	// Prune branches that cannot reach the remaining requirements.
	remaining := len(s.hand) - popCount(used)
	needed := (s.reqTrios-chosenTrios)*3 + (s.reqEscalas-chosenEscalas)*4
	if remaining < needed {
		return
	}

	if chosenTrios < s.reqTrios {
		for _, trio := range s.trios {
			if trio.Mask&used != 0 {
				continue
			}
			s.solve(chosenTrios+1, chosenEscalas, used|trio.Mask, append(current, trio))
			if !s.minimizePoints && s.best != nil {
				return
			}
		}
	}

	if chosenEscalas < s.reqEscalas {
		for _, escala := range s.escalas {
			if escala.Mask&used != 0 {
				continue
			}
			s.solve(chosenTrios, chosenEscalas+1, used|escala.Mask, append(current, escala))
			if !s.minimizePoints && s.best != nil {
				return
			}
		}
	}
}

func popCount(mask HandMask) int {
	n := 0
	for mask != 0 {
		mask &= mask - 1
		n++
	}
	return n
}
