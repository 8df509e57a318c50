package bot

// BotTuning collects the heuristic weights shared by the non-random
// strategies.
type BotTuning struct {
	// JokerKeepScore makes jokers effectively undiscardable.
	JokerKeepScore int

	// TrioMatchScore rewards a hand card sharing the target's value.
	TrioMatchScore int

	// RunNeighborScore rewards a same-suit card one step away,
	// RunNearScore one two steps away.
	RunNeighborScore int
	RunNearScore     int

	// DiscardDrawThreshold is the minimum usefulness of the discard top
	// before the bot prefers it over a blind stock draw.
	DiscardDrawThreshold int

	// PointDiscount biases the hard strategy toward discarding expensive
	// cards when usefulness ties.
	PointDiscount float64

	// EasyDiscardDrawChance is the probability the easy bot picks up the
	// discard instead of drawing blind.
	EasyDiscardDrawChance float64
}

// DefaultTuning mirrors the hand-synergy weights the strategies were
// playtested with.
var DefaultTuning = BotTuning{
	JokerKeepScore:        100,
	TrioMatchScore:        15,
	RunNeighborScore:      10,
	RunNearScore:          5,
	DiscardDrawThreshold:  10,
	PointDiscount:         0.1,
	EasyDiscardDrawChance: 0.2,
}
