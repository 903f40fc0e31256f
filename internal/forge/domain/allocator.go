package domain

// Rarity tiers for attribute bonuses. A tier roll in [0, 100) picks the
// maximum bonus a slot may receive: 50% of rolls cap at +9, the next 30% at
// +12, the next 15% at +15, and the top 5% at +18.
var bonusTiers = []struct {
	cumulative int
	cap        int
}{
	{50, 9},
	{80, 12},
	{95, 15},
	{100, 18},
}

// AllocateAttributes maps a seed chain to a six-attribute vector with every
// attribute in [MinStat, MaxStat] and a total of exactly TotalStats.
//
// Every attribute starts at MinStat, which leaves TotalStats-6*MinStat bonus
// points to distribute. Slots are processed in a randomized order drawn
// without replacement from the chain. Each slot rolls a rarity tier, caps the
// bonus at what remains affordable while reserving MinStat of headroom per
// unprocessed slot, and draws a uniform bonus in [0, cap]. A settlement pass
// then clamps and nudges single points until the total is exact.
func AllocateAttributes(chain *SeedChain) Attributes {
	var stats Attributes
	for i := range stats {
		stats[i] = MinStat
	}
	remaining := TotalStats - NumAttributes*MinStat

	order := drawSlotOrder(chain)
	for i, slot := range order {
		slotsAfter := NumAttributes - 1 - i

		bonusCap := tierCap(chain.Intn("rarity-tier", 100))
		affordable := remaining - slotsAfter*MinStat
		if affordable < 0 {
			affordable = 0
		}
		if bonusCap > affordable {
			bonusCap = affordable
		}

		bonus := 0
		if bonusCap > 0 {
			bonus = chain.Intn("bonus", bonusCap+1)
		}
		stats[slot] += bonus
		remaining -= bonus
	}

	return repair(chain, stats)
}

// drawSlotOrder produces a random permutation of the six slots by repeatedly
// drawing from the shrinking remainder and swap-removing the chosen slot.
func drawSlotOrder(chain *SeedChain) [NumAttributes]int {
	pool := [NumAttributes]int{0, 1, 2, 3, 4, 5}
	var order [NumAttributes]int
	size := NumAttributes
	for i := 0; i < NumAttributes; i++ {
		pick := chain.Intn("slot-order", size)
		order[i] = pool[pick]
		size--
		pool[pick] = pool[size]
	}
	return order
}

func tierCap(roll int) int {
	for _, tier := range bonusTiers {
		if roll < tier.cumulative {
			return tier.cap
		}
	}
	return bonusTiers[len(bonusTiers)-1].cap
}

// repair clamps out-of-range attributes and nudges randomly chosen in-range
// attributes one unit at a time until the total is exactly TotalStats. It
// never pushes an attribute outside [MinStat, MaxStat] and always terminates:
// the deficit is bounded and every nudge moves one unit within feasible
// headroom.
func repair(chain *SeedChain, stats Attributes) Attributes {
	total := 0
	for i, v := range stats {
		if v < MinStat {
			v = MinStat
		}
		if v > MaxStat {
			v = MaxStat
		}
		stats[i] = v
		total += v
	}

	for total != TotalStats {
		i := chain.Intn("repair", NumAttributes)
		switch {
		case total < TotalStats && stats[i] < MaxStat:
			stats[i]++
			total++
		case total > TotalStats && stats[i] > MinStat:
			stats[i]--
			total--
		}
	}
	return stats
}
