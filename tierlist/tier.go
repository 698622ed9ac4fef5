package tierlist

// TierKey identifies one of the six fixed ranking buckets, best to worst.
type TierKey string

const (
	TierS TierKey = "S"
	TierA TierKey = "A"
	TierB TierKey = "B"
	TierC TierKey = "C"
	TierD TierKey = "D"
	TierF TierKey = "F"
)

// TierOrder lists the tiers top to bottom as they appear on the board.
var TierOrder = []TierKey{TierS, TierA, TierB, TierC, TierD, TierF}

// ParseTier validates a wire-level tier key.
func ParseTier(s string) (TierKey, bool) {
	switch TierKey(s) {
	case TierS, TierA, TierB, TierC, TierD, TierF:
		return TierKey(s), true
	}
	return "", false
}

// Slot is a container a candidate can live in: the bank or one of the tiers.
type Slot string

const SlotBank Slot = "bank"

// TierSlot converts a tier key into a move target.
func TierSlot(k TierKey) Slot {
	return Slot(k)
}

// ParseSlot validates a move target.
func ParseSlot(s string) (Slot, bool) {
	if Slot(s) == SlotBank {
		return SlotBank, true
	}
	if k, ok := ParseTier(s); ok {
		return TierSlot(k), true
	}
	return "", false
}
