package tierlist

// SeedKey builds the shuffle seed for a poll and vote day. Server and
// client derive the same key, so both render the same candidate order.
func SeedKey(pollID, voteDay string) string {
	return pollID + ":" + voteDay
}

// Shuffle returns a deterministic permutation of candidates for seedKey.
// The input slice is not mutated. The hash and generator match the xmur3
// and mulberry32 routines used by the web clients, so the same key yields
// the same order on every platform.
func Shuffle(candidates []Candidate, seedKey string) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)

	r := mulberry32{state: xmur3(seedKey)}
	for i := len(out) - 1; i > 0; i-- {
		j := int(r.next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// xmur3 mixes a string into a 32-bit seed: multiply-rotate over the bytes,
// then two avalanche passes.
func xmur3(key string) uint32 {
	h := uint32(1779033703) ^ uint32(len(key))
	for i := 0; i < len(key); i++ {
		h = (h ^ uint32(key[i])) * 3432918353
		h = h<<13 | h>>19
	}
	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	return h ^ h>>16
}

// mulberry32 is a 32-bit generator producing floats in [0,1).
type mulberry32 struct {
	state uint32
}

func (r *mulberry32) next() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}
