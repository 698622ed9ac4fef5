package models

import "github.com/SYCompass/syrianzone-tierlist/tierlist"

// Alphabet feeds the nanoid receipt generator.
var Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TierWeights score a placement for the results tally, best tier heaviest.
var TierWeights = map[tierlist.TierKey]int{
	tierlist.TierS: 6,
	tierlist.TierA: 5,
	tierlist.TierB: 4,
	tierlist.TierC: 3,
	tierlist.TierD: 2,
	tierlist.TierF: 1,
}

// User-facing Arabic messages returned by the voting endpoints.
const (
	MsgAlreadyVoted     = "لقد قمت بالتصويت اليوم بالفعل"
	MsgPollClosed       = "التصويت مغلق حالياً"
	MsgTooFewSelections = "يجب اختيار ثلاثة مرشحين على الأقل"
)

type ErrorResponse struct {
	Error string `json:"error"`
}
