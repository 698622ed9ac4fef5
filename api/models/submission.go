package models

import (
	"time"

	"github.com/SYCompass/syrianzone-tierlist/storage"
)

type TierEntry struct {
	CandidateID string `json:"candidateId"`
	Pos         int    `json:"pos"`
}

// RegisterSubmissionRequest is the payload posted by the tier board
// clients. PollSlug duplicates the path parameter for older clients and
// is ignored when it disagrees with the route.
type RegisterSubmissionRequest struct {
	PollSlug string                 `json:"pollSlug"`
	DeviceID string                 `json:"deviceId"`
	Tiers    map[string][]TierEntry `json:"tiers"`
}

type RegisterSubmissionResponse struct {
	Receipt string `json:"receipt"`
	Message string `json:"message"`
}

type GetSubmissionResponse struct {
	PollSlug  string                 `json:"pollSlug"`
	DeviceID  string                 `json:"deviceId"`
	VoteDay   string                 `json:"voteDay"`
	Receipt   string                 `json:"receipt"`
	Tiers     map[string][]TierEntry `json:"tiers"`
	Timestamp time.Time              `json:"timestamp"`
}

func TransformSubmissionFromStorage(s *storage.Submission) GetSubmissionResponse {
	tiers := make(map[string][]TierEntry)
	for _, e := range s.Entries {
		tiers[e.Tier] = append(tiers[e.Tier], TierEntry{CandidateID: e.CandidateID, Pos: e.Pos})
	}
	return GetSubmissionResponse{
		PollSlug:  s.PollSlug,
		DeviceID:  s.DeviceID,
		VoteDay:   s.VoteDay,
		Receipt:   s.ReceiptID,
		Tiers:     tiers,
		Timestamp: s.Timestamp,
	}
}
