package models

import (
	"time"

	"github.com/SYCompass/syrianzone-tierlist/storage"
)

type PollCreateRequest struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	MinSelections int    `json:"minSelections"`
	Active        bool   `json:"active"`
}

type PollUpdateRequest struct {
	Title         string `json:"title"`
	MinSelections int    `json:"minSelections"`
	Active        bool   `json:"active"`
}

type PollResponse struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	MinSelections int       `json:"minSelections"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

func TransformPollFromStorage(p *storage.Poll) PollResponse {
	return PollResponse{
		Slug:          p.Slug,
		Title:         p.Title,
		MinSelections: p.MinSelections,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
	}
}
