package models

import "github.com/SYCompass/syrianzone-tierlist/storage"

type GroupCreateRequest struct {
	ID       string `json:"id"`
	PollSlug string `json:"pollSlug"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
}

type GroupUpdateRequest struct {
	PollSlug string `json:"pollSlug"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
}

type GroupResponse struct {
	ID       string `json:"id"`
	PollSlug string `json:"pollSlug"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
}

func TransformGroupFromStorage(g *storage.CandidateGroup) GroupResponse {
	return GroupResponse{
		ID:       g.ID,
		PollSlug: g.PollSlug,
		Key:      g.Key,
		Name:     g.Name,
		Order:    g.Order,
	}
}
