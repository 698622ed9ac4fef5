package models

import "github.com/SYCompass/syrianzone-tierlist/storage"

type CandidateCreateRequest struct {
	ID       string `json:"id"`
	PollSlug string `json:"pollSlug"`
	GroupID  string `json:"groupId"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

type CandidateUpdateRequest struct {
	PollSlug string `json:"pollSlug"`
	GroupID  string `json:"groupId"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

type CandidateResponse struct {
	ID       string `json:"id"`
	GroupID  string `json:"groupId,omitempty"`
	Category string `json:"category,omitempty"`
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func TransformCandidateFromStorage(c *storage.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:       c.ID,
		GroupID:  c.GroupID,
		Category: c.Category,
		Name:     c.Name,
		Title:    c.Title,
		ImageURL: c.ImageURL,
	}
}
