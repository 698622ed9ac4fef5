package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SYCompass/syrianzone-tierlist/api/models"
	"github.com/SYCompass/syrianzone-tierlist/api/transport"
	"github.com/SYCompass/syrianzone-tierlist/logging"
	"github.com/SYCompass/syrianzone-tierlist/storage"
)

type CandidateMetaController struct {
	storage storage.CandidateStorage
}

func NewCandidateMetaController(s storage.CandidateStorage) *CandidateMetaController {
	return &CandidateMetaController{storage: s}
}

func (c *CandidateMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/candidates")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary Get all candidates
// @Tags Meta/Candidates
// @Produce json
// @Param poll query string false "Filter by poll slug"
// @Success 200 {array} models.CandidateResponse
// @Failure 500 {object} map[string]string
// @Router /api/meta/candidates [get]
func (c *CandidateMetaController) getAll(g *gin.Context) {
	var candidates []*storage.Candidate
	var err error
	if poll := g.Query("poll"); poll != "" {
		candidates, err = c.storage.GetByPoll(g.Request.Context(), poll)
	} else {
		candidates, err = c.storage.GetAll(g.Request.Context())
	}
	if err != nil {
		logging.Log.Errorf("META: failed to get candidates: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		responses = append(responses, models.TransformCandidateFromStorage(candidate))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a candidate by id
// @Tags Meta/Candidates
// @Produce json
// @Param id path string true "Candidate id"
// @Success 200 {object} models.CandidateResponse
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/candidates/{id} [get]
func (c *CandidateMetaController) get(g *gin.Context) {
	candidate, err := c.storage.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		logging.Log.Errorf("META: failed to get candidate: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if candidate == nil {
		g.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Create a candidate
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param request body models.CandidateCreateRequest true "Candidate"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/candidates [post]
func (c *CandidateMetaController) create(g *gin.Context) {
	var req models.CandidateCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.ID == "" || req.PollSlug == "" || req.Name == "" {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, missing id, pollSlug or name"})
		return
	}

	candidate := &storage.Candidate{
		ID:       req.ID,
		PollSlug: req.PollSlug,
		GroupID:  req.GroupID,
		Category: req.Category,
		Name:     req.Name,
		Title:    req.Title,
		ImageURL: req.ImageURL,
	}
	if err := c.storage.Create(g.Request.Context(), candidate); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			g.JSON(http.StatusConflict, gin.H{"error": "candidate already exists"})
			return
		}
		logging.Log.Errorf("META: failed to create candidate: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logging.Log.Infof("META: created candidate %s for poll %s", candidate.ID, candidate.PollSlug)
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// @Summary Update a candidate
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate id"
// @Param request body models.CandidateUpdateRequest true "Candidate"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/candidates/{id} [put]
func (c *CandidateMetaController) update(g *gin.Context) {
	id := g.Param("id")

	existing, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get candidate: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing == nil {
		g.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}

	var req models.CandidateUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	existing.PollSlug = req.PollSlug
	existing.GroupID = req.GroupID
	existing.Category = req.Category
	existing.Name = req.Name
	existing.Title = req.Title
	existing.ImageURL = req.ImageURL
	if err := c.storage.Update(g.Request.Context(), existing); err != nil {
		logging.Log.Errorf("META: failed to update candidate: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(existing))
}

// @Security AdminToken
// @Summary Delete a candidate
// @Tags Meta/Candidates
// @Produce json
// @Param id path string true "Candidate id"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/candidates/{id} [delete]
func (c *CandidateMetaController) delete(g *gin.Context) {
	id := g.Param("id")
	if err := c.storage.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to delete candidate %s: %v", id, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"deleted": id})
}
