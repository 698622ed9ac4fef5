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

type PollMetaController struct {
	storage storage.PollStorage
}

func NewPollMetaController(s storage.PollStorage) *PollMetaController {
	return &PollMetaController{storage: s}
}

func (c *PollMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/polls")

	group.GET("", c.getAll)
	group.GET("/:slug", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:slug", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:slug", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary Get all polls
// @Tags Meta/Polls
// @Produce json
// @Success 200 {array} models.PollResponse
// @Failure 500 {object} map[string]string
// @Router /api/meta/polls [get]
func (c *PollMetaController) getAll(g *gin.Context) {
	polls, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all polls: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.PollResponse, 0, len(polls))
	for _, p := range polls {
		responses = append(responses, models.TransformPollFromStorage(p))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a poll by slug
// @Tags Meta/Polls
// @Produce json
// @Param slug path string true "Poll slug"
// @Success 200 {object} models.PollResponse
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/polls/{slug} [get]
func (c *PollMetaController) get(g *gin.Context) {
	poll, err := c.storage.Get(g.Request.Context(), g.Param("slug"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, gin.H{"error": "poll not found"})
			return
		}
		logging.Log.Errorf("META: failed to get poll: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformPollFromStorage(poll))
}

// @Security AdminToken
// @Summary Create a poll
// @Tags Meta/Polls
// @Accept json
// @Produce json
// @Param request body models.PollCreateRequest true "Poll"
// @Success 200 {object} models.PollResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/polls [post]
func (c *PollMetaController) create(g *gin.Context) {
	var req models.PollCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Slug == "" {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, missing slug"})
		return
	}

	poll := &storage.Poll{
		Slug:          req.Slug,
		Title:         req.Title,
		MinSelections: req.MinSelections,
		Active:        req.Active,
	}
	if err := c.storage.Create(g.Request.Context(), poll); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			g.JSON(http.StatusConflict, gin.H{"error": "poll already exists"})
			return
		}
		logging.Log.Errorf("META: failed to create poll: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logging.Log.Infof("META: created poll %s", poll.Slug)
	g.JSON(http.StatusOK, models.TransformPollFromStorage(poll))
}

// @Security AdminToken
// @Summary Update a poll
// @Tags Meta/Polls
// @Accept json
// @Produce json
// @Param slug path string true "Poll slug"
// @Param request body models.PollUpdateRequest true "Poll"
// @Success 200 {object} models.PollResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/polls/{slug} [put]
func (c *PollMetaController) update(g *gin.Context) {
	slug := g.Param("slug")

	existing, err := c.storage.Get(g.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, gin.H{"error": "poll not found"})
			return
		}
		logging.Log.Errorf("META: failed to get poll: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.PollUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	existing.Title = req.Title
	existing.MinSelections = req.MinSelections
	existing.Active = req.Active
	if err := c.storage.Update(g.Request.Context(), existing); err != nil {
		logging.Log.Errorf("META: failed to update poll: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformPollFromStorage(existing))
}

// @Security AdminToken
// @Summary Delete a poll
// @Tags Meta/Polls
// @Produce json
// @Param slug path string true "Poll slug"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/polls/{slug} [delete]
func (c *PollMetaController) delete(g *gin.Context) {
	slug := g.Param("slug")
	if err := c.storage.Delete(g.Request.Context(), slug); err != nil {
		logging.Log.Errorf("META: failed to delete poll %s: %v", slug, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"deleted": slug})
}
