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

type GroupMetaController struct {
	storage storage.CandidateGroupStorage
}

func NewGroupMetaController(s storage.CandidateGroupStorage) *GroupMetaController {
	return &GroupMetaController{storage: s}
}

func (c *GroupMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/groups")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary Get all candidate groups
// @Tags Meta/Groups
// @Produce json
// @Param poll query string false "Filter by poll slug"
// @Success 200 {array} models.GroupResponse
// @Failure 500 {object} map[string]string
// @Router /api/meta/groups [get]
func (c *GroupMetaController) getAll(g *gin.Context) {
	var groups []*storage.CandidateGroup
	var err error
	if poll := g.Query("poll"); poll != "" {
		groups, err = c.storage.GetByPoll(g.Request.Context(), poll)
	} else {
		groups, err = c.storage.GetAll(g.Request.Context())
	}
	if err != nil {
		logging.Log.Errorf("META: failed to get groups: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.GroupResponse, 0, len(groups))
	for _, grp := range groups {
		responses = append(responses, models.TransformGroupFromStorage(grp))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a candidate group by id
// @Tags Meta/Groups
// @Produce json
// @Param id path string true "Group id"
// @Success 200 {object} models.GroupResponse
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/groups/{id} [get]
func (c *GroupMetaController) get(g *gin.Context) {
	group, err := c.storage.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		logging.Log.Errorf("META: failed to get group: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if group == nil {
		g.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformGroupFromStorage(group))
}

// @Security AdminToken
// @Summary Create a candidate group
// @Tags Meta/Groups
// @Accept json
// @Produce json
// @Param request body models.GroupCreateRequest true "Group"
// @Success 200 {object} models.GroupResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/groups [post]
func (c *GroupMetaController) create(g *gin.Context) {
	var req models.GroupCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.ID == "" || req.PollSlug == "" {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, missing id or pollSlug"})
		return
	}

	group := &storage.CandidateGroup{
		ID:       req.ID,
		PollSlug: req.PollSlug,
		Key:      req.Key,
		Name:     req.Name,
		Order:    req.Order,
	}
	if err := c.storage.Create(g.Request.Context(), group); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			g.JSON(http.StatusConflict, gin.H{"error": "group already exists"})
			return
		}
		logging.Log.Errorf("META: failed to create group: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logging.Log.Infof("META: created group %s for poll %s", group.ID, group.PollSlug)
	g.JSON(http.StatusOK, models.TransformGroupFromStorage(group))
}

// @Security AdminToken
// @Summary Update a candidate group
// @Tags Meta/Groups
// @Accept json
// @Produce json
// @Param id path string true "Group id"
// @Param request body models.GroupUpdateRequest true "Group"
// @Success 200 {object} models.GroupResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/groups/{id} [put]
func (c *GroupMetaController) update(g *gin.Context) {
	id := g.Param("id")

	existing, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get group: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing == nil {
		g.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}

	var req models.GroupUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	existing.PollSlug = req.PollSlug
	existing.Key = req.Key
	existing.Name = req.Name
	existing.Order = req.Order
	if err := c.storage.Update(g.Request.Context(), existing); err != nil {
		logging.Log.Errorf("META: failed to update group: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformGroupFromStorage(existing))
}

// @Security AdminToken
// @Summary Delete a candidate group
// @Tags Meta/Groups
// @Produce json
// @Param id path string true "Group id"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/groups/{id} [delete]
func (c *GroupMetaController) delete(g *gin.Context) {
	id := g.Param("id")
	if err := c.storage.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to delete group %s: %v", id, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"deleted": id})
}
