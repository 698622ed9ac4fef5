package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SYCompass/syrianzone-tierlist/api/models"
	"github.com/SYCompass/syrianzone-tierlist/export"
	"github.com/SYCompass/syrianzone-tierlist/logging"
	"github.com/SYCompass/syrianzone-tierlist/storage"
	"github.com/SYCompass/syrianzone-tierlist/tierlist"
)

// ExportController renders a stored submission through the same pipeline
// the clients use for their local "share as image" download.
type ExportController struct {
	candidatesStorage  storage.CandidateStorage
	submissionsStorage storage.SubmissionStorage
	exporter           *export.Exporter
}

func NewExportController(candidateStorage storage.CandidateStorage, submissionStorage storage.SubmissionStorage, exporter *export.Exporter) *ExportController {
	return &ExportController{
		candidatesStorage:  candidateStorage,
		submissionsStorage: submissionStorage,
		exporter:           exporter,
	}
}

func (c *ExportController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/polls")

	group.GET("/:slug/export/:deviceId", c.exportSubmission)
}

// exportSubmission godoc
// @Summary Render a submission as a shareable image
// @Tags export
// @Produce image/jpeg
// @Param slug path string true "Poll slug"
// @Param deviceId path string true "Device id"
// @Param day query string false "Vote day override (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/polls/{slug}/export/{deviceId} [get]
func (c *ExportController) exportSubmission(g *gin.Context) {
	slug := g.Param("slug")
	deviceID := g.Param("deviceId")

	submission, err := c.submissionsStorage.Get(g.Request.Context(), slug, voteDay(g), deviceID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no submission found for this device"})
			return
		}
		logging.Log.Errorf("EXPORT: failed to load submission: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load submission"})
		return
	}

	candidates, err := c.candidatesStorage.GetByPoll(g.Request.Context(), slug)
	if err != nil {
		logging.Log.Errorf("EXPORT: failed to load candidates for %s: %v", slug, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load candidates"})
		return
	}
	byID := make(map[string]tierlist.Candidate, len(candidates))
	for _, candidate := range toTierCandidates(candidates) {
		byID[candidate.ID] = candidate
	}

	placements := make([]tierlist.Placement, 0, len(submission.Entries))
	for _, entry := range submission.Entries {
		placements = append(placements, tierlist.Placement{
			Tier:        tierlist.TierKey(entry.Tier),
			CandidateID: entry.CandidateID,
			Pos:         entry.Pos,
		})
	}
	snap := tierlist.SnapshotFromPlacements(placements, byID)

	img, err := c.exporter.Render(g.Request.Context(), snap)
	if err != nil {
		logging.Log.Errorf("EXPORT: render failed: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not render image"})
		return
	}
	data, ext, err := c.exporter.Encode(img)
	if err != nil {
		logging.Log.Errorf("EXPORT: encode failed: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not encode image"})
		return
	}

	contentType := "image/jpeg"
	if ext == "png" {
		contentType = "image/png"
	}
	g.Header("Content-Disposition", `attachment; filename="tier-list.`+ext+`"`)
	g.Data(http.StatusOK, contentType, data)
}
