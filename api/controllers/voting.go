package controllers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/SYCompass/syrianzone-tierlist/api/models"
	"github.com/SYCompass/syrianzone-tierlist/logging"
	"github.com/SYCompass/syrianzone-tierlist/storage"
	"github.com/SYCompass/syrianzone-tierlist/tierlist"
)

type VotingController struct {
	pollsStorage       storage.PollStorage
	groupsStorage      storage.CandidateGroupStorage
	candidatesStorage  storage.CandidateStorage
	submissionsStorage storage.SubmissionStorage
	defaultMin         int
}

func NewVotingController(pollStorage storage.PollStorage, groupStorage storage.CandidateGroupStorage, candidateStorage storage.CandidateStorage, submissionStorage storage.SubmissionStorage, defaultMinSelections int) *VotingController {
	if defaultMinSelections <= 0 {
		defaultMinSelections = 3
	}
	return &VotingController{
		pollsStorage:       pollStorage,
		groupsStorage:      groupStorage,
		candidatesStorage:  candidateStorage,
		submissionsStorage: submissionStorage,
		defaultMin:         defaultMinSelections,
	}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/polls")

	group.GET("/:slug/board", c.getBoard)
	group.POST("/:slug/votes", c.registerSubmission)
	group.GET("/:slug/votes/:deviceId", c.getSubmission)
	group.GET("/:slug/results", c.computeResults)
}

// voteDay returns today's vote day, or the explicit ?day= override.
func voteDay(g *gin.Context) string {
	if day := g.Query("day"); day != "" {
		return day
	}
	return time.Now().UTC().Format("2006-01-02")
}

// getBoard godoc
// @Summary Get the board feed for a poll
// @Description Returns the poll, its groups, and the selected group's candidates in the deterministic shuffle order for the vote day
// @Tags voting
// @Produce json
// @Param slug path string true "Poll slug"
// @Param group query string false "Group id (defaults to the first group)"
// @Param day query string false "Vote day override (YYYY-MM-DD)"
// @Success 200 {object} models.BoardResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/polls/{slug}/board [get]
func (c *VotingController) getBoard(g *gin.Context) {
	slug := g.Param("slug")

	poll, err := c.pollsStorage.Get(g.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "poll not found"})
			return
		}
		logging.Log.Errorf("VOTE: failed to load poll %s: %v", slug, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load poll"})
		return
	}

	groups, err := c.groupsStorage.GetByPoll(g.Request.Context(), slug)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load groups for %s: %v", slug, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load groups"})
		return
	}

	candidates, err := c.candidatesStorage.GetByPoll(g.Request.Context(), slug)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load candidates for %s: %v", slug, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load candidates"})
		return
	}

	day := voteDay(g)
	shuffled := tierlist.Shuffle(toTierCandidates(candidates), tierlist.SeedKey(slug, day))

	groupID := g.Query("group")
	if groupID == "" && len(groups) > 0 {
		groupID = groups[0].ID
	}

	response := models.BoardResponse{
		Poll:       models.TransformPollFromStorage(poll),
		VoteDay:    day,
		Group:      groupID,
		Groups:     make([]models.GroupResponse, 0, len(groups)),
		Candidates: make([]models.CandidateResponse, 0, len(shuffled)),
	}
	for _, grp := range groups {
		response.Groups = append(response.Groups, models.TransformGroupFromStorage(grp))
	}

	var active *tierlist.Group
	for _, grp := range groups {
		if grp.ID == groupID {
			active = &tierlist.Group{ID: grp.ID, Key: grp.Key, Name: grp.Name}
			break
		}
	}
	for _, candidate := range shuffled {
		if active != nil && !candidate.InGroup(*active) {
			continue
		}
		response.Candidates = append(response.Candidates, models.CandidateResponse{
			ID:       candidate.ID,
			GroupID:  candidate.GroupID,
			Category: candidate.Category,
			Name:     candidate.Name,
			Title:    candidate.Title,
			ImageURL: candidate.ImageURL,
		})
	}

	g.JSON(http.StatusOK, response)
}

// registerSubmission godoc
// @Summary Register a tier-list submission
// @Description Accepts one device's tier assignment for today's vote day
// @Tags voting
// @Accept json
// @Produce json
// @Param slug path string true "Poll slug"
// @Param submission body models.RegisterSubmissionRequest true "Tier submission"
// @Success 200 {object} models.RegisterSubmissionResponse
// @Failure 400 {object} models.ErrorResponse "Invalid submission data"
// @Failure 404 {object} models.ErrorResponse "Unknown poll"
// @Failure 409 {object} models.ErrorResponse "Poll closed or already voted today"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Router /api/polls/{slug}/votes [post]
func (c *VotingController) registerSubmission(g *gin.Context) {
	slug := g.Param("slug")

	var req models.RegisterSubmissionRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.DeviceID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	poll, err := c.pollsStorage.Get(g.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "poll not found"})
			return
		}
		logging.Log.Errorf("VOTE: failed to load poll %s: %v", slug, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load poll"})
		return
	}
	if !poll.Active {
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: models.MsgPollClosed})
		return
	}

	candidates, err := c.candidatesStorage.GetByPoll(g.Request.Context(), slug)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load candidates for %s: %v", slug, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load candidates"})
		return
	}
	known := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		known[candidate.ID] = true
	}

	// The client sends positions, but the stored order is the array order:
	// the payload builder and this loop must agree on what "pos" means.
	entries := make([]storage.SubmissionEntry, 0)
	placed := make(map[string]bool)
	for _, k := range tierlist.TierOrder {
		for i, entry := range req.Tiers[string(k)] {
			if !known[entry.CandidateID] {
				g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "unknown candidate: " + entry.CandidateID})
				return
			}
			if placed[entry.CandidateID] {
				g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "candidate placed twice: " + entry.CandidateID})
				return
			}
			placed[entry.CandidateID] = true
			entries = append(entries, storage.SubmissionEntry{Tier: string(k), CandidateID: entry.CandidateID, Pos: i})
		}
	}
	for key := range req.Tiers {
		if _, ok := tierlist.ParseTier(key); !ok {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid tier key: " + key})
			return
		}
	}

	min := poll.MinSelections
	if min <= 0 {
		min = c.defaultMin
	}
	if len(entries) < min {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: models.MsgTooFewSelections})
		return
	}

	day := time.Now().UTC().Format("2006-01-02")
	submission := &storage.Submission{
		PartitionKey: storage.SubmissionPartition(slug, day),
		DeviceID:     req.DeviceID,
		PollSlug:     slug,
		VoteDay:      day,
		ReceiptID:    generateReceipt(),
		Entries:      entries,
		Timestamp:    time.Now().UTC(),
	}

	if err := c.submissionsStorage.Create(g.Request.Context(), submission); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: models.MsgAlreadyVoted})
			return
		}
		logging.Log.Errorf("VOTE: failed to create submission: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not save submission"})
		return
	}

	logging.Log.Infof("VOTE: registered submission %s for poll %s (%d placed)", submission.ReceiptID, slug, len(entries))
	g.JSON(http.StatusOK, &models.RegisterSubmissionResponse{Receipt: submission.ReceiptID, Message: "vote registered"})
}

// getSubmission godoc
// @Summary Get a device's submission
// @Tags voting
// @Produce json
// @Param slug path string true "Poll slug"
// @Param deviceId path string true "Device id"
// @Param day query string false "Vote day override (YYYY-MM-DD)"
// @Success 200 {object} models.GetSubmissionResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/polls/{slug}/votes/{deviceId} [get]
func (c *VotingController) getSubmission(g *gin.Context) {
	slug := g.Param("slug")
	deviceID := g.Param("deviceId")

	submission, err := c.submissionsStorage.Get(g.Request.Context(), slug, voteDay(g), deviceID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no submission found for this device"})
			return
		}
		logging.Log.Errorf("VOTE: failed to load submission: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load submission"})
		return
	}

	g.JSON(http.StatusOK, models.TransformSubmissionFromStorage(submission))
}

// computeResults godoc
// @Summary Compute the tier tally for a poll
// @Description Aggregates every submission into a weighted per-candidate score
// @Tags voting
// @Produce json
// @Param slug path string true "Poll slug"
// @Success 200 {object} models.ResultsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/polls/{slug}/results [get]
func (c *VotingController) computeResults(g *gin.Context) {
	slug := g.Param("slug")

	submissions, err := c.submissionsStorage.GetByPoll(g.Request.Context(), slug)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load submissions for %s: %v", slug, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load submissions"})
		return
	}

	candidates, err := c.candidatesStorage.GetByPoll(g.Request.Context(), slug)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load candidates for %s: %v", slug, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load candidates"})
		return
	}
	names := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		names[candidate.ID] = candidate.Name
	}

	tally := make(map[string]*models.ResultEntry)
	for _, submission := range submissions {
		for _, entry := range submission.Entries {
			k, ok := tierlist.ParseTier(entry.Tier)
			if !ok {
				continue
			}
			result := tally[entry.CandidateID]
			if result == nil {
				result = &models.ResultEntry{
					CandidateID: entry.CandidateID,
					Name:        names[entry.CandidateID],
					TierCounts:  make(map[string]int),
				}
				tally[entry.CandidateID] = result
			}
			result.Score += models.TierWeights[k]
			result.Placements++
			result.TierCounts[entry.Tier]++
		}
	}

	results := make([]models.ResultEntry, 0, len(tally))
	for _, result := range tally {
		results = append(results, *result)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})

	g.JSON(http.StatusOK, models.ResultsResponse{
		PollSlug:    slug,
		Submissions: len(submissions),
		Results:     results,
	})
}

func toTierCandidates(candidates []*storage.Candidate) []tierlist.Candidate {
	out := make([]tierlist.Candidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, tierlist.Candidate{
			ID:       c.ID,
			GroupID:  c.GroupID,
			Category: c.Category,
			Name:     c.Name,
			Title:    c.Title,
			ImageURL: c.ImageURL,
		})
	}
	return out
}

func generateReceipt() string {
	code, err := gonanoid.Generate(models.Alphabet, 8)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to generate receipt: %v", err)
		return "ERROR"
	}
	return code
}
