package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutils "github.com/SYCompass/syrianzone-tierlist/api/controllers/testing"
	"github.com/SYCompass/syrianzone-tierlist/api/models"
	"github.com/SYCompass/syrianzone-tierlist/logging"
	"github.com/SYCompass/syrianzone-tierlist/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.BoostrapLogger()
	os.Exit(m.Run())
}

// In-memory storage fakes so the controllers can be exercised without a
// DynamoDB endpoint.

type fakePollStorage struct {
	polls map[string]*storage.Poll
}

func (s *fakePollStorage) Get(_ context.Context, slug string) (*storage.Poll, error) {
	poll, ok := s.polls[slug]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return poll, nil
}

func (s *fakePollStorage) GetAll(_ context.Context) ([]*storage.Poll, error) {
	out := make([]*storage.Poll, 0, len(s.polls))
	for _, poll := range s.polls {
		out = append(out, poll)
	}
	return out, nil
}

func (s *fakePollStorage) Create(_ context.Context, poll *storage.Poll) error {
	if _, ok := s.polls[poll.Slug]; ok {
		return storage.ErrAlreadyExists
	}
	s.polls[poll.Slug] = poll
	return nil
}

func (s *fakePollStorage) Update(_ context.Context, poll *storage.Poll) error {
	s.polls[poll.Slug] = poll
	return nil
}

func (s *fakePollStorage) Delete(_ context.Context, slug string) error {
	delete(s.polls, slug)
	return nil
}

type fakeGroupStorage struct {
	groups []*storage.CandidateGroup
}

func (s *fakeGroupStorage) Get(_ context.Context, id string) (*storage.CandidateGroup, error) {
	for _, group := range s.groups {
		if group.ID == id {
			return group, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeGroupStorage) GetAll(_ context.Context) ([]*storage.CandidateGroup, error) {
	return s.groups, nil
}

func (s *fakeGroupStorage) GetByPoll(_ context.Context, pollSlug string) ([]*storage.CandidateGroup, error) {
	out := make([]*storage.CandidateGroup, 0)
	for _, group := range s.groups {
		if group.PollSlug == pollSlug {
			out = append(out, group)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *fakeGroupStorage) Create(_ context.Context, group *storage.CandidateGroup) error {
	s.groups = append(s.groups, group)
	return nil
}

func (s *fakeGroupStorage) Update(_ context.Context, _ *storage.CandidateGroup) error { return nil }
func (s *fakeGroupStorage) Delete(_ context.Context, _ string) error                  { return nil }

type fakeCandidateStorage struct {
	candidates []*storage.Candidate
}

func (s *fakeCandidateStorage) Get(_ context.Context, id string) (*storage.Candidate, error) {
	for _, candidate := range s.candidates {
		if candidate.ID == id {
			return candidate, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeCandidateStorage) GetAll(_ context.Context) ([]*storage.Candidate, error) {
	return s.candidates, nil
}

func (s *fakeCandidateStorage) GetByPoll(_ context.Context, pollSlug string) ([]*storage.Candidate, error) {
	out := make([]*storage.Candidate, 0)
	for _, candidate := range s.candidates {
		if candidate.PollSlug == pollSlug {
			out = append(out, candidate)
		}
	}
	return out, nil
}

func (s *fakeCandidateStorage) Create(_ context.Context, candidate *storage.Candidate) error {
	s.candidates = append(s.candidates, candidate)
	return nil
}

func (s *fakeCandidateStorage) Update(_ context.Context, _ *storage.Candidate) error { return nil }
func (s *fakeCandidateStorage) Delete(_ context.Context, _ string) error             { return nil }

type fakeSubmissionStorage struct {
	submissions map[string]*storage.Submission
}

func newFakeSubmissionStorage() *fakeSubmissionStorage {
	return &fakeSubmissionStorage{submissions: make(map[string]*storage.Submission)}
}

func (s *fakeSubmissionStorage) key(partition, deviceID string) string {
	return partition + "|" + deviceID
}

func (s *fakeSubmissionStorage) Get(_ context.Context, pollSlug, voteDay, deviceID string) (*storage.Submission, error) {
	submission, ok := s.submissions[s.key(storage.SubmissionPartition(pollSlug, voteDay), deviceID)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return submission, nil
}

func (s *fakeSubmissionStorage) GetByDay(_ context.Context, pollSlug, voteDay string) ([]*storage.Submission, error) {
	partition := storage.SubmissionPartition(pollSlug, voteDay)
	out := make([]*storage.Submission, 0)
	for _, submission := range s.submissions {
		if submission.PartitionKey == partition {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (s *fakeSubmissionStorage) GetByPoll(_ context.Context, pollSlug string) ([]*storage.Submission, error) {
	out := make([]*storage.Submission, 0)
	for _, submission := range s.submissions {
		if submission.PollSlug == pollSlug {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (s *fakeSubmissionStorage) Create(_ context.Context, submission *storage.Submission) error {
	k := s.key(submission.PartitionKey, submission.DeviceID)
	if _, ok := s.submissions[k]; ok {
		return storage.ErrAlreadyExists
	}
	s.submissions[k] = submission
	return nil
}

func (s *fakeSubmissionStorage) DeleteAll(_ context.Context) error {
	s.submissions = make(map[string]*storage.Submission)
	return nil
}

type votingFixture struct {
	router      *gin.Engine
	polls       *fakePollStorage
	groups      *fakeGroupStorage
	candidates  *fakeCandidateStorage
	submissions *fakeSubmissionStorage
}

func newVotingFixture() *votingFixture {
	f := &votingFixture{
		polls:       &fakePollStorage{polls: make(map[string]*storage.Poll)},
		groups:      &fakeGroupStorage{},
		candidates:  &fakeCandidateStorage{},
		submissions: newFakeSubmissionStorage(),
	}
	f.polls.polls["ministers"] = &storage.Poll{Slug: "ministers", Title: "Ministers", MinSelections: 3, Active: true}
	f.groups.groups = []*storage.CandidateGroup{
		{ID: "grp-gov", PollSlug: "ministers", Key: "government", Name: "الحكومة", Order: 1},
		{ID: "grp-sport", PollSlug: "ministers", Key: "sport", Name: "الرياضة", Order: 2},
	}
	for i := 0; i < 8; i++ {
		f.candidates.candidates = append(f.candidates.candidates, &storage.Candidate{
			ID:       "gov-" + string(rune('a'+i)),
			PollSlug: "ministers",
			GroupID:  "grp-gov",
			Name:     "Minister " + string(rune('A'+i)),
		})
	}
	f.candidates.candidates = append(f.candidates.candidates,
		&storage.Candidate{ID: "sport-a", PollSlug: "ministers", GroupID: "grp-sport", Name: "Athlete A"},
		&storage.Candidate{ID: "sport-b", PollSlug: "ministers", GroupID: "grp-sport", Name: "Athlete B"},
	)

	f.router = gin.New()
	NewVotingController(f.polls, f.groups, f.candidates, f.submissions, 3).RegisterRoutes(f.router)
	return f
}

func boardCandidateIDs(r models.BoardResponse) []string {
	ids := make([]string, 0, len(r.Candidates))
	for _, candidate := range r.Candidates {
		ids = append(ids, candidate.ID)
	}
	return ids
}

func TestGetBoard(t *testing.T) {
	t.Run("Happy path - first group selected, shuffle fixed per day", func(t *testing.T) {
		f := newVotingFixture()

		res := testutils.PerformRequest(f.router, http.MethodGet, "/api/polls/ministers/board?day=2025-03-01", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var board models.BoardResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &board))
		assert.Equal(t, "ministers", board.Poll.Slug)
		assert.Equal(t, "2025-03-01", board.VoteDay)
		assert.Equal(t, "grp-gov", board.Group, "first group by order is the default")
		require.Len(t, board.Groups, 2)
		assert.Len(t, board.Candidates, 8, "only the active group's candidates are returned")

		// Same day, same order.
		res = testutils.PerformRequest(f.router, http.MethodGet, "/api/polls/ministers/board?day=2025-03-01", nil, nil)
		var again models.BoardResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &again))
		assert.Equal(t, boardCandidateIDs(board), boardCandidateIDs(again))

		// Another day reshuffles but keeps the same candidate set.
		res = testutils.PerformRequest(f.router, http.MethodGet, "/api/polls/ministers/board?day=2025-03-02", nil, nil)
		var nextDay models.BoardResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &nextDay))
		assert.ElementsMatch(t, boardCandidateIDs(board), boardCandidateIDs(nextDay))
		assert.NotEqual(t, boardCandidateIDs(board), boardCandidateIDs(nextDay))
	})

	t.Run("Explicit group query filters the candidates", func(t *testing.T) {
		f := newVotingFixture()

		res := testutils.PerformRequest(f.router, http.MethodGet, "/api/polls/ministers/board?group=grp-sport", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var board models.BoardResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &board))
		assert.Equal(t, "grp-sport", board.Group)
		assert.ElementsMatch(t, []string{"sport-a", "sport-b"}, boardCandidateIDs(board))
	})

	t.Run("Unknown poll returns 404", func(t *testing.T) {
		f := newVotingFixture()

		res := testutils.PerformRequest(f.router, http.MethodGet, "/api/polls/nope/board", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func submissionBody(deviceID string, tiers map[string][]models.TierEntry) models.RegisterSubmissionRequest {
	return models.RegisterSubmissionRequest{PollSlug: "ministers", DeviceID: deviceID, Tiers: tiers}
}

func TestRegisterSubmission(t *testing.T) {
	validTiers := map[string][]models.TierEntry{
		"S": {{CandidateID: "gov-a", Pos: 0}, {CandidateID: "gov-b", Pos: 1}},
		"B": {{CandidateID: "gov-c", Pos: 0}},
	}

	t.Run("Happy path - submission stored and readable back", func(t *testing.T) {
		f := newVotingFixture()

		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-1", validTiers), nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		var response models.RegisterSubmissionResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.Len(t, response.Receipt, 8)
		assert.Equal(t, "vote registered", response.Message)

		res = testutils.PerformRequest(f.router, http.MethodGet, "/api/polls/ministers/votes/device-1", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var stored models.GetSubmissionResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &stored))
		assert.Equal(t, response.Receipt, stored.Receipt)
		assert.Equal(t, time.Now().UTC().Format("2006-01-02"), stored.VoteDay)
		require.Len(t, stored.Tiers["S"], 2)
		assert.Equal(t, "gov-a", stored.Tiers["S"][0].CandidateID)
		assert.Equal(t, 1, stored.Tiers["S"][1].Pos)
	})

	t.Run("Second vote from the same device on the same day is rejected", func(t *testing.T) {
		f := newVotingFixture()

		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-1", validTiers), nil)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-1", validTiers), nil)
		require.Equal(t, http.StatusConflict, res.Code)

		var errResponse models.ErrorResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &errResponse))
		assert.Equal(t, models.MsgAlreadyVoted, errResponse.Error)

		// A different device is still welcome.
		res = testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-2", validTiers), nil)
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("Closed poll rejects votes", func(t *testing.T) {
		f := newVotingFixture()
		f.polls.polls["ministers"].Active = false

		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-1", validTiers), nil)
		require.Equal(t, http.StatusConflict, res.Code)

		var errResponse models.ErrorResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &errResponse))
		assert.Equal(t, models.MsgPollClosed, errResponse.Error)
	})

	t.Run("Fewer placements than the poll minimum is rejected", func(t *testing.T) {
		f := newVotingFixture()

		tiers := map[string][]models.TierEntry{
			"S": {{CandidateID: "gov-a", Pos: 0}, {CandidateID: "gov-b", Pos: 1}},
		}
		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-1", tiers), nil)
		require.Equal(t, http.StatusBadRequest, res.Code)

		var errResponse models.ErrorResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &errResponse))
		assert.Equal(t, models.MsgTooFewSelections, errResponse.Error)
	})

	t.Run("Poll minimum above the default is honored", func(t *testing.T) {
		f := newVotingFixture()
		f.polls.polls["ministers"].MinSelections = 5

		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-1", validTiers), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("Validation failures return 400", func(t *testing.T) {
		f := newVotingFixture()

		// Missing device id.
		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("", validTiers), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)

		// Unknown candidate.
		res = testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-1", map[string][]models.TierEntry{
			"S": {{CandidateID: "gov-a"}, {CandidateID: "gov-b"}, {CandidateID: "who"}},
		}), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)

		// Same candidate placed twice.
		res = testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-1", map[string][]models.TierEntry{
			"S": {{CandidateID: "gov-a"}, {CandidateID: "gov-b"}},
			"F": {{CandidateID: "gov-a"}},
		}), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)

		// Tier key outside S..F.
		res = testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/ministers/votes", submissionBody("device-1", map[string][]models.TierEntry{
			"S": {{CandidateID: "gov-a"}, {CandidateID: "gov-b"}, {CandidateID: "gov-c"}},
			"X": {{CandidateID: "gov-d"}},
		}), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("Unknown poll returns 404", func(t *testing.T) {
		f := newVotingFixture()

		res := testutils.PerformRequest(f.router, http.MethodPost, "/api/polls/nope/votes", submissionBody("device-1", validTiers), nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestGetSubmission(t *testing.T) {
	t.Run("No submission for the device returns 404", func(t *testing.T) {
		f := newVotingFixture()

		res := testutils.PerformRequest(f.router, http.MethodGet, "/api/polls/ministers/votes/device-1", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestComputeResults(t *testing.T) {
	t.Run("Happy path - weighted tally sorted by score then name", func(t *testing.T) {
		f := newVotingFixture()

		seed := func(deviceID string, entries []storage.SubmissionEntry) {
			err := f.submissions.Create(context.Background(), &storage.Submission{
				PartitionKey: storage.SubmissionPartition("ministers", "2025-03-01"),
				DeviceID:     deviceID,
				PollSlug:     "ministers",
				VoteDay:      "2025-03-01",
				ReceiptID:    "R-" + deviceID,
				Entries:      entries,
			})
			require.NoError(t, err)
		}
		seed("device-1", []storage.SubmissionEntry{
			{Tier: "S", CandidateID: "gov-a", Pos: 0},
			{Tier: "B", CandidateID: "gov-b", Pos: 0},
		})
		seed("device-2", []storage.SubmissionEntry{
			{Tier: "A", CandidateID: "gov-a", Pos: 0},
			{Tier: "F", CandidateID: "gov-b", Pos: 0},
		})

		res := testutils.PerformRequest(f.router, http.MethodGet, "/api/polls/ministers/results", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var results models.ResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &results))
		assert.Equal(t, "ministers", results.PollSlug)
		assert.Equal(t, 2, results.Submissions)
		require.Len(t, results.Results, 2)

		first := results.Results[0]
		assert.Equal(t, "gov-a", first.CandidateID)
		assert.Equal(t, "Minister A", first.Name)
		assert.Equal(t, 11, first.Score, "S is worth 6 and A is worth 5")
		assert.Equal(t, 2, first.Placements)
		assert.Equal(t, map[string]int{"S": 1, "A": 1}, first.TierCounts)

		second := results.Results[1]
		assert.Equal(t, "gov-b", second.CandidateID)
		assert.Equal(t, 5, second.Score)
	})

	t.Run("No submissions yields an empty result list", func(t *testing.T) {
		f := newVotingFixture()

		res := testutils.PerformRequest(f.router, http.MethodGet, "/api/polls/ministers/results", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var results models.ResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &results))
		assert.Equal(t, 0, results.Submissions)
		assert.Empty(t, results.Results)
	})
}
