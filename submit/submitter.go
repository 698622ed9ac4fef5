package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/SYCompass/syrianzone-tierlist/tierlist"
)

const (
	// DefaultMinSelections is the minimum number of placed candidates a
	// poll requires unless configured otherwise.
	DefaultMinSelections = 3
	// CooldownPeriod is the wait enforced after a successful submission.
	CooldownPeriod = 60 * time.Second
)

// Submitter validates a tier snapshot and posts it to the submit endpoint.
// A Submitter is scoped to one poll and vote day.
type Submitter struct {
	Endpoint      string
	PollSlug      string
	PollID        string
	VoteDay       string
	MinSelections int

	Client *http.Client
	Store  Store

	now      func() time.Time
	inFlight atomic.Bool
}

// NewSubmitter wires a submitter with the default client and minimum.
func NewSubmitter(endpoint, pollSlug, pollID, voteDay string, store Store) *Submitter {
	return &Submitter{
		Endpoint:      endpoint,
		PollSlug:      pollSlug,
		PollID:        pollID,
		VoteDay:       voteDay,
		MinSelections: DefaultMinSelections,
		Client:        &http.Client{},
		Store:         store,
		now:           time.Now,
	}
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	Receipt string `json:"receipt"`
	Message string `json:"message"`
}

type payload struct {
	PollSlug string                              `json:"pollSlug"`
	DeviceID string                              `json:"deviceId"`
	Tiers    map[tierlist.TierKey][]payloadEntry `json:"tiers"`
}

type payloadEntry struct {
	CandidateID string `json:"candidateId"`
	Pos         int    `json:"pos"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Submit validates snap and posts it. Validation runs before any network
// call: first the minimum-selection threshold, then the cooldown. On a 2xx
// response the cooldown is advanced by CooldownPeriod; on any failure it
// is left untouched so an immediate retry is allowed.
//
// A second Submit while one is in flight fails fast with ErrSubmitInFlight.
func (s *Submitter) Submit(ctx context.Context, snap tierlist.Snapshot) (*Receipt, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	min := s.MinSelections
	if min <= 0 {
		min = DefaultMinSelections
	}
	if placed := snap.Placed(); placed < min {
		return nil, &InsufficientSelectionsError{Placed: placed, Min: min}
	}

	now := s.clock()
	key := CooldownKey(s.PollID, s.VoteDay)
	if until, ok := s.Store.CooldownUntil(key); ok && now.Before(until) {
		return nil, &CooldownActiveError{Remaining: until.Sub(now)}
	}

	deviceID, err := s.Store.DeviceID()
	if err != nil {
		return nil, fmt.Errorf("load device id: %w", err)
	}

	body := payload{
		PollSlug: s.PollSlug,
		DeviceID: deviceID,
		Tiers:    make(map[tierlist.TierKey][]payloadEntry, len(tierlist.TierOrder)),
	}
	for _, k := range tierlist.TierOrder {
		entries := make([]payloadEntry, 0, len(snap[k]))
		for _, e := range snap[k] {
			entries = append(entries, payloadEntry{CandidateID: e.CandidateID, Pos: e.Pos})
		}
		body.Tiers[k] = entries
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Message
		}
		if msg == "" {
			msg = GenericFailureMessage
		}
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := s.Store.SetCooldownUntil(key, now.Add(CooldownPeriod)); err != nil {
		return nil, fmt.Errorf("persist cooldown: %w", err)
	}

	receipt := &Receipt{}
	_ = json.Unmarshal(respBody, receipt)
	return receipt, nil
}

func (s *Submitter) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
