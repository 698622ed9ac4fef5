package storage

import "time"

type Poll struct {
	Slug          string    `dynamodbav:"PK"`
	Title         string    `dynamodbav:"Title"`
	MinSelections int       `dynamodbav:"MinSelections"`
	Active        bool      `dynamodbav:"Active"`
	CreatedAt     time.Time `dynamodbav:"CreatedAt"`
}

type CandidateGroup struct {
	ID       string `dynamodbav:"PK"`
	PollSlug string `dynamodbav:"PollSlug"`
	Key      string `dynamodbav:"Key"`
	Name     string `dynamodbav:"Name"`
	Order    int    `dynamodbav:"Order"`
}

type Candidate struct {
	ID       string `dynamodbav:"PK"`
	PollSlug string `dynamodbav:"PollSlug"`
	GroupID  string `dynamodbav:"GroupID"`
	Category string `dynamodbav:"Category"` // legacy group key on rows imported before groups
	Name     string `dynamodbav:"Name"`
	Title    string `dynamodbav:"Title"`
	ImageURL string `dynamodbav:"ImageURL"`
}

type SubmissionEntry struct {
	Tier        string `dynamodbav:"Tier" json:"tier"`
	CandidateID string `dynamodbav:"CandidateID" json:"candidateId"`
	Pos         int    `dynamodbav:"Pos" json:"pos"`
}

// Submission is one device's tier list for one poll and vote day. The
// partition key folds poll and day together so one query fetches a day's
// submissions, and the device-id sort key turns a re-submission into a
// conditional-put conflict.
type Submission struct {
	PartitionKey string            `dynamodbav:"PK" json:"-"`
	DeviceID     string            `dynamodbav:"SK" json:"deviceId"`
	PollSlug     string            `dynamodbav:"PollSlug" json:"pollSlug"`
	VoteDay      string            `dynamodbav:"VoteDay" json:"voteDay"`
	ReceiptID    string            `dynamodbav:"ReceiptID" json:"receipt"`
	Entries      []SubmissionEntry `dynamodbav:"Entries" json:"entries"`
	Timestamp    time.Time         `dynamodbav:"Timestamp" json:"timestamp"`
}

// SubmissionPartition builds the PK for a poll slug and vote day.
func SubmissionPartition(slug, voteDay string) string {
	return slug + "#" + voteDay
}
