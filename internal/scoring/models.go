package scoring

import "time"

// Point values awarded by the ledger. Submissions are counted but earn no points.
const (
	ApprovalPoints = 50
	TrainingPoints = 10
)

// ScoreRecord is the running tally of one user. Exactly one exists per user,
// created at signup with all counters at zero.
//
// Reviews counts approvals of assets the user authored, not reviews the user performed.
type ScoreRecord struct {
	UserID      string    `json:"userId"`
	Points      int64     `json:"points"`
	Submissions int64     `json:"submissions"`
	Reviews     int64     `json:"reviews"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Delta is a counter increment. Only the ledger constructs these.
type Delta struct {
	Points      int64
	Submissions int64
	Reviews     int64
}

// Standing is a leaderboard row. Rank is a read-time projection and never persisted.
type Standing struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	UserRole    string `json:"userRole"`
	Points      int64  `json:"points"`
	Submissions int64  `json:"submissions"`
	Reviews     int64  `json:"reviews"`
}

// Member is the display data the leaderboard joins from the identity directory.
type Member struct {
	Name string
	Role string
}

// UnknownMember substitutes for identities that no longer exist.
const UnknownMember = "Unknown"
