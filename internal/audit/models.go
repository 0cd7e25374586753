package audit

import "time"

// Entry is an immutable, append-only audit record of a lifecycle event.
//
// Invariants:
// - Entries are never updated or deleted (enforced by a trigger in Postgres).
// - TargetID may outlive its target; deleted assets keep their history.
type Entry struct {
	ID         string         `json:"id"`
	Action     Action         `json:"action"`
	UserID     string         `json:"userId"`
	UserName   string         `json:"userName"`
	TargetType string         `json:"targetType"`
	TargetID   string         `json:"targetId"`
	Changes    map[string]any `json:"changes,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

type Action string

const (
	ActionCreated  Action = "created"
	ActionApproved Action = "approved"
	ActionRejected Action = "rejected"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreated, ActionApproved, ActionRejected, ActionUpdated, ActionDeleted:
		return true
	default:
		return false
	}
}

// TargetKnowledgeAsset is the target type of every asset lifecycle entry.
const TargetKnowledgeAsset = "knowledgeAsset"

const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 50
)
