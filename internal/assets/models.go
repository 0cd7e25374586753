package assets

import "time"

// Status is the review state of a knowledge asset.
// Transitions: pending -> approved | rejected. Both outcomes are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// Asset is a submitted document, template or guide.
//
// ReviewStatus mirrors Status for older reviewer clients. ReviewedBy and
// ReviewComments stay nil until the review transition.
type Asset struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Content        string    `json:"content"`
	Category       string    `json:"category"`
	Region         string    `json:"region,omitempty"`
	Author         string    `json:"author"`
	AuthorID       string    `json:"authorId"`
	Status         Status    `json:"status"`
	ReviewStatus   Status    `json:"reviewStatus"`
	ReviewedBy     *string   `json:"reviewedBy"`
	ReviewComments *string   `json:"reviewComments"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateInput is the submitter's payload. ContentType is the dashboard's
// older name for Category and is used when Category is empty.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content,omitempty"`
	Category    string   `json:"category,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Region      string   `json:"region,omitempty"`
}

// Patch holds the mutable fields; nil means unchanged. Status, authorship and
// review fields are not patchable.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Region      *string   `json:"region,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Content == nil &&
		p.Category == nil && p.Region == nil && p.Tags == nil
}

// Decision is a reviewer's verdict on a pending asset.
type Decision struct {
	Status         Status `json:"status"`
	ReviewComments string `json:"reviewComments,omitempty"`
}

// Filter narrows List. Zero values mean "any".
type Filter struct {
	Status   Status
	AuthorID string
	// Term matches title, description or content, case-insensitively.
	Term        string
	NewestFirst bool
	Limit       int
}

// DefaultCategory is applied when the submitter gives none.
const DefaultCategory = "Document"
