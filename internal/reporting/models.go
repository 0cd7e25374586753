package reporting

// Statistics feeds the dashboard overview.
type Statistics struct {
	TotalAssets    int `json:"totalAssets"`
	ApprovedAssets int `json:"approvedAssets"`
	PendingAssets  int `json:"pendingAssets"`
	RejectedAssets int `json:"rejectedAssets"`
	// TotalUsers keeps the dashboard's historical field name.
	TotalUsers     int `json:"totalConsultants"`
	TotalTrainings int `json:"totalTrainings"`

	CategoryDistribution map[string]int `json:"categoryDistribution"`
	TopContributors      []Contributor  `json:"topContributors"`
}

type Contributor struct {
	UserID string `json:"userId"`
	Count  int    `json:"count"`
}

// MaxTopContributors caps Statistics.TopContributors.
const MaxTopContributors = 5

// UnknownCategory labels assets without a category.
const UnknownCategory = "Unknown"

func emptyStatistics() Statistics {
	return Statistics{
		CategoryDistribution: map[string]int{},
		TopContributors:      []Contributor{},
	}
}
