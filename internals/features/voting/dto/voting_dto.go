package dto

/* ===================== Requests ===================== */

type VoteCountItem struct {
	CandidateID uint `json:"candidateId" validate:"required"`
	VoteCount   int  `json:"voteCount" validate:"min=0"`
}

type BulkEntryRequest struct {
	CommitteeID      uint            `json:"committeeId" validate:"required"`
	VoteCounts       []VoteCountItem `json:"voteCounts" validate:"required,min=1,dive"`
	TotalBallotsCast int             `json:"totalBallotsCast" validate:"min=0"`
	InvalidBallots   int             `json:"invalidBallots" validate:"min=0"`
	Notes            *string         `json:"notes" validate:"omitempty,max=1000"`
}

type CreateVoteCountRequest struct {
	CommitteeID uint `json:"committeeId" validate:"required"`
	CandidateID uint `json:"candidateId" validate:"required"`
	VoteCount   int  `json:"voteCount" validate:"min=0"`
}

type UpdateVoteCountRequest struct {
	VoteCount *int `json:"voteCount" validate:"omitempty,min=0"`
}

/* ===================== Responses ===================== */

// CandidateResult is one ranked row inside results_data.
type CandidateResult struct {
	CandidateID     uint    `json:"candidateId"`
	CandidateNumber int     `json:"candidateNumber"`
	Name            string  `json:"name"`
	PartyID         *uint   `json:"partyId"`
	TotalVotes      int64   `json:"totalVotes"`
	VotePercentage  float64 `json:"votePercentage"`
	Rank            int     `json:"rank"`
}

type CommitteeProgress struct {
	CommitteeID          uint    `json:"committeeId"`
	CommitteeCode        string  `json:"committeeCode"`
	CommitteeName        string  `json:"committeeName"`
	Status               string  `json:"status"`
	CompletionPercentage float64 `json:"completionPercentage"`
}
