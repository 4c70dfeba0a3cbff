package model

type VoteType string

const (
	VoteStrongYes VoteType = "strong_yes"
	VoteYes       VoteType = "yes"
	VoteNeutral   VoteType = "neutral"
	VoteNo        VoteType = "no"
	VoteStrongNo  VoteType = "strong_no"
	VoteAbstain   VoteType = "abstain"
)

// voteWeights are fixed; abstentions count toward quorum but not the score.
var voteWeights = map[VoteType]int{
	VoteStrongYes: 2,
	VoteYes:       1,
	VoteNeutral:   0,
	VoteNo:        -1,
	VoteStrongNo:  -2,
	VoteAbstain:   0,
}

func (v VoteType) IsValid() bool {
	_, ok := voteWeights[v]
	return ok
}

func (v VoteType) Weight() int {
	return voteWeights[v]
}

type Recommendation string

const (
	RecommendationStrongProceed Recommendation = "strong_proceed"
	RecommendationProceed       Recommendation = "proceed"
	RecommendationFurtherReview Recommendation = "further_review"
	RecommendationDoNotProceed  Recommendation = "do_not_proceed"
	RecommendationPending       Recommendation = "pending"
)

// Approved reports whether the recommendation carries the deal forward into
// negotiation when the committee finalizes.
func (r Recommendation) Approved() bool {
	return r == RecommendationStrongProceed || r == RecommendationProceed
}

type ConsensusLevel string

const (
	ConsensusStrong   ConsensusLevel = "strong_consensus"
	ConsensusModerate ConsensusLevel = "moderate_consensus"
	ConsensusWeak     ConsensusLevel = "weak_consensus"
	ConsensusNone     ConsensusLevel = "no_consensus"
)

// VoteSummary is the derived view of a deal's IC votes broadcast after every
// vote_cast and attached to the final decision.
type VoteSummary struct {
	TotalVotes     int              `json:"total_votes"`
	VoteCounts     map[VoteType]int `json:"vote_counts"`
	WeightedScore  int              `json:"weighted_score"`
	AverageScore   float64          `json:"average_score"`
	Recommendation Recommendation   `json:"recommendation"`
	ConsensusLevel ConsensusLevel   `json:"consensus_level"`
}
