package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/store"
)

var (
	ErrInvalidVote = errors.New("invalid vote type")
	// ErrNotEligibleVoter is returned when the voter is outside the
	// workspace's required-voter set. This is what keeps a deal's ic_votes
	// from ever exceeding that set.
	ErrNotEligibleVoter = errors.New("user is not an eligible IC voter")
	ErrVotingClosed     = errors.New("deal is not in IC review")
)

// VoterPolicy decides who must vote before an IC decision can finalize.
type VoterPolicy interface {
	RequiredVoters(ctx context.Context, ws *model.Workspace) ([]int64, error)
}

// AllMembersPolicy requires a vote from every workspace member.
type AllMembersPolicy struct{}

func (AllMembersPolicy) RequiredVoters(_ context.Context, ws *model.Workspace) ([]int64, error) {
	return ws.Members, nil
}

// RoleVoterPolicy restricts the required-voter set to members holding one of
// the configured roles, e.g. partners and admins.
type RoleVoterPolicy struct {
	Users store.UserStore
	Roles []model.UserRole
}

func (p RoleVoterPolicy) RequiredVoters(ctx context.Context, ws *model.Workspace) ([]int64, error) {
	voters := make([]int64, 0, len(ws.Members))
	for _, memberID := range ws.Members {
		user, err := p.Users.GetByID(ctx, memberID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving voter %d: %w", memberID, err)
		}
		for _, role := range p.Roles {
			if user.Role == role {
				voters = append(voters, memberID)
				break
			}
		}
	}
	return voters, nil
}

// VoteResult is what a cast vote produces: the refreshed summary and, when
// this vote completed the quorum, the finalized decision.
type VoteResult struct {
	Deal      *model.Deal
	Summary   model.VoteSummary
	Finalized bool
	Decision  *model.ICDecision
}

type VotingService interface {
	CastVote(ctx context.Context, dealID, userID int64, vote model.VoteType, comment string) (*VoteResult, error)
	Summarize(votes map[int64]model.VoteType) model.VoteSummary
	QuorumMet(ctx context.Context, deal *model.Deal, ws *model.Workspace) (bool, error)
	// Finalize runs the IC decision exactly once. Calling it on an already
	// finalized deal returns the recorded decision without side effects.
	Finalize(ctx context.Context, deal *model.Deal) (*model.ICDecision, model.VoteSummary, error)
}

type votingService struct {
	deals      store.DealStore
	workspaces store.WorkspaceStore
	policy     VoterPolicy
}

func NewVotingService(deals store.DealStore, workspaces store.WorkspaceStore, policy VoterPolicy) VotingService {
	if policy == nil {
		policy = AllMembersPolicy{}
	}
	return &votingService{deals: deals, workspaces: workspaces, policy: policy}
}

func (s *votingService) CastVote(ctx context.Context, dealID, userID int64, vote model.VoteType, comment string) (*VoteResult, error) {
	if !vote.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVote, vote)
	}

	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("getting deal: %w", err)
	}
	if deal.Status != model.DealStatusICReview {
		return nil, ErrVotingClosed
	}

	ws, err := s.workspaces.GetByID(ctx, deal.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("getting workspace: %w", err)
	}

	required, err := s.policy.RequiredVoters(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("resolving required voters: %w", err)
	}
	if !containsID(required, userID) {
		return nil, ErrNotEligibleVoter
	}

	if deal.ICVotes == nil {
		deal.ICVotes = map[int64]model.VoteType{}
	}
	deal.ICVotes[userID] = vote // later vote overwrites earlier

	if comment != "" {
		deal.ICComments = append(deal.ICComments, model.ICComment{
			UserID:    userID,
			Comment:   comment,
			Vote:      vote,
			Timestamp: time.Now().UTC(),
		})
	}

	deal.LogActivity(userID, "vote_cast", fmt.Sprintf("IC vote: %s", vote))
	deal.UpdatedAt = time.Now().UTC()
	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("saving vote: %w", err)
	}

	result := &VoteResult{
		Deal:    deal,
		Summary: s.Summarize(deal.ICVotes),
	}

	quorum := votesComplete(deal.ICVotes, required)
	if quorum && !deal.Finalized() {
		decision, summary, err := s.Finalize(ctx, deal)
		if err != nil {
			return nil, err
		}
		result.Summary = summary
		result.Finalized = true
		result.Decision = decision
	}

	slog.InfoContext(ctx, "ic vote cast",
		"deal_id", dealID,
		"user_id", userID,
		"vote", vote,
		"total_votes", result.Summary.TotalVotes,
		"finalized", result.Finalized,
	)

	return result, nil
}

// Summarize computes the weighted score, recommendation bucket, and
// consensus level for a vote map.
func (s *votingService) Summarize(votes map[int64]model.VoteType) model.VoteSummary {
	total := len(votes)
	if total == 0 {
		return model.VoteSummary{
			VoteCounts:     map[model.VoteType]int{},
			Recommendation: model.RecommendationPending,
			ConsensusLevel: model.ConsensusNone,
		}
	}

	counts := make(map[model.VoteType]int, 6)
	weighted := 0
	for _, vote := range votes {
		counts[vote]++
		weighted += vote.Weight()
	}

	average := float64(weighted) / float64(total)

	var recommendation model.Recommendation
	switch {
	case average >= 1.5:
		recommendation = model.RecommendationStrongProceed
	case average >= 0.5:
		recommendation = model.RecommendationProceed
	case average >= -0.5:
		recommendation = model.RecommendationFurtherReview
	default:
		recommendation = model.RecommendationDoNotProceed
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	ratio := float64(maxCount) / float64(total)

	var consensus model.ConsensusLevel
	switch {
	case ratio >= 0.8:
		consensus = model.ConsensusStrong
	case ratio >= 0.6:
		consensus = model.ConsensusModerate
	case ratio >= 0.4:
		consensus = model.ConsensusWeak
	default:
		consensus = model.ConsensusNone
	}

	return model.VoteSummary{
		TotalVotes:     total,
		VoteCounts:     counts,
		WeightedScore:  weighted,
		AverageScore:   average,
		Recommendation: recommendation,
		ConsensusLevel: consensus,
	}
}

func (s *votingService) QuorumMet(ctx context.Context, deal *model.Deal, ws *model.Workspace) (bool, error) {
	required, err := s.policy.RequiredVoters(ctx, ws)
	if err != nil {
		return false, fmt.Errorf("resolving required voters: %w", err)
	}
	return votesComplete(deal.ICVotes, required), nil
}

func (s *votingService) Finalize(ctx context.Context, deal *model.Deal) (*model.ICDecision, model.VoteSummary, error) {
	summary := s.Summarize(deal.ICVotes)

	if deal.Finalized() {
		return deal.ICDecision, summary, nil
	}
	if deal.Status != model.DealStatusICReview {
		return nil, summary, ErrVotingClosed
	}

	decision := &model.ICDecision{
		Recommendation: summary.Recommendation,
		FinalizedAt:    time.Now().UTC(),
	}
	if summary.Recommendation.Approved() {
		decision.Decision = "approved"
		deal.Status = model.DealStatusNegotiation
	} else {
		decision.Decision = "rejected"
		deal.Status = model.DealStatusClosedLost
	}
	deal.ICDecision = decision

	deal.LogActivity(0, "ic_decision",
		fmt.Sprintf("IC Decision: %s with %s", decision.Decision, summary.ConsensusLevel))
	deal.UpdatedAt = time.Now().UTC()

	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, summary, fmt.Errorf("saving IC decision: %w", err)
	}

	slog.InfoContext(ctx, "ic decision finalized",
		"deal_id", deal.ID,
		"decision", decision.Decision,
		"recommendation", summary.Recommendation,
		"consensus", summary.ConsensusLevel,
	)

	return decision, summary, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func votesComplete(votes map[int64]model.VoteType, required []int64) bool {
	if len(required) == 0 {
		return false
	}
	for _, voterID := range required {
		if _, ok := votes[voterID]; !ok {
			return false
		}
	}
	return true
}
