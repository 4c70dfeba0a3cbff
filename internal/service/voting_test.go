package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/service"
	"dealflow.app/hub/internal/store"
)

var _ = Describe("VotingService", func() {
	var (
		svc        service.VotingService
		deals      *mockDealStore
		workspaces *mockWorkspaceStore
		ctx        context.Context
		deal       *model.Deal
		ws         *model.Workspace
	)

	BeforeEach(func() {
		ctx = context.Background()
		deals = &mockDealStore{}
		workspaces = &mockWorkspaceStore{}

		ws = &model.Workspace{
			ID:      10,
			Name:    "Growth Fund II",
			Members: []int64{1, 2, 3},
		}
		deal = &model.Deal{
			ID:          100,
			WorkspaceID: 10,
			CompanyName: "Acme Robotics",
			Status:      model.DealStatusICReview,
			ICVotes:     map[int64]model.VoteType{},
		}

		deals.getByIDFn = func(_ context.Context, _ int64) (*model.Deal, error) {
			return deal, nil
		}
		workspaces.getByIDFn = func(_ context.Context, _ int64) (*model.Workspace, error) {
			return ws, nil
		}

		svc = service.NewVotingService(deals, workspaces, service.AllMembersPolicy{})
	})

	Describe("CastVote", func() {
		It("should record the vote and return a summary", func() {
			result, err := svc.CastVote(ctx, 100, 1, model.VoteYes, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Deal.ICVotes).To(HaveKeyWithValue(int64(1), model.VoteYes))
			Expect(result.Summary.TotalVotes).To(Equal(1))
			Expect(result.Finalized).To(BeFalse())
		})

		It("should overwrite an earlier vote from the same member", func() {
			_, err := svc.CastVote(ctx, 100, 1, model.VoteYes, "")
			Expect(err).NotTo(HaveOccurred())

			result, err := svc.CastVote(ctx, 100, 1, model.VoteNo, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Deal.ICVotes).To(HaveKeyWithValue(int64(1), model.VoteNo))
			Expect(result.Summary.TotalVotes).To(Equal(1))
		})

		It("should record a committee comment when one accompanies the vote", func() {
			result, err := svc.CastVote(ctx, 100, 2, model.VoteStrongYes, "Great team, strong margins")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Deal.ICComments).To(HaveLen(1))
			Expect(result.Deal.ICComments[0].UserID).To(Equal(int64(2)))
			Expect(result.Deal.ICComments[0].Vote).To(Equal(model.VoteStrongYes))
		})

		It("should reject an unknown vote type", func() {
			_, err := svc.CastVote(ctx, 100, 1, model.VoteType("maybe"), "")
			Expect(err).To(MatchError(service.ErrInvalidVote))
		})

		It("should reject votes while the deal is not in IC review", func() {
			deal.Status = model.DealStatusDueDiligence

			_, err := svc.CastVote(ctx, 100, 1, model.VoteYes, "")
			Expect(err).To(MatchError(service.ErrVotingClosed))
		})

		It("should reject voters outside the required set", func() {
			_, err := svc.CastVote(ctx, 100, 99, model.VoteYes, "")
			Expect(err).To(MatchError(service.ErrNotEligibleVoter))
		})

		It("should return ErrDealNotFound for a missing deal", func() {
			deals.getByIDFn = func(_ context.Context, _ int64) (*model.Deal, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.CastVote(ctx, 100, 1, model.VoteYes, "")
			Expect(err).To(MatchError(service.ErrDealNotFound))
		})

		Context("when the final required voter casts their vote", func() {
			It("should finalize an approved deal into negotiation", func() {
				_, err := svc.CastVote(ctx, 100, 1, model.VoteStrongYes, "")
				Expect(err).NotTo(HaveOccurred())
				_, err = svc.CastVote(ctx, 100, 2, model.VoteYes, "")
				Expect(err).NotTo(HaveOccurred())

				result, err := svc.CastVote(ctx, 100, 3, model.VoteYes, "")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Finalized).To(BeTrue())
				Expect(result.Decision).NotTo(BeNil())
				Expect(result.Decision.Decision).To(Equal("approved"))
				Expect(result.Deal.Status).To(Equal(model.DealStatusNegotiation))
			})

			It("should finalize a rejected deal into closed lost", func() {
				_, err := svc.CastVote(ctx, 100, 1, model.VoteNo, "")
				Expect(err).NotTo(HaveOccurred())
				_, err = svc.CastVote(ctx, 100, 2, model.VoteStrongNo, "")
				Expect(err).NotTo(HaveOccurred())

				result, err := svc.CastVote(ctx, 100, 3, model.VoteNo, "")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Finalized).To(BeTrue())
				Expect(result.Decision.Decision).To(Equal("rejected"))
				Expect(result.Deal.Status).To(Equal(model.DealStatusClosedLost))
			})

			It("should log the decision as a system activity entry", func() {
				for _, voterID := range []int64{1, 2, 3} {
					_, err := svc.CastVote(ctx, 100, voterID, model.VoteYes, "")
					Expect(err).NotTo(HaveOccurred())
				}

				last := deal.ActivityLog[len(deal.ActivityLog)-1]
				Expect(last.Action).To(Equal("ic_decision"))
				Expect(last.UserID).To(BeZero())
			})
		})

		Context("with a role-restricted voter policy", func() {
			BeforeEach(func() {
				users := &mockUserStore{
					getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
						role := model.UserRoleAnalyst
						if id == 1 || id == 2 {
							role = model.UserRolePartner
						}
						return &model.User{ID: id, Role: role}, nil
					},
				}
				svc = service.NewVotingService(deals, workspaces, service.RoleVoterPolicy{
					Users: users,
					Roles: []model.UserRole{model.UserRolePartner},
				})
			})

			It("should reject members without a voting role", func() {
				_, err := svc.CastVote(ctx, 100, 3, model.VoteYes, "")
				Expect(err).To(MatchError(service.ErrNotEligibleVoter))
			})

			It("should finalize once every partner has voted", func() {
				_, err := svc.CastVote(ctx, 100, 1, model.VoteYes, "")
				Expect(err).NotTo(HaveOccurred())

				result, err := svc.CastVote(ctx, 100, 2, model.VoteYes, "")
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Finalized).To(BeTrue())
			})
		})
	})

	Describe("Summarize", func() {
		It("should report pending with no votes", func() {
			summary := svc.Summarize(nil)

			Expect(summary.TotalVotes).To(BeZero())
			Expect(summary.Recommendation).To(Equal(model.RecommendationPending))
			Expect(summary.ConsensusLevel).To(Equal(model.ConsensusNone))
		})

		It("should compute the weighted score and buckets for a split committee", func() {
			summary := svc.Summarize(map[int64]model.VoteType{
				1: model.VoteStrongYes,
				2: model.VoteYes,
				3: model.VoteNo,
			})

			Expect(summary.TotalVotes).To(Equal(3))
			Expect(summary.WeightedScore).To(Equal(2))
			Expect(summary.AverageScore).To(BeNumerically("~", 0.667, 0.001))
			Expect(summary.Recommendation).To(Equal(model.RecommendationProceed))
			Expect(summary.ConsensusLevel).To(Equal(model.ConsensusNone))
		})

		It("should report strong consensus for a unanimous committee", func() {
			summary := svc.Summarize(map[int64]model.VoteType{
				1: model.VoteStrongYes,
				2: model.VoteStrongYes,
				3: model.VoteStrongYes,
			})

			Expect(summary.AverageScore).To(Equal(2.0))
			Expect(summary.Recommendation).To(Equal(model.RecommendationStrongProceed))
			Expect(summary.ConsensusLevel).To(Equal(model.ConsensusStrong))
		})

		It("should treat abstains as weightless but counted", func() {
			summary := svc.Summarize(map[int64]model.VoteType{
				1: model.VoteAbstain,
				2: model.VoteAbstain,
			})

			Expect(summary.TotalVotes).To(Equal(2))
			Expect(summary.WeightedScore).To(BeZero())
			Expect(summary.Recommendation).To(Equal(model.RecommendationFurtherReview))
		})

		It("should recommend against a clearly negative committee", func() {
			summary := svc.Summarize(map[int64]model.VoteType{
				1: model.VoteStrongNo,
				2: model.VoteNo,
				3: model.VoteNo,
			})

			Expect(summary.AverageScore).To(BeNumerically("<", -0.5))
			Expect(summary.Recommendation).To(Equal(model.RecommendationDoNotProceed))
			Expect(summary.ConsensusLevel).To(Equal(model.ConsensusModerate))
		})
	})

	Describe("QuorumMet", func() {
		It("should be false while any required voter is missing", func() {
			deal.ICVotes = map[int64]model.VoteType{1: model.VoteYes}

			met, err := svc.QuorumMet(ctx, deal, ws)
			Expect(err).NotTo(HaveOccurred())
			Expect(met).To(BeFalse())
		})

		It("should be true once every required voter has voted", func() {
			deal.ICVotes = map[int64]model.VoteType{
				1: model.VoteYes,
				2: model.VoteNo,
				3: model.VoteAbstain,
			}

			met, err := svc.QuorumMet(ctx, deal, ws)
			Expect(err).NotTo(HaveOccurred())
			Expect(met).To(BeTrue())
		})

		It("should never be met for an empty required set", func() {
			ws.Members = nil

			met, err := svc.QuorumMet(ctx, deal, ws)
			Expect(err).NotTo(HaveOccurred())
			Expect(met).To(BeFalse())
		})
	})

	Describe("Finalize", func() {
		It("should be idempotent for an already finalized deal", func() {
			existing := &model.ICDecision{
				Decision:       "approved",
				Recommendation: model.RecommendationProceed,
				FinalizedAt:    time.Now().UTC().Add(-time.Hour),
			}
			deal.ICDecision = existing
			deal.Status = model.DealStatusNegotiation

			updated := false
			deals.updateFn = func(_ context.Context, _ *model.Deal) error {
				updated = true
				return nil
			}

			decision, _, err := svc.Finalize(ctx, deal)
			Expect(err).NotTo(HaveOccurred())
			Expect(decision).To(Equal(existing))
			Expect(updated).To(BeFalse())
		})

		It("should refuse to finalize outside IC review", func() {
			deal.Status = model.DealStatusPartnerReview

			_, _, err := svc.Finalize(ctx, deal)
			Expect(err).To(MatchError(service.ErrVotingClosed))
		})
	})
})
