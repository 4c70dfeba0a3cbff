package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dealflow.app/hub/common/id"
	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/store"
)

const DefaultShareTTL = 7 * 24 * time.Hour

var (
	ErrExpiredShareToken = errors.New("share link expired")
	ErrInvalidShareToken = errors.New("invalid share token")
)

// ShareClaims are the capability encoded into a share token: one deal, one
// permission set. No server-side session backs it; holding a valid token is
// the whole authorization.
type ShareClaims struct {
	jwt.RegisteredClaims
	DealID      int64                  `json:"deal_id"`
	Permissions model.SharePermissions `json:"permissions"`
}

// ShareResult is the outcome of sharing a deal with a set of users.
type ShareResult struct {
	Token       string
	ShareURL    string
	SharedWith  []int64
	Permissions model.SharePermissions
}

type ShareService interface {
	Issue(dealID int64, permissions model.SharePermissions, ttl time.Duration) (string, error)
	Verify(token string) (*ShareClaims, error)
	ShareURL(dealID int64, token string) string
	// ShareDeal issues a token, adds the recipients to the deal team, and
	// returns the share payload. Recipient notifications are the caller's
	// concern (they go through the hub's notifier).
	ShareDeal(ctx context.Context, dealID, sharedBy int64, shareWith []int64, permissions *model.SharePermissions) (*ShareResult, error)
}

type shareService struct {
	secret  []byte
	baseURL string
	deals   store.DealStore
}

func NewShareService(secret []byte, baseURL string, deals store.DealStore) ShareService {
	return &shareService{secret: secret, baseURL: baseURL, deals: deals}
}

func (s *shareService) Issue(dealID int64, permissions model.SharePermissions, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	now := time.Now().UTC()

	claims := ShareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        strconv.FormatInt(id.New(), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		DealID:      dealID,
		Permissions: permissions,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing share token: %w", err)
	}
	return token, nil
}

func (s *shareService) Verify(token string) (*ShareClaims, error) {
	var claims ShareClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredShareToken
		}
		return nil, ErrInvalidShareToken
	}
	if claims.DealID == 0 {
		return nil, ErrInvalidShareToken
	}
	return &claims, nil
}

func (s *shareService) ShareURL(dealID int64, token string) string {
	return fmt.Sprintf("%s/deals/%d?token=%s", s.baseURL, dealID, token)
}

func (s *shareService) ShareDeal(ctx context.Context, dealID, sharedBy int64, shareWith []int64, permissions *model.SharePermissions) (*ShareResult, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("getting deal: %w", err)
	}

	perms := model.DefaultSharePermissions()
	if permissions != nil {
		perms = *permissions
	}

	token, err := s.Issue(dealID, perms, DefaultShareTTL)
	if err != nil {
		return nil, err
	}

	added := false
	for _, userID := range shareWith {
		if !deal.IsTeamMember(userID) {
			deal.TeamMemberIDs = append(deal.TeamMemberIDs, userID)
			added = true
		}
	}
	if added {
		deal.LogActivity(sharedBy, "shared", fmt.Sprintf("Shared with %d users", len(shareWith)))
		deal.UpdatedAt = time.Now().UTC()
		if err := s.deals.Update(ctx, deal); err != nil {
			return nil, fmt.Errorf("updating deal team: %w", err)
		}
	}

	slog.InfoContext(ctx, "deal shared",
		"deal_id", dealID,
		"shared_by", sharedBy,
		"recipients", len(shareWith),
	)

	return &ShareResult{
		Token:       token,
		ShareURL:    s.ShareURL(dealID, token),
		SharedWith:  shareWith,
		Permissions: perms,
	}, nil
}
