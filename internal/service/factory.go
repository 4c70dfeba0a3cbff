package service

import (
	"dealflow.app/hub/core/config"
	"dealflow.app/hub/internal/store"
)

type Services struct {
	stores *store.Stores
	cfg    config.Config
	policy VoterPolicy
}

func NewServices(stores *store.Stores, cfg config.Config) *Services {
	s := &Services{stores: stores, cfg: cfg}

	if roles := cfg.Hub.VoterRoles(); len(roles) > 0 {
		s.policy = RoleVoterPolicy{Users: stores.Users(), Roles: roles}
	} else {
		s.policy = AllMembersPolicy{}
	}
	return s
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users())
}

func (s *Services) Workspaces() WorkspaceService {
	return NewWorkspaceService(s.stores.Workspaces())
}

func (s *Services) Deals() DealService {
	return NewDealService(s.stores.Deals(), s.stores.Annotations(), s.stores.DiligenceItems(), s.stores.Workspaces(), s.stores.Users())
}

func (s *Services) Voting() VotingService {
	return NewVotingService(s.stores.Deals(), s.stores.Workspaces(), s.policy)
}

func (s *Services) Sharing() ShareService {
	return NewShareService([]byte(s.cfg.Share.Secret), s.cfg.BaseURL, s.stores.Deals())
}

func (s *Services) Identity() IdentityVerifier {
	return NewHMACVerifier([]byte(s.cfg.Auth.Secret))
}
