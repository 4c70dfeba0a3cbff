package model

// SharePermissions is the permission set encoded into a share token. The
// token is a bearer capability: whoever holds it gets exactly these rights
// on the scoped deal, workspace membership or not.
type SharePermissions struct {
	CanView    bool `json:"can_view"`
	CanComment bool `json:"can_comment"`
	CanEdit    bool `json:"can_edit"`
	CanVote    bool `json:"can_vote"`
}

// DefaultSharePermissions is the view+comment grant used when a share
// request does not specify one.
func DefaultSharePermissions() SharePermissions {
	return SharePermissions{CanView: true, CanComment: true}
}
