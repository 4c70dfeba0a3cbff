package service

import (
	"context"
	"errors"
	"regexp"

	"dealflow.app/hub/internal/model"
	"dealflow.app/hub/internal/store"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// extractMentions returns the unique @handles in content, in order.
func extractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	handles := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			handles = append(handles, m[1])
		}
	}
	return handles
}

// resolveMentions maps @handles to user IDs that are members of the deal's
// workspace. Unknown handles and non-members are dropped silently.
func (s *dealService) resolveMentions(ctx context.Context, deal *model.Deal, content string) ([]int64, error) {
	handles := extractMentions(content)
	if len(handles) == 0 {
		return nil, nil
	}

	ws, err := s.workspaces.GetByID(ctx, deal.WorkspaceID)
	if err != nil {
		return nil, err
	}

	mentioned := make([]int64, 0, len(handles))
	for _, handle := range handles {
		user, err := s.users.GetByName(ctx, handle)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return mentioned, err
		}
		if ws.HasMember(user.ID) {
			mentioned = append(mentioned, user.ID)
		}
	}
	return mentioned, nil
}
