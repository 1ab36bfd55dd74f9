// File: internal/chat/thread.go
package chat

import (
	"strings"

	"roommate_finder_backend/internal/common"
)

// ThreadIDSeparator joins the two participant IDs of a thread.
const ThreadIDSeparator = "_"

// ThreadID derives the canonical conversation identifier for two users.
// The same pair always yields the same id regardless of argument order.
func ThreadID(a, b string) (string, error) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return "", common.ErrBadRequest.WithDetails("Both participant IDs are required.")
	}
	if a > b {
		a, b = b, a
	}
	return a + ThreadIDSeparator + b, nil
}

// ThreadMembers splits a thread id into its two participant IDs. The id must
// consist of exactly two non-empty components.
func ThreadMembers(threadID string) (string, string, error) {
	parts := strings.Split(threadID, ThreadIDSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", common.ErrBadRequest.WithDetails("Invalid chat ID format.")
	}
	return parts[0], parts[1], nil
}

// IsThreadMember reports whether userID is exactly one of the two components
// of threadID. A substring or prefix match is not membership.
func IsThreadMember(threadID, userID string) bool {
	first, second, err := ThreadMembers(threadID)
	if err != nil {
		return false
	}
	return userID == first || userID == second
}
