package core

// Session is the authenticated identity for the current browsing session.
// It is always passed in explicitly; the host application owns loading,
// saving, and clearing the persisted form.
type Session struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// Authorize answers whether the held identity may reach views that require
// the given role. A nil session, an empty identity, and a role mismatch all
// produce the same plain denial; the caller decides where to send the user.
func Authorize(s *Session, required Role) bool {
	if s == nil || s.MemberID == "" {
		return false
	}
	return s.Role == required
}
