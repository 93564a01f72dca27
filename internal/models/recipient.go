package models

import "strings"

// RecipientRef is an address to notify, optionally bound to a user account.
type RecipientRef struct {
	Email  string
	UserID int64
	// Username and Name are set for user-bound recipients.
	Username string
	Name     string
}

// HasUser reports whether the recipient is a known user, which enables
// personalization and an unsubscribe link.
func (r RecipientRef) HasUser() bool {
	return r.UserID > 0
}

// User returns the receiving user, or nil for bare addresses.
func (r RecipientRef) User() *User {
	if !r.HasUser() {
		return nil
	}
	return &User{ID: r.UserID, Username: r.Username, Name: r.Name, Email: r.Email}
}

// RecipientSet holds recipients unique by email address in first-seen order.
type RecipientSet struct {
	index map[string]int
	refs  []RecipientRef
}

// NewRecipientSet creates an empty set.
func NewRecipientSet() *RecipientSet {
	return &RecipientSet{index: make(map[string]int)}
}

// Add inserts ref unless its email is already present. A user-bound ref replaces
// a bare address with the same email. Empty emails are ignored.
// Returns true if the set changed.
func (s *RecipientSet) Add(ref RecipientRef) bool {
	key := normalizeEmail(ref.Email)
	if key == "" {
		return false
	}
	ref.Email = strings.TrimSpace(ref.Email)

	if i, ok := s.index[key]; ok {
		if !s.refs[i].HasUser() && ref.HasUser() {
			s.refs[i] = ref
			return true
		}
		return false
	}

	s.index[key] = len(s.refs)
	s.refs = append(s.refs, ref)
	return true
}

// Contains reports whether email is in the set.
func (s *RecipientSet) Contains(email string) bool {
	_, ok := s.index[normalizeEmail(email)]
	return ok
}

// Len returns the number of recipients.
func (s *RecipientSet) Len() int {
	return len(s.refs)
}

// List returns a copy of the recipients.
func (s *RecipientSet) List() []RecipientRef {
	out := make([]RecipientRef, len(s.refs))
	copy(out, s.refs)
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
