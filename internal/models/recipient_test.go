package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipientSet_DeduplicatesByEmail(t *testing.T) {
	set := NewRecipientSet()

	assert.True(t, set.Add(RecipientRef{Email: "a@example.org"}))
	assert.False(t, set.Add(RecipientRef{Email: " A@Example.org "}))
	assert.True(t, set.Add(RecipientRef{Email: "b@example.org"}))

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("A@EXAMPLE.ORG"))
}

func TestRecipientSet_UserRefWins(t *testing.T) {
	set := NewRecipientSet()

	set.Add(RecipientRef{Email: "a@example.org"})
	assert.True(t, set.Add(RecipientRef{Email: "a@example.org", UserID: 7}))
	assert.False(t, set.Add(RecipientRef{Email: "a@example.org"}), "bare address must not downgrade a user ref")

	list := set.List()
	assert.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].UserID)
	assert.True(t, list[0].HasUser())
}

func TestRecipientSet_IgnoresEmpty(t *testing.T) {
	set := NewRecipientSet()

	assert.False(t, set.Add(RecipientRef{Email: "  "}))
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.List())
}

func TestParseContext(t *testing.T) {
	ctx, err := ParseContext("com_content.form")
	assert.NoError(t, err)
	assert.Equal(t, ContextArticleFrontend, ctx)

	_, err = ParseContext("com_users.user")
	assert.Error(t, err)
}

func TestRecipientRef_User(t *testing.T) {
	assert.Nil(t, RecipientRef{Email: "a@example.org"}.User())

	u := RecipientRef{Email: "a@example.org", UserID: 3, Username: "ann", Name: "Ann"}.User()
	assert.Equal(t, &User{ID: 3, Username: "ann", Name: "Ann", Email: "a@example.org"}, u)
}
