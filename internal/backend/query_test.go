package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryEncode(t *testing.T) {
	t.Run("defaults to select all", func(t *testing.T) {
		q := NewQuery("sessions")
		assert.Equal(t, "select=%2A", q.Encode())
	})

	t.Run("eq filters", func(t *testing.T) {
		q := NewQuery("sessions").Select("id,status").Eq("status", "waiting").Eq("is_private", "false")
		assert.Equal(t, "select=id%2Cstatus&status=eq.waiting&is_private=eq.false", q.Encode())
	})

	t.Run("in filter", func(t *testing.T) {
		q := NewQuery("session_participants").In("session_id", []string{"a", "b"})
		assert.Equal(t, "select=%2A&session_id=in.%28a%2Cb%29", q.Encode())
	})

	t.Run("or of conditions", func(t *testing.T) {
		q := NewQuery("sessions").Or(CondEq("creator_id", "u1"), CondIn("id", []string{"s1", "s2"}))
		assert.Equal(t, "select=%2A&or=%28creator_id.eq.u1%2Cid.in.%28s1%2Cs2%29%29", q.Encode())
	})

	t.Run("order", func(t *testing.T) {
		q := NewQuery("sessions").Order("created_at", true)
		assert.Equal(t, "select=%2A&order=created_at.desc", q.Encode())
	})
}

func TestQueryEmptyInPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewQuery("sessions").In("id", nil)
	})
	assert.Panics(t, func() {
		CondIn("id", []string{})
	})
}

func TestQueryIsValueType(t *testing.T) {
	base := NewQuery("sessions").Eq("status", "waiting")
	withPrivate := base.Eq("is_private", "false")

	assert.NotEqual(t, base.Encode(), withPrivate.Encode())
	assert.Equal(t, "select=%2A&status=eq.waiting", base.Encode())
}
