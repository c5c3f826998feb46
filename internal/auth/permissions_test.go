package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary(t *testing.T) {
	t.Parallel()
	vocab := Vocabulary()
	require.Len(t, vocab, 16)

	seen := map[Permission]bool{}
	for _, p := range vocab {
		assert.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
		assert.True(t, p.Known())
	}

	// The returned slice is a copy.
	vocab[0] = "mutated"
	assert.Equal(t, CreateUser, Vocabulary()[0])
}

func TestParsePermission(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Permission
		wantErr bool
	}{
		{"view_users", ViewUsers, false},
		{"  read_blog ", ReadBlog, false},
		{"create_testimonial", CreateTestimonial, false},
		{"READ_BLOG", "", true},
		{"read_blogs", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePermission(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownPermission), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissionParts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		p                Permission
		action, resource string
		label            string
	}{
		{ViewUsers, "view", "users", "VIEW USERS"},
		{CreateBlog, "create", "blog", "CREATE BLOG"},
		{DeleteTestimonial, "delete", "testimonial", "DELETE TESTIMONIAL"},
		{"weird", "weird", "", "WEIRD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.action, tt.p.Action(), string(tt.p))
		assert.Equal(t, tt.resource, tt.p.Resource(), string(tt.p))
		assert.Equal(t, tt.label, tt.p.Label(), string(tt.p))
	}
}

func TestPermissionSetMembership(t *testing.T) {
	t.Parallel()
	held := []string{"view_users", "create_blog", "legacy_flag"}
	set := NewPermissionSet(held...)

	for _, p := range held {
		assert.True(t, set.Has(Permission(p)), "should hold %s", p)
	}
	for _, p := range Vocabulary() {
		if p == ViewUsers || p == CreateBlog {
			continue
		}
		assert.False(t, set.Has(p), "should not hold %s", p)
	}

	// Exact match only.
	assert.False(t, set.Has("VIEW_USERS"))
	assert.False(t, set.Has("view_user"))

	var empty PermissionSet
	assert.False(t, empty.Has(ViewUsers))
	assert.Zero(t, empty.Len())
}

func TestPermissionSetSorted(t *testing.T) {
	t.Parallel()
	set := NewPermissionSet("read_testimonial", "zeta", "view_users", "", "alpha", "create_user")
	assert.Equal(t, 5, set.Len())
	assert.Equal(t,
		[]string{"create_user", "view_users", "read_testimonial", "alpha", "zeta"},
		set.Strings())
}
