package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/auth"
)

func TestSplitList(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a, b", []string{"a", "b"}},
		{"a, b, c", []string{"a", "b", "c"}},
		{" a ,, b ,  ", []string{"a", "b"}},
		{",,,", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitList(tt.in))
		})
	}
}

func TestBlogDraftTags(t *testing.T) {
	t.Parallel()
	res := Blogs()
	draft := res.ToDraft(api.Blog{ID: "4", Title: "T", Tags: []string{"a", "b"}})
	assert.Equal(t, "a, b", draft["tags"])

	draft["tags"] = "a, b, c"
	blog, err := res.FromDraft(draft, ModeEdit)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, blog.Tags)
	assert.Equal(t, "T", blog.Title)
}

func TestTestimonialRating(t *testing.T) {
	t.Parallel()
	res := Testimonials()
	assert.Equal(t, "5", res.EmptyDraft()["rating"])

	tests := []struct {
		rating  string
		want    int
		message string
	}{
		{"1", 1, ""},
		{" 5 ", 5, ""},
		{"0", 0, "Rating must be between 1 and 5"},
		{"6", 0, "Rating must be between 1 and 5"},
		{"five", 0, "Rating must be a number"},
	}
	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			t.Parallel()
			d := res.EmptyDraft()
			d["name"], d["content"], d["rating"] = "Ann", "Great", tt.rating
			got, err := res.FromDraft(d, ModeCreate)
			if tt.message != "" {
				assert.ErrorIs(t, err, ErrValidation)
				assert.EqualError(t, err, tt.message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Rating)
		})
	}
}

func TestUserDraft(t *testing.T) {
	t.Parallel()
	res := Users()

	draft := res.ToDraft(api.User{ID: "2", Name: "Ed", Email: "ed@x.io", Password: "hash",
		Permissions: []string{"read_blog", "update_blog"}})
	assert.Empty(t, draft["password"], "the password is never shown")
	assert.Equal(t, "read_blog, update_blog", draft["permissions"])

	user, err := res.FromDraft(draft, ModeEdit)
	require.NoError(t, err)
	assert.Empty(t, user.Password)
	assert.Equal(t, []string{"read_blog", "update_blog"}, user.Permissions)

	draft["permissions"] = "read_blog, fly_plane"
	_, err = res.FromDraft(draft, ModeEdit)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Unknown permission: fly_plane")
}

func TestRequiredFields(t *testing.T) {
	t.Parallel()
	users := Users()
	d := Draft{"name": "Ed", "email": "ed@x.io"}
	err := users.checkRequired(d, ModeCreate)
	assert.EqualError(t, err, "Password is required")
	assert.NoError(t, users.checkRequired(d, ModeEdit))

	blogs := Blogs()
	assert.EqualError(t, blogs.checkRequired(Draft{"title": "  "}, ModeEdit), "Title is required")
}

func TestPortfolioFeatured(t *testing.T) {
	t.Parallel()
	res := Portfolios()
	d := res.EmptyDraft()
	assert.Equal(t, "false", d["featured"])

	d["title"], d["featured"], d["technologies"] = "Site", "true", "Go, React"
	p, err := res.FromDraft(d, ModeCreate)
	require.NoError(t, err)
	assert.True(t, p.Featured)
	assert.Equal(t, []string{"Go", "React"}, p.Technologies)
}

func TestDescriptorsAreConsistent(t *testing.T) {
	t.Parallel()
	type descriptor struct {
		key, singular string
		perms         []auth.Permission
		fields        []Field
		draftKeys     []string
	}
	keys := func(d Draft) []string {
		out := make([]string, 0, len(d))
		for k := range d {
			out = append(out, k)
		}
		return out
	}
	u, b, p, tm := Users(), Blogs(), Portfolios(), Testimonials()
	all := []descriptor{
		{u.Key, u.Singular, []auth.Permission{u.ReadPermission, u.CreatePermission, u.UpdatePermission, u.DeletePermission}, u.Fields, keys(u.ToDraft(api.User{}))},
		{b.Key, b.Singular, []auth.Permission{b.ReadPermission, b.CreatePermission, b.UpdatePermission, b.DeletePermission}, b.Fields, keys(b.ToDraft(api.Blog{}))},
		{p.Key, p.Singular, []auth.Permission{p.ReadPermission, p.CreatePermission, p.UpdatePermission, p.DeletePermission}, p.Fields, keys(p.ToDraft(api.Portfolio{}))},
		{tm.Key, tm.Singular, []auth.Permission{tm.ReadPermission, tm.CreatePermission, tm.UpdatePermission, tm.DeletePermission}, tm.Fields, keys(tm.ToDraft(api.Testimonial{}))},
	}
	for _, d := range all {
		t.Run(d.key, func(t *testing.T) {
			t.Parallel()
			for _, perm := range d.perms {
				assert.True(t, perm.Known(), "permission %q", perm)
			}
			names := make([]string, 0, len(d.fields))
			for _, f := range d.fields {
				names = append(names, f.Name)
			}
			assert.ElementsMatch(t, names, d.draftKeys, "draft keys must match the form fields")
		})
	}
}
