package mockapi

import (
	"net/http"
	"testing"

	"github.com/sipico/staff-console/internal/api"
)

func TestLogin(t *testing.T) {
	t.Parallel()
	s := New()
	t.Cleanup(s.Close)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{"valid", map[string]string{"email": AdminEmail, "password": AdminPassword}, http.StatusOK, ""},
		{"email case-insensitive", map[string]string{"email": "ADMIN@email.com", "password": AdminPassword}, http.StatusOK, ""},
		{"wrong password", map[string]string{"email": AdminEmail, "password": "nope"}, http.StatusUnauthorized, "Invalid email or password"},
		{"unknown email", map[string]string{"email": "x@y.z", "password": AdminPassword}, http.StatusUnauthorized, "Invalid email or password"},
		{"missing password", map[string]string{"email": AdminEmail}, http.StatusBadRequest, "Email and password are required"},
		{"not json", "just a string", http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, data := call(t, s, http.MethodPost, "/auth/login", "", tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", status, tt.wantStatus, data)
			}
			if tt.wantError != "" {
				if msg := errorMessage(t, data); msg != tt.wantError {
					t.Errorf("error = %q, want %q", msg, tt.wantError)
				}
				return
			}
			resp := decode[api.LoginResponse](t, data)
			if len(resp.Token) != 64 {
				t.Errorf("token length = %d, want 64 hex chars", len(resp.Token))
			}
			if resp.User.Email != AdminEmail || len(resp.User.Permissions) != len(AllPermissions) {
				t.Errorf("user = %+v", resp.User)
			}
		})
	}
}

func TestMe(t *testing.T) {
	t.Parallel()
	s := New()
	t.Cleanup(s.Close)

	id := s.AddUser("Editor", "editor@email.com", "pw", "read_blog", "create_blog")
	token := s.IssueToken(id)

	status, data := call(t, s, http.MethodGet, "/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d: %s", status, data)
	}
	me := decode[api.Identity](t, data)
	if me.ID != id || me.Name != "Editor" || len(me.Permissions) != 2 {
		t.Errorf("identity = %+v", me)
	}

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"missing", "", "Authentication required"},
		{"unknown", "deadbeef", "Invalid or expired token"},
	}
	for _, tt := range tests {
		status, data := call(t, s, http.MethodGet, "/auth/me", tt.token, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", tt.name, status)
		}
		if msg := errorMessage(t, data); msg != tt.want {
			t.Errorf("%s: error = %q, want %q", tt.name, msg, tt.want)
		}
	}

	s.RevokeTokens()
	if status, _ := call(t, s, http.MethodGet, "/auth/me", token, nil); status != http.StatusUnauthorized {
		t.Errorf("revoked token: status = %d, want 401", status)
	}
}

func TestDeletedUserTokenRejected(t *testing.T) {
	t.Parallel()
	s := New()
	t.Cleanup(s.Close)

	id := s.AddUser("Temp", "temp@email.com", "pw")
	token := s.IssueToken(id)

	status, _ := call(t, s, http.MethodDelete, "/users/"+string(id)+"/", adminToken(t, s), nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete status = %d", status)
	}
	if status, _ := call(t, s, http.MethodGet, "/auth/me", token, nil); status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
}

func TestBlogCRUD(t *testing.T) {
	t.Parallel()
	s := New(WithEmptyData())
	t.Cleanup(s.Close)
	token := adminToken(t, s)

	status, data := call(t, s, http.MethodPost, "/blogs/", token, api.Blog{Title: "First", Tags: []string{"a", "b"}})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d: %s", status, data)
	}
	created := decode[api.Blog](t, data)
	if created.ID != "1" || created.Title != "First" {
		t.Errorf("created = %+v", created)
	}

	status, data = call(t, s, http.MethodGet, "/blogs/1/", token, nil)
	if status != http.StatusOK || decode[api.Blog](t, data).Title != "First" {
		t.Errorf("get status = %d: %s", status, data)
	}

	status, data = call(t, s, http.MethodPut, "/blogs/1/", token, api.Blog{ID: "99", Title: "Renamed", Tags: []string{"a", "b", "c"}})
	if status != http.StatusOK {
		t.Fatalf("update status = %d: %s", status, data)
	}
	updated := decode[api.Blog](t, data)
	if updated.ID != "1" || len(updated.Tags) != 3 {
		t.Errorf("updated = %+v; body id must not override the path id", updated)
	}

	status, _ = call(t, s, http.MethodDelete, "/blogs/1/", token, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete status = %d", status)
	}
	status, data = call(t, s, http.MethodGet, "/blogs/1/", token, nil)
	if status != http.StatusNotFound || errorMessage(t, data) != "Blog not found" {
		t.Errorf("get after delete: %d %s", status, data)
	}

	// IDs are never reused after a delete.
	_, data = call(t, s, http.MethodPost, "/blogs/", token, api.Blog{Title: "Second"})
	if got := decode[api.Blog](t, data).ID; got != "2" {
		t.Errorf("next ID = %q, want 2", got)
	}

	// Paths without the trailing slash route the same way.
	status, data = call(t, s, http.MethodGet, "/blogs", token, nil)
	if status != http.StatusOK || len(decode[[]api.Blog](t, data)) != 1 {
		t.Errorf("list without slash: %d %s", status, data)
	}
}

func TestEmptyListIsArray(t *testing.T) {
	t.Parallel()
	s := New(WithEmptyData())
	t.Cleanup(s.Close)

	_, data := call(t, s, http.MethodGet, "/portfolios/", adminToken(t, s), nil)
	if string(data) != "[]" {
		t.Errorf("body = %s, want []", data)
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()
	s := New()
	t.Cleanup(s.Close)
	token := adminToken(t, s)

	tests := []struct {
		name string
		path string
		body any
		want string
	}{
		{"blog without title", "/blogs/", api.Blog{Content: "x"}, "Title is required"},
		{"portfolio without title", "/portfolios/", api.Portfolio{}, "Title is required"},
		{"testimonial without name", "/testimonials/", api.Testimonial{Content: "x"}, "Name and content are required"},
		{"testimonial rating too high", "/testimonials/", api.Testimonial{Name: "n", Content: "c", Rating: 6}, "Rating must be between 1 and 5"},
		{"user without password", "/users/", api.User{Name: "n", Email: "n@e.com"}, "Password is required"},
		{"user duplicate email", "/users/", api.User{Name: "n", Email: AdminEmail, Password: "p"}, "A user with this email already exists"},
		{"user unknown permission", "/users/", api.User{Name: "n", Email: "n@e.com", Password: "p", Permissions: []string{"fly"}}, "Unknown permission: fly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, data := call(t, s, http.MethodPost, tt.path, token, tt.body)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", status, data)
			}
			if msg := errorMessage(t, data); msg != tt.want {
				t.Errorf("error = %q, want %q", msg, tt.want)
			}
		})
	}
}

func TestTestimonialDefaultRating(t *testing.T) {
	t.Parallel()
	s := New()
	t.Cleanup(s.Close)

	_, data := call(t, s, http.MethodPost, "/testimonials/", adminToken(t, s), api.Testimonial{Name: "N", Content: "C"})
	if got := decode[api.Testimonial](t, data).Rating; got != 5 {
		t.Errorf("rating = %d, want 5", got)
	}
}

func TestUserPasswordHandling(t *testing.T) {
	t.Parallel()
	s := New()
	t.Cleanup(s.Close)
	token := adminToken(t, s)

	status, data := call(t, s, http.MethodPost, "/users/", token, api.User{
		Name: "Writer", Email: "writer@email.com", Password: "first", Permissions: []string{"read_blog"},
	})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d: %s", status, data)
	}
	created := decode[api.User](t, data)
	if created.Password != "" {
		t.Error("create response exposes password")
	}

	login := func(password string) int {
		status, _ := call(t, s, http.MethodPost, "/auth/login", "", map[string]string{"email": "writer@email.com", "password": password})
		return status
	}
	if login("first") != http.StatusOK {
		t.Fatal("new user cannot log in")
	}

	// An update without a password keeps the old one.
	path := "/users/" + string(created.ID) + "/"
	if status, data := call(t, s, http.MethodPut, path, token, api.User{Name: "Writer", Email: "writer@email.com"}); status != http.StatusOK {
		t.Fatalf("update status = %d: %s", status, data)
	}
	if login("first") != http.StatusOK {
		t.Error("password changed by an update without one")
	}

	if status, _ := call(t, s, http.MethodPut, path, token, api.User{Name: "Writer", Email: "writer@email.com", Password: "second"}); status != http.StatusOK {
		t.Fatal("password update failed")
	}
	if login("first") != http.StatusUnauthorized || login("second") != http.StatusOK {
		t.Error("password update not applied")
	}
}

func TestPermissionsEnforced(t *testing.T) {
	t.Parallel()
	s := New()
	t.Cleanup(s.Close)

	id := s.AddUser("Reader", "reader@email.com", "pw", "read_blog", "create_blog")
	token := s.IssueToken(id)

	tests := []struct {
		method string
		path   string
		body   any
		want   int
		msg    string
	}{
		{http.MethodGet, "/blogs/", nil, http.StatusOK, ""},
		{http.MethodGet, "/blogs/1/", nil, http.StatusOK, ""},
		{http.MethodPost, "/blogs/", api.Blog{Title: "ok"}, http.StatusCreated, ""},
		{http.MethodPut, "/blogs/1/", api.Blog{Title: "no"}, http.StatusForbidden, "You do not have permission to update blogs"},
		{http.MethodDelete, "/blogs/1/", nil, http.StatusForbidden, "You do not have permission to delete blogs"},
		{http.MethodGet, "/users/", nil, http.StatusForbidden, "You do not have permission to view users"},
		{http.MethodGet, "/portfolios/", nil, http.StatusForbidden, "You do not have permission to view portfolios"},
		{http.MethodPost, "/testimonials/", api.Testimonial{Name: "n", Content: "c"}, http.StatusForbidden, "You do not have permission to create testimonials"},
	}

	for _, tt := range tests {
		status, data := call(t, s, tt.method, tt.path, token, tt.body)
		if status != tt.want {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, status, tt.want)
			continue
		}
		if tt.msg != "" {
			if msg := errorMessage(t, data); msg != tt.msg {
				t.Errorf("%s %s: error = %q, want %q", tt.method, tt.path, msg, tt.msg)
			}
		}
	}

	// Permission changes apply to live tokens.
	s.SetPermissions(id, "view_users")
	if status, _ := call(t, s, http.MethodGet, "/users/", token, nil); status != http.StatusOK {
		t.Errorf("after grant: status = %d, want 200", status)
	}
	if status, _ := call(t, s, http.MethodGet, "/blogs/", token, nil); status != http.StatusForbidden {
		t.Errorf("after revoke: status = %d, want 403", status)
	}
}

func TestInvalidIDIsNotFound(t *testing.T) {
	t.Parallel()
	s := New()
	t.Cleanup(s.Close)
	token := adminToken(t, s)

	for _, path := range []string{"/blogs/abc/", "/blogs/0/", "/blogs/999/"} {
		if status, _ := call(t, s, http.MethodGet, path, token, nil); status != http.StatusNotFound {
			t.Errorf("GET %s: status = %d, want 404", path, status)
		}
	}
}
