package mockapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sipico/staff-console/internal/api"
)

// StateResponse is the response for GET /admin/state.
type StateResponse struct {
	Users        int `json:"users"`
	Blogs        int `json:"blogs"`
	Portfolios   int `json:"portfolios"`
	Testimonials int `json:"testimonials"`
	Sessions     int `json:"sessions"`
}

// NextErrorRequest is the request body for POST /admin/next-error.
type NextErrorRequest struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// handleAdminState handles GET /admin/state. It doubles as the health check.
func (s *Server) handleAdminState(w http.ResponseWriter, r *http.Request) {
	s.state.mu.RLock()
	resp := StateResponse{
		Users:        len(s.state.users.items),
		Blogs:        len(s.state.blogs.items),
		Portfolios:   len(s.state.portfolios.items),
		Testimonials: len(s.state.testimonials.items),
		Sessions:     len(s.state.tokens),
	}
	s.state.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleAdminReset handles DELETE /admin/reset.
func (s *Server) handleAdminReset(w http.ResponseWriter, r *http.Request) {
	s.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminNextError handles POST /admin/next-error.
func (s *Server) handleAdminNextError(w http.ResponseWriter, r *http.Request) {
	var req NextErrorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status < 400 || req.Status > 599 {
		writeError(w, http.StatusBadRequest, "Status must be between 400 and 599")
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	s.SetNextError(req.Status, req.Message, req.Count)
	w.WriteHeader(http.StatusNoContent)
}

// Reset restores the seeded data and clears sessions, scheduled failures
// and recorded requests.
func (s *Server) Reset() {
	st := NewState()
	s.seed(st)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.users = st.users
	s.state.blogs = st.blogs
	s.state.portfolios = st.portfolios
	s.state.testimonials = st.testimonials
	s.state.tokens = st.tokens
	s.state.failureInjection = FailureInjection{}
	s.state.requests = nil
}

// SetNextError makes the next count API requests fail with status. An empty
// message sends a body without an error field.
func (s *Server) SetNextError(status int, message string, count int) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.failureInjection = FailureInjection{
		status:    status,
		message:   message,
		remaining: count,
	}
}

// SetLatency changes the simulated latency.
func (s *Server) SetLatency(d time.Duration) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.latency = d
}

// AddUser creates an account and returns its ID.
func (s *Server) AddUser(name, email, password string, permissions ...string) api.ID {
	hash := mustHash(password, s.bcryptCost)
	if permissions == nil {
		permissions = []string{}
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	id := s.state.users.insert(api.User{
		Name:        name,
		Email:       email,
		Password:    string(hash),
		Permissions: permissions,
	})
	return formatID(id)
}

// SetPermissions replaces the permissions of an account.
func (s *Server) SetPermissions(userID api.ID, permissions ...string) {
	id, ok := parseID(string(userID))
	if !ok {
		return
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if u, exists := s.state.users.items[id]; exists {
		u.Permissions = append([]string{}, permissions...)
		s.state.users.items[id] = u
	}
}

// IssueToken returns a fresh bearer token for an account, skipping login.
func (s *Server) IssueToken(userID api.ID) string {
	id, _ := parseID(string(userID))
	token := newToken()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.tokens[token] = id
	return token
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.tokens = make(map[string]int64)
}

// AddBlog stores a blog post and returns its ID.
func (s *Server) AddBlog(b api.Blog) api.ID {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	b.ID = ""
	return formatID(s.state.blogs.insert(b))
}

// AddPortfolio stores a portfolio entry and returns its ID.
func (s *Server) AddPortfolio(p api.Portfolio) api.ID {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	p.ID = ""
	return formatID(s.state.portfolios.insert(p))
}

// AddTestimonial stores a testimonial and returns its ID.
func (s *Server) AddTestimonial(t api.Testimonial) api.ID {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	t.ID = ""
	return formatID(s.state.testimonials.insert(t))
}

// Users returns the stored accounts without password hashes.
func (s *Server) Users() []api.User {
	return snapshot(s, s.usersCollection())
}

// Blogs returns the stored blog posts.
func (s *Server) Blogs() []api.Blog {
	return snapshot(s, blogsCollection())
}

// Portfolios returns the stored portfolio entries.
func (s *Server) Portfolios() []api.Portfolio {
	return snapshot(s, portfoliosCollection())
}

// Testimonials returns the stored testimonials.
func (s *Server) Testimonials() []api.Testimonial {
	return snapshot(s, testimonialsCollection())
}

func snapshot[T any](s *Server, c collection[T]) []T {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	store := c.store(s.state)
	out := make([]T, 0, len(store.items))
	for _, id := range store.ids() {
		out = append(out, c.out(id, store.items[id]))
	}
	return out
}

// Requests returns the API requests received so far.
func (s *Server) Requests() []RecordedRequest {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	return append([]RecordedRequest(nil), s.state.requests...)
}

// ClearRequests forgets the recorded requests.
func (s *Server) ClearRequests() {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.requests = nil
}
