package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sipico/staff-console/internal/api"
)

// validationError is answered as 400 with its text as the message.
type validationError string

func (e validationError) Error() string { return string(e) }

// handleLogin handles POST /auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for _, id := range s.state.users.ids() {
		user := s.state.users.items[id]
		if !strings.EqualFold(user.Email, req.Email) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			break
		}

		token := newToken()
		s.state.tokens[token] = id
		writeJSON(w, http.StatusOK, api.LoginResponse{
			Token: token,
			User:  identityOf(id, user),
		})
		return
	}

	writeError(w, http.StatusUnauthorized, "Invalid email or password")
}

// handleMe handles GET /auth/me.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	s.state.mu.RLock()
	user := s.state.users.items[userID]
	s.state.mu.RUnlock()

	writeJSON(w, http.StatusOK, identityOf(userID, user))
}

func identityOf(id int64, u api.User) api.Identity {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return api.Identity{
		ID:          formatID(id),
		Name:        u.Name,
		Email:       u.Email,
		Permissions: append([]string(nil), perms...),
	}
}

// collection describes one resource collection of the API.
type collection[T any] struct {
	name     string // path segment, e.g. "blogs"
	singular string // e.g. "blog"

	read, create, update, remove string

	store  func(*State) *records[T]
	withID func(T, api.ID) T
	// prepare validates an incoming record. existing is nil on create.
	prepare func(st *State, id int64, in T, existing *T) (T, error)
	// present shapes a stored record for the wire. Nil means as stored.
	present func(T) T
}

func mountCollection[T any](r chi.Router, s *Server, c collection[T]) {
	deny := func(verb string) string {
		return fmt.Sprintf("You do not have permission to %s %s", verb, c.name)
	}

	r.Route("/"+c.name, func(r chi.Router) {
		r.With(s.requirePermission(c.read, deny("view"))).Get("/", c.handleList(s))
		r.With(s.requirePermission(c.create, deny("create"))).Post("/", c.handleCreate(s))
		r.Route("/{id}", func(r chi.Router) {
			r.With(s.requirePermission(c.read, deny("view"))).Get("/", c.handleGet(s))
			r.With(s.requirePermission(c.update, deny("update"))).Put("/", c.handleUpdate(s))
			r.With(s.requirePermission(c.remove, deny("delete"))).Delete("/", c.handleDelete(s))
		})
	})
}

func (c collection[T]) out(id int64, v T) T {
	if c.present != nil {
		v = c.present(v)
	}
	return c.withID(v, formatID(id))
}

func (c collection[T]) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, capitalize(c.singular)+" not found")
}

func (c collection[T]) handleList(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.state.mu.RLock()
		defer s.state.mu.RUnlock()

		store := c.store(s.state)
		items := make([]T, 0, len(store.items))
		for _, id := range store.ids() {
			items = append(items, c.out(id, store.items[id]))
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (c collection[T]) handleGet(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			c.notFound(w)
			return
		}

		s.state.mu.RLock()
		defer s.state.mu.RUnlock()

		item, exists := c.store(s.state).items[id]
		if !exists {
			c.notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, c.out(id, item))
	}
}

func (c collection[T]) handleCreate(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		s.state.mu.Lock()
		defer s.state.mu.Unlock()

		store := c.store(s.state)
		prepared, err := c.prepare(s.state, 0, in, nil)
		if err != nil {
			writePrepareError(w, err)
			return
		}
		prepared = c.withID(prepared, "")
		id := store.insert(prepared)
		writeJSON(w, http.StatusCreated, c.out(id, prepared))
	}
}

func (c collection[T]) handleUpdate(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			c.notFound(w)
			return
		}

		var in T
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		s.state.mu.Lock()
		defer s.state.mu.Unlock()

		store := c.store(s.state)
		existing, exists := store.items[id]
		if !exists {
			c.notFound(w)
			return
		}
		prepared, err := c.prepare(s.state, id, in, &existing)
		if err != nil {
			writePrepareError(w, err)
			return
		}
		prepared = c.withID(prepared, "")
		store.items[id] = prepared
		writeJSON(w, http.StatusOK, c.out(id, prepared))
	}
}

func (c collection[T]) handleDelete(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			c.notFound(w)
			return
		}

		s.state.mu.Lock()
		defer s.state.mu.Unlock()

		store := c.store(s.state)
		if _, exists := store.items[id]; !exists {
			c.notFound(w)
			return
		}
		delete(store.items, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) usersCollection() collection[api.User] {
	return collection[api.User]{
		name: "users", singular: "user",
		read: "view_users", create: "create_user", update: "update_user", remove: "delete_user",
		store:  func(st *State) *records[api.User] { return &st.users },
		withID: func(u api.User, id api.ID) api.User { u.ID = id; return u },
		prepare: func(st *State, id int64, in api.User, existing *api.User) (api.User, error) {
			in.Name = strings.TrimSpace(in.Name)
			in.Email = strings.TrimSpace(in.Email)
			if in.Name == "" || in.Email == "" {
				return in, validationError("Name and email are required")
			}
			for otherID, other := range st.users.items {
				if otherID != id && strings.EqualFold(other.Email, in.Email) {
					return in, validationError("A user with this email already exists")
				}
			}
			if in.Permissions == nil {
				in.Permissions = []string{}
			}
			for _, p := range in.Permissions {
				if !knownPermission(p) {
					return in, validationError("Unknown permission: " + p)
				}
			}

			switch {
			case in.Password != "":
				hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
				if err != nil {
					return in, validationError("Password cannot be used")
				}
				in.Password = string(hash)
			case existing != nil:
				in.Password = existing.Password
			default:
				return in, validationError("Password is required")
			}
			return in, nil
		},
		present: func(u api.User) api.User {
			u.Password = ""
			if u.Permissions == nil {
				u.Permissions = []string{}
			}
			return u
		},
	}
}

func blogsCollection() collection[api.Blog] {
	return collection[api.Blog]{
		name: "blogs", singular: "blog",
		read: "read_blog", create: "create_blog", update: "update_blog", remove: "delete_blog",
		store:  func(st *State) *records[api.Blog] { return &st.blogs },
		withID: func(b api.Blog, id api.ID) api.Blog { b.ID = id; return b },
		prepare: func(_ *State, _ int64, in api.Blog, _ *api.Blog) (api.Blog, error) {
			if strings.TrimSpace(in.Title) == "" {
				return in, validationError("Title is required")
			}
			if in.Tags == nil {
				in.Tags = []string{}
			}
			return in, nil
		},
	}
}

func portfoliosCollection() collection[api.Portfolio] {
	return collection[api.Portfolio]{
		name: "portfolios", singular: "portfolio",
		read: "read_portfolio", create: "create_portfolio", update: "update_portfolio", remove: "delete_portfolio",
		store:  func(st *State) *records[api.Portfolio] { return &st.portfolios },
		withID: func(p api.Portfolio, id api.ID) api.Portfolio { p.ID = id; return p },
		prepare: func(_ *State, _ int64, in api.Portfolio, _ *api.Portfolio) (api.Portfolio, error) {
			if strings.TrimSpace(in.Title) == "" {
				return in, validationError("Title is required")
			}
			if in.Technologies == nil {
				in.Technologies = []string{}
			}
			return in, nil
		},
	}
}

func testimonialsCollection() collection[api.Testimonial] {
	return collection[api.Testimonial]{
		name: "testimonials", singular: "testimonial",
		read: "read_testimonial", create: "create_testimonial", update: "update_testimonial", remove: "delete_testimonial",
		store:  func(st *State) *records[api.Testimonial] { return &st.testimonials },
		withID: func(t api.Testimonial, id api.ID) api.Testimonial { t.ID = id; return t },
		prepare: func(_ *State, _ int64, in api.Testimonial, _ *api.Testimonial) (api.Testimonial, error) {
			if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Content) == "" {
				return in, validationError("Name and content are required")
			}
			if in.Rating == 0 {
				in.Rating = 5
			}
			if in.Rating < 1 || in.Rating > 5 {
				return in, validationError("Rating must be between 1 and 5")
			}
			return in, nil
		},
	}
}

func writePrepareError(w http.ResponseWriter, err error) {
	var ve validationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

func formatID(id int64) api.ID {
	return api.ID(strconv.FormatInt(id, 10))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	//nolint:errcheck
	data, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck
	w.Write(data)
}

// writeError writes an error response in the API's {"error": ...} format.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
