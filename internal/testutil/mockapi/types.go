// Package mockapi provides an in-process fake of the remote admin API: the
// auth endpoints and the users, blogs, portfolios and testimonials
// collections, with seeded sample data, server-side permission checks,
// simulated latency and failure injection.
package mockapi

import (
	"sort"
	"sync"

	"github.com/sipico/staff-console/internal/api"
)

// records is one collection keyed by a monotonic identifier.
type records[T any] struct {
	items  map[int64]T
	nextID int64
}

func newRecords[T any]() records[T] {
	return records[T]{items: make(map[int64]T), nextID: 1}
}

// insert stores v under a fresh identifier and returns it.
func (r *records[T]) insert(v T) int64 {
	id := r.nextID
	r.nextID++
	r.items[id] = v
	return id
}

// ids returns the stored identifiers in ascending order.
func (r *records[T]) ids() []int64 {
	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FailureInjection schedules error responses for upcoming requests.
type FailureInjection struct {
	status    int
	message   string
	remaining int
}

// RecordedRequest is one request observed by the server.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          []byte
}

// State holds the internal mock server state.
type State struct {
	mu sync.RWMutex

	// users hold the bcrypt hash in Password.
	users        records[api.User]
	blogs        records[api.Blog]
	portfolios   records[api.Portfolio]
	testimonials records[api.Testimonial]

	// tokens maps issued bearer tokens to user IDs.
	tokens map[string]int64

	failureInjection FailureInjection
	requests         []RecordedRequest
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		users:        newRecords[api.User](),
		blogs:        newRecords[api.Blog](),
		portfolios:   newRecords[api.Portfolio](),
		testimonials: newRecords[api.Testimonial](),
		tokens:       make(map[string]int64),
	}
}

// ErrorResponse is the error envelope of the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AllPermissions is every permission tag the API understands.
var AllPermissions = []string{
	"create_user", "delete_user", "update_user", "view_users",
	"create_blog", "update_blog", "delete_blog", "read_blog",
	"create_portfolio", "update_portfolio", "delete_portfolio", "read_portfolio",
	"create_testimonial", "update_testimonial", "delete_testimonial", "read_testimonial",
}

func knownPermission(p string) bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}
