package console

import (
	"context"
	"strconv"
	"sync"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/auth"
)

// testGate is a fixed identity.
type testGate struct {
	signedIn bool
	perms    auth.PermissionSet
}

func signedIn(perms ...string) testGate {
	return testGate{signedIn: true, perms: auth.NewPermissionSet(perms...)}
}

func (g testGate) IsAuthenticated() bool { return g.signedIn }

func (g testGate) HasPermission(p auth.Permission) bool { return g.signedIn && g.perms.Has(p) }

// fakeBackend is an in-memory Backend. Function fields override the default
// behavior of each method.
type fakeBackend[T any] struct {
	ListFunc   func(ctx context.Context) ([]T, error)
	CreateFunc func(ctx context.Context, payload T) (*T, error)
	UpdateFunc func(ctx context.Context, id api.ID, payload T) (*T, error)
	DeleteFunc func(ctx context.Context, id api.ID) error

	setID func(*T, api.ID)
	getID func(T) api.ID

	mu      sync.Mutex
	records []T
	nextID  int
	calls   map[string]int
	updates []T
}

func newFakeBlogs(records ...api.Blog) *fakeBackend[api.Blog] {
	return &fakeBackend[api.Blog]{
		setID:   func(b *api.Blog, id api.ID) { b.ID = id },
		getID:   func(b api.Blog) api.ID { return b.ID },
		records: records,
		nextID:  len(records) + 100,
	}
}

func (f *fakeBackend[T]) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeBackend[T]) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

func (f *fakeBackend[T]) List(ctx context.Context) ([]T, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T{}, f.records...), nil
}

func (f *fakeBackend[T]) Create(ctx context.Context, payload T) (*T, error) {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, payload)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.setID(&payload, api.ID(strconv.Itoa(f.nextID)))
	f.records = append(f.records, payload)
	return &payload, nil
}

func (f *fakeBackend[T]) Update(ctx context.Context, id api.ID, payload T) (*T, error) {
	f.record("Update")
	f.mu.Lock()
	f.updates = append(f.updates, payload)
	f.mu.Unlock()
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, id, payload)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if f.getID(r) == id {
			f.setID(&payload, id)
			f.records[i] = payload
			return &payload, nil
		}
	}
	return nil, &api.APIError{StatusCode: 404, Message: "Blog not found"}
}

func (f *fakeBackend[T]) Delete(ctx context.Context, id api.ID) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if f.getID(r) == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return &api.APIError{StatusCode: 404, Message: "Blog not found"}
}

// allBlogPerms holds every blog permission.
var allBlogPerms = []string{"read_blog", "create_blog", "update_blog", "delete_blog"}

func sampleBlogs() []api.Blog {
	return []api.Blog{
		{ID: "1", Title: "First", Tags: []string{"a", "b"}},
		{ID: "2", Title: "Second", Tags: []string{"go"}},
	}
}

// newBlogController returns an inactive controller with its own notifier.
func newBlogController(backend Backend[api.Blog], gate auth.Gate, opts ...Option) *Controller[api.Blog] {
	opts = append([]Option{WithNotifier(NewNotifier(DefaultNoticeTTL))}, opts...)
	return NewController(Blogs(), backend, gate, opts...)
}
