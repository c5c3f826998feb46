package console

import (
	"fmt"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/auth"
)

// Home is the key of the landing destination.
const Home = "home"

// Destination is one entry of the dashboard menu.
type Destination struct {
	Key   string
	Label string
	// Permission gates visibility; empty means any signed-in identity.
	Permission auth.Permission
}

var destinations = []Destination{
	{Key: Home, Label: "Dashboard"},
	{Key: "users", Label: "Users", Permission: auth.ViewUsers},
	{Key: "blogs", Label: "Blogs", Permission: auth.ReadBlog},
	{Key: "portfolios", Label: "Portfolios", Permission: auth.ReadPortfolio},
	{Key: "testimonials", Label: "Testimonials", Permission: auth.ReadTestimonial},
}

// Destinations returns the full menu in display order.
func Destinations() []Destination {
	return append([]Destination(nil), destinations...)
}

// Visible returns the destinations g may open. It is empty when nobody is
// signed in.
func Visible(g auth.Gate) []Destination {
	if !g.IsAuthenticated() {
		return nil
	}
	var out []Destination
	for _, d := range destinations {
		if d.Permission == "" || g.HasPermission(d.Permission) {
			out = append(out, d)
		}
	}
	return out
}

// Resolve checks navigation to key. It fails with auth.ErrUnauthenticated
// when nobody is signed in, auth.ErrForbidden when the destination is not
// visible to g, and ErrUnknownDestination for keys outside the menu; callers
// fall back to Home on the last two.
func Resolve(g auth.Gate, key string) (Destination, error) {
	if !g.IsAuthenticated() {
		return Destination{}, auth.ErrUnauthenticated
	}
	for _, d := range destinations {
		if d.Key != key {
			continue
		}
		if d.Permission != "" && !g.HasPermission(d.Permission) {
			return Destination{}, fmt.Errorf("%w: %s", auth.ErrForbidden, key)
		}
		return d, nil
	}
	return Destination{}, fmt.Errorf("%w: %q", ErrUnknownDestination, key)
}

// NewScreens builds one controller per resource destination, keyed like the
// menu, all talking to client and sharing the given options.
func NewScreens(client *api.Client, g auth.Gate, opts ...Option) map[string]Screen {
	return map[string]Screen{
		"users":        NewController(Users(), client.Users(), g, opts...),
		"blogs":        NewController(Blogs(), client.Blogs(), g, opts...),
		"portfolios":   NewController(Portfolios(), client.Portfolios(), g, opts...),
		"testimonials": NewController(Testimonials(), client.Testimonials(), g, opts...),
	}
}
