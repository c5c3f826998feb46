package console

import (
	"time"

	"github.com/sipico/staff-console/internal/auth"
)

// Summary is the content of the home destination.
type Summary struct {
	Greeting        string
	Name            string
	Email           string
	PermissionCount int
	// Badges are the identity's permissions as display labels, in vocabulary order.
	Badges []string
	// QuickActions are the visible resource destinations.
	QuickActions []Destination
}

// Summarize builds the home summary for the signed-in identity.
func Summarize(id auth.Identity, g auth.Gate, now time.Time) Summary {
	s := Summary{
		Greeting:        Greeting(now),
		Name:            id.Name,
		Email:           id.Email,
		PermissionCount: id.Permissions.Len(),
	}
	for _, p := range id.Permissions.Sorted() {
		s.Badges = append(s.Badges, p.Label())
	}
	for _, d := range Visible(g) {
		if d.Key != Home {
			s.QuickActions = append(s.QuickActions, d)
		}
	}
	return s
}

// Greeting returns the salutation for the hour of now.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good Morning"
	case h < 18:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}
