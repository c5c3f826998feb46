// Package auth holds the signed-in session and answers permission checks
// against it.
package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Permission gates one verb on one resource type, e.g. "create_blog".
type Permission string

// The fixed permission vocabulary.
const (
	CreateUser Permission = "create_user"
	DeleteUser Permission = "delete_user"
	UpdateUser Permission = "update_user"
	ViewUsers  Permission = "view_users"

	CreateBlog Permission = "create_blog"
	UpdateBlog Permission = "update_blog"
	DeleteBlog Permission = "delete_blog"
	ReadBlog   Permission = "read_blog"

	CreatePortfolio Permission = "create_portfolio"
	UpdatePortfolio Permission = "update_portfolio"
	DeletePortfolio Permission = "delete_portfolio"
	ReadPortfolio   Permission = "read_portfolio"

	CreateTestimonial Permission = "create_testimonial"
	UpdateTestimonial Permission = "update_testimonial"
	DeleteTestimonial Permission = "delete_testimonial"
	ReadTestimonial   Permission = "read_testimonial"
)

var vocabulary = []Permission{
	CreateUser, DeleteUser, UpdateUser, ViewUsers,
	CreateBlog, UpdateBlog, DeleteBlog, ReadBlog,
	CreatePortfolio, UpdatePortfolio, DeletePortfolio, ReadPortfolio,
	CreateTestimonial, UpdateTestimonial, DeleteTestimonial, ReadTestimonial,
}

// ErrUnknownPermission is returned by ParsePermission for tags outside the vocabulary.
var ErrUnknownPermission = errors.New("auth: unknown permission")

// Vocabulary returns every known permission in display order.
func Vocabulary() []Permission {
	return append([]Permission(nil), vocabulary...)
}

// ParsePermission validates a tag against the vocabulary. Surrounding
// whitespace is ignored and matching is case-sensitive.
func ParsePermission(s string) (Permission, error) {
	p := Permission(strings.TrimSpace(s))
	if !p.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPermission, s)
	}
	return p, nil
}

// Known reports whether p is in the vocabulary.
func (p Permission) Known() bool {
	for _, v := range vocabulary {
		if p == v {
			return true
		}
	}
	return false
}

// Action returns the verb part: "create" for "create_blog".
func (p Permission) Action() string {
	action, _, _ := strings.Cut(string(p), "_")
	return action
}

// Resource returns the resource part: "blog" for "create_blog".
func (p Permission) Resource() string {
	_, resource, _ := strings.Cut(string(p), "_")
	return resource
}

// Label renders p as a badge: "VIEW USERS".
func (p Permission) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(p), "_", " "))
}

// PermissionSet is the permissions held by an identity. Membership is exact
// string match; there is no hierarchy.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from raw tags. Unknown tags are kept.
func NewPermissionSet(tags ...string) PermissionSet {
	set := make(PermissionSet, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		set[Permission(t)] = struct{}{}
	}
	return set
}

// Has reports whether p is in the set. A nil set holds nothing.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of permissions held.
func (s PermissionSet) Len() int { return len(s) }

// Sorted returns the permissions in vocabulary order, followed by unknown
// tags alphabetically.
func (s PermissionSet) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for _, p := range vocabulary {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	var unknown []Permission
	for p := range s {
		if !p.Known() {
			unknown = append(unknown, p)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return append(out, unknown...)
}

// Strings returns Sorted as plain strings.
func (s PermissionSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, p := range sorted {
		out[i] = string(p)
	}
	return out
}
