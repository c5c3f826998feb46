package console

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/auth"
)

// Users describes staff accounts.
func Users() *Resource[api.User] {
	return &Resource[api.User]{
		Key:              "users",
		Title:            "Users",
		Singular:         "user",
		Plural:           "users",
		ReadPermission:   auth.ViewUsers,
		CreatePermission: auth.CreateUser,
		UpdatePermission: auth.UpdateUser,
		DeletePermission: auth.DeleteUser,
		Fields: []Field{
			{Name: "name", Label: "Name", Kind: Text, Required: true},
			{Name: "email", Label: "Email", Kind: Text, Required: true},
			{Name: "password", Label: "Password", Kind: Secret, RequiredOnCreate: true,
				Placeholder: "leave blank to keep"},
			{Name: "permissions", Label: "Permissions", Kind: Permissions,
				Placeholder: "e.g. read_blog, create_blog"},
		},
		Columns: []string{"ID", "Name", "Email", "Permissions"},
		ID:      func(u api.User) api.ID { return u.ID },
		Row: func(u api.User) []string {
			return []string{string(u.ID), u.Name, u.Email, strconv.Itoa(len(u.Permissions))}
		},
		ToDraft: func(u api.User) Draft {
			return Draft{
				"name":        u.Name,
				"email":       u.Email,
				"password":    "",
				"permissions": JoinList(u.Permissions),
			}
		},
		FromDraft: func(d Draft, _ Mode) (api.User, error) {
			perms, err := parsePermissions(d["permissions"])
			if err != nil {
				return api.User{}, err
			}
			// A blank password is omitted from the payload, which keeps the
			// current one on update.
			return api.User{
				Name:        strings.TrimSpace(d["name"]),
				Email:       strings.TrimSpace(d["email"]),
				Password:    d["password"],
				Permissions: perms,
			}, nil
		},
	}
}

func parsePermissions(s string) ([]string, error) {
	tags := SplitList(s)
	for _, tag := range tags {
		if _, err := auth.ParsePermission(tag); err != nil {
			if errors.Is(err, auth.ErrUnknownPermission) {
				return nil, invalid("permissions", "Unknown permission: "+tag)
			}
			return nil, err
		}
	}
	return tags, nil
}

// Blogs describes blog posts.
func Blogs() *Resource[api.Blog] {
	return &Resource[api.Blog]{
		Key:              "blogs",
		Title:            "Blogs",
		Singular:         "blog",
		Plural:           "blogs",
		ReadPermission:   auth.ReadBlog,
		CreatePermission: auth.CreateBlog,
		UpdatePermission: auth.UpdateBlog,
		DeletePermission: auth.DeleteBlog,
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "image", Label: "Image URL", Kind: Text},
			{Name: "paragraph", Label: "Summary", Kind: LongText},
			{Name: "content", Label: "Content", Kind: LongText},
			{Name: "author", Label: "Author", Kind: Text},
			{Name: "publishDate", Label: "Publish Date", Kind: Text, Placeholder: "e.g., 2024-01-15"},
			{Name: "tags", Label: "Tags", Kind: List, Placeholder: "e.g., technology, web, react"},
		},
		Columns: []string{"ID", "Title", "Author", "Published", "Tags"},
		ID:      func(b api.Blog) api.ID { return b.ID },
		Row: func(b api.Blog) []string {
			return []string{string(b.ID), b.Title, b.Author, b.PublishDate, JoinList(b.Tags)}
		},
		ToDraft: func(b api.Blog) Draft {
			return Draft{
				"title":       b.Title,
				"image":       b.Image,
				"paragraph":   b.Paragraph,
				"content":     b.Content,
				"author":      b.Author,
				"publishDate": b.PublishDate,
				"tags":        JoinList(b.Tags),
			}
		},
		FromDraft: func(d Draft, _ Mode) (api.Blog, error) {
			return api.Blog{
				Title:       strings.TrimSpace(d["title"]),
				Image:       strings.TrimSpace(d["image"]),
				Paragraph:   d["paragraph"],
				Content:     d["content"],
				Author:      strings.TrimSpace(d["author"]),
				PublishDate: strings.TrimSpace(d["publishDate"]),
				Tags:        SplitList(d["tags"]),
			}, nil
		},
	}
}

// Portfolios describes showcased projects.
func Portfolios() *Resource[api.Portfolio] {
	return &Resource[api.Portfolio]{
		Key:              "portfolios",
		Title:            "Portfolios",
		Singular:         "portfolio",
		Plural:           "portfolios",
		ReadPermission:   auth.ReadPortfolio,
		CreatePermission: auth.CreatePortfolio,
		UpdatePermission: auth.UpdatePortfolio,
		DeletePermission: auth.DeletePortfolio,
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "description", Label: "Description", Kind: LongText},
			{Name: "image", Label: "Image URL", Kind: Text},
			{Name: "projectLink", Label: "Project Link", Kind: Text},
			{Name: "technologies", Label: "Technologies", Kind: List, Placeholder: "e.g., React, Node.js"},
			{Name: "category", Label: "Category", Kind: Text},
			{Name: "featured", Label: "Featured", Kind: Bool, Default: "false"},
		},
		Columns: []string{"ID", "Title", "Category", "Technologies", "Featured"},
		ID:      func(p api.Portfolio) api.ID { return p.ID },
		Row: func(p api.Portfolio) []string {
			return []string{string(p.ID), p.Title, p.Category, JoinList(p.Technologies), yesNo(p.Featured)}
		},
		ToDraft: func(p api.Portfolio) Draft {
			return Draft{
				"title":        p.Title,
				"description":  p.Description,
				"image":        p.Image,
				"projectLink":  p.ProjectLink,
				"technologies": JoinList(p.Technologies),
				"category":     p.Category,
				"featured":     formatBool(p.Featured),
			}
		},
		FromDraft: func(d Draft, _ Mode) (api.Portfolio, error) {
			return api.Portfolio{
				Title:        strings.TrimSpace(d["title"]),
				Description:  d["description"],
				Image:        strings.TrimSpace(d["image"]),
				ProjectLink:  strings.TrimSpace(d["projectLink"]),
				Technologies: SplitList(d["technologies"]),
				Category:     strings.TrimSpace(d["category"]),
				Featured:     parseBool(d["featured"]),
			}, nil
		},
	}
}

// Testimonials describes client quotes.
func Testimonials() *Resource[api.Testimonial] {
	return &Resource[api.Testimonial]{
		Key:              "testimonials",
		Title:            "Testimonials",
		Singular:         "testimonial",
		Plural:           "testimonials",
		ReadPermission:   auth.ReadTestimonial,
		CreatePermission: auth.CreateTestimonial,
		UpdatePermission: auth.UpdateTestimonial,
		DeletePermission: auth.DeleteTestimonial,
		Fields: []Field{
			{Name: "name", Label: "Name", Kind: Text, Required: true},
			{Name: "designation", Label: "Designation", Kind: Text},
			{Name: "company", Label: "Company", Kind: Text},
			{Name: "image", Label: "Image URL", Kind: Text},
			{Name: "content", Label: "Content", Kind: LongText, Required: true},
			{Name: "rating", Label: "Rating", Kind: Number, Default: "5", Placeholder: "1 to 5"},
			{Name: "featured", Label: "Featured", Kind: Bool, Default: "false"},
		},
		Columns: []string{"ID", "Name", "Company", "Rating", "Featured"},
		ID:      func(t api.Testimonial) api.ID { return t.ID },
		Row: func(t api.Testimonial) []string {
			return []string{string(t.ID), t.Name, t.Company, stars(t.Rating), yesNo(t.Featured)}
		},
		ToDraft: func(t api.Testimonial) Draft {
			return Draft{
				"name":        t.Name,
				"designation": t.Designation,
				"company":     t.Company,
				"image":       t.Image,
				"content":     t.Content,
				"rating":      strconv.Itoa(t.Rating),
				"featured":    formatBool(t.Featured),
			}
		},
		FromDraft: func(d Draft, _ Mode) (api.Testimonial, error) {
			rating, err := parseRating(d["rating"])
			if err != nil {
				return api.Testimonial{}, err
			}
			return api.Testimonial{
				Name:        strings.TrimSpace(d["name"]),
				Designation: strings.TrimSpace(d["designation"]),
				Company:     strings.TrimSpace(d["company"]),
				Image:       strings.TrimSpace(d["image"]),
				Content:     d["content"],
				Rating:      rating,
				Featured:    parseBool(d["featured"]),
			}, nil
		},
	}
}

func parseRating(s string) (int, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, invalid("rating", "Rating must be a number")
	}
	if rating < 1 || rating > 5 {
		return 0, invalid("rating", "Rating must be between 1 and 5")
	}
	return rating, nil
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
