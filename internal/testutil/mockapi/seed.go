package mockapi

import "github.com/sipico/staff-console/internal/api"

const (
	// AdminEmail and AdminPassword log in as the seeded administrator, who
	// holds every permission.
	AdminEmail    = "admin@email.com"
	AdminPassword = "admin123"
)

func sampleBlogs() []api.Blog {
	return []api.Blog{
		{
			Title:       "Getting Started with the Admin Console",
			Image:       "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=800&h=600&fit=crop",
			Paragraph:   "A short tour of managing content from one place.",
			Content:     "Sign in, pick a section from the sidebar and use the actions your permissions allow.",
			Author:      "Admin",
			Tags:        []string{"guide", "console"},
			PublishDate: "2024-01-15",
		},
		{
			Title:       "Writing Testimonials That Convert",
			Image:       "https://images.unsplash.com/photo-1455390582262-044cdead277a?w=800&h=600&fit=crop",
			Paragraph:   "What makes a client quote persuasive.",
			Content:     "Specific outcomes, a named person and a real company beat generic praise every time.",
			Author:      "Marketing",
			Tags:        []string{"marketing", "testimonials"},
			PublishDate: "2024-02-03",
		},
	}
}

func samplePortfolios() []api.Portfolio {
	return []api.Portfolio{
		{
			Title:        "E-Commerce Platform",
			Description:  "A full-stack e-commerce solution with payment integration, inventory management, and admin dashboard.",
			Image:        "https://images.unsplash.com/photo-1557821552-17105176677c?w=800&h=600&fit=crop",
			ProjectLink:  "https://example.com/ecommerce",
			Technologies: []string{"React", "Node.js", "MongoDB", "Stripe"},
			Category:     "Web Development",
			Featured:     true,
		},
		{
			Title:        "Mobile Banking App",
			Description:  "Secure mobile banking application with biometric authentication and real-time transaction tracking.",
			Image:        "https://images.unsplash.com/photo-1563986768609-322da13575f3?w=800&h=600&fit=crop",
			ProjectLink:  "https://example.com/banking",
			Technologies: []string{"React Native", "Firebase", "Redux"},
			Category:     "Mobile App",
			Featured:     true,
		},
		{
			Title:        "AI Content Generator",
			Description:  "AI-powered content generation tool for creating blog posts, social media content, and marketing copy.",
			Image:        "https://images.unsplash.com/photo-1677442136019-21780ecad995?w=800&h=600&fit=crop",
			ProjectLink:  "https://example.com/ai-content",
			Technologies: []string{"Python", "OpenAI API", "Flask", "React"},
			Category:     "AI/ML",
		},
		{
			Title:        "Real Estate Portal",
			Description:  "Comprehensive real estate platform with property listings, virtual tours, and mortgage calculators.",
			Image:        "https://images.unsplash.com/photo-1560518883-ce09059eeffa?w=800&h=600&fit=crop",
			ProjectLink:  "https://example.com/realestate",
			Technologies: []string{"Vue.js", "Laravel", "MySQL"},
			Category:     "Web Development",
		},
		{
			Title:        "Fitness Tracking App",
			Description:  "Personal fitness tracker with workout plans, nutrition tracking, and progress analytics.",
			Image:        "https://images.unsplash.com/photo-1476480862126-209bfaa8edc8?w=800&h=600&fit=crop",
			ProjectLink:  "https://example.com/fitness",
			Technologies: []string{"Flutter", "Firebase", "HealthKit"},
			Category:     "Mobile App",
			Featured:     true,
		},
		{
			Title:        "Project Management Tool",
			Description:  "Collaborative project management platform with kanban boards, time tracking, and team collaboration features.",
			Image:        "https://images.unsplash.com/photo-1454165804606-c3d57bc86b40?w=800&h=600&fit=crop",
			ProjectLink:  "https://example.com/pm-tool",
			Technologies: []string{"Angular", "NestJS", "PostgreSQL"},
			Category:     "Web Development",
		},
	}
}

func sampleTestimonials() []api.Testimonial {
	return []api.Testimonial{
		{
			Name:        "Sarah Johnson",
			Designation: "CEO",
			Company:     "TechCorp Inc.",
			Image:       "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=200&h=200&fit=crop",
			Content:     "Working with this team has been an absolute game-changer for our business. Their professionalism and expertise exceeded all expectations. Highly recommended!",
			Rating:      5,
			Featured:    true,
		},
		{
			Name:        "Michael Chen",
			Designation: "CTO",
			Company:     "Innovation Labs",
			Image:       "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=200&h=200&fit=crop",
			Content:     "Exceptional service and outstanding results. The team delivered beyond what we thought was possible. A truly transformative experience for our organization.",
			Rating:      5,
			Featured:    true,
		},
		{
			Name:        "Emily Rodriguez",
			Designation: "Product Manager",
			Company:     "StartupHub",
			Image:       "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=200&h=200&fit=crop",
			Content:     "The attention to detail and commitment to excellence is remarkable. They understood our vision and brought it to life perfectly.",
			Rating:      5,
		},
		{
			Name:        "David Kim",
			Designation: "Founder",
			Company:     "Digital Dreams",
			Image:       "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=200&h=200&fit=crop",
			Content:     "From start to finish, the process was smooth and efficient. The team was responsive, creative, and delivered exactly what we needed.",
			Rating:      4,
		},
		{
			Name:        "Jessica Thompson",
			Designation: "Marketing Director",
			Company:     "Brand Builders",
			Image:       "https://images.unsplash.com/photo-1487412720507-e7ab37603c6f?w=200&h=200&fit=crop",
			Content:     "Outstanding work! The quality and speed of delivery were impressive. Our campaign results exceeded all KPIs thanks to their expertise.",
			Rating:      5,
			Featured:    true,
		},
		{
			Name:        "Alex Martinez",
			Designation: "Operations Manager",
			Company:     "Efficiency Co.",
			Image:       "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=200&h=200&fit=crop",
			Content:     "Great collaboration and excellent communication throughout the project. The final product speaks for itself - truly world-class.",
			Rating:      5,
		},
	}
}

// seed fills st with the administrator and, unless empty, the sample
// records. The caller holds the lock.
func (s *Server) seed(st *State) {
	st.users.insert(api.User{
		Name:        "Admin",
		Email:       AdminEmail,
		Password:    string(mustHash(AdminPassword, s.bcryptCost)),
		Permissions: append([]string(nil), AllPermissions...),
	})
	if s.emptyData {
		return
	}
	for _, b := range sampleBlogs() {
		st.blogs.insert(b)
	}
	for _, p := range samplePortfolios() {
		st.portfolios.insert(p)
	}
	for _, t := range sampleTestimonials() {
		st.testimonials.insert(t)
	}
}
