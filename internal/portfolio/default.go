package portfolio

// Default returns the built-in placeholder site.  Each call returns a fresh
// copy.
func Default() *Content {
	c := &Content{
		Personal: Personal{
			Name:      "Your Name",
			Handle:    "your.name",
			Title:     "UX/UI Designer",
			Location:  "Madrid, Spain",
			Email:     "hello@example.com",
			Available: true,
		},
		Social: []Social{
			{Platform: "github", URL: "https://github.com/your-user"},
			{Platform: "linkedin", URL: "https://www.linkedin.com/in/your-profile"},
		},
		Projects: []Project{
			{Title: "Brand Identity", Category: "Branding", Image: "/static/img/project-1.jpg", Size: SizeLarge},
			{Title: "E-commerce Platform", Category: "Web Design", Image: "/static/img/project-2.jpg", Size: SizeMedium},
			{Title: "Mobile App", Category: "UI/UX", Image: "/static/img/project-3.jpg", Size: SizeSmall},
			{Title: "Editorial Design", Category: "Print", Image: "/static/img/project-4.jpg", Size: SizeWide},
			{Title: "Digital Campaign", Category: "Marketing", Image: "/static/img/project-5.jpg", Size: SizeMedium},
			{Title: "Product Design", Category: "3D", Image: "/static/img/project-6.jpg", Size: SizeSmall},
			{Title: "Photography", Category: "Visual", Image: "/static/img/project-7.jpg", Size: SizeLarge},
			{Title: "Motion Graphics", Category: "Animation", Image: "/static/img/project-8.jpg", Size: SizeWide},
		},
		About: About{
			Paragraphs: []string{
				"UX/UI designer with more than five years of experience building memorable " +
					"digital products.  My work pairs function with form and always starts " +
					"from the people who use it.",
				"I specialise in interface design, design systems, prototyping, and creative " +
					"direction for brands that want to stand out online.",
			},
			Skills: []string{
				"UI Design", "UX Research", "Prototyping", "Design Systems",
				"Figma", "Adobe CC", "HTML/CSS", "React",
			},
			Experience: []Experience{
				{Role: "Senior UI Designer", Period: "2022 - Present"},
				{Role: "UX Designer", Period: "2020 - 2022"},
				{Role: "Visual Designer", Period: "2018 - 2020"},
			},
		},
	}
	if err := c.finish(); err != nil {
		panic("portfolio: built-in content invalid: " + err.Error())
	}
	return c
}
