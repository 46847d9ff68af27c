package seed

import "interntech/internal/shared/model"

func ptr[T any](v T) *T { return &v }

const placeholderImage = "https://placehold.co/600x400"

var courses = []model.CoursePatch{
	{
		Title:            ptr("Advanced React for Modern Web Apps"),
		Category:         ptr("Web Development"),
		Instructor:       ptr("Jane Doe"),
		Description:      ptr("A deep dive into React hooks, context, and performance optimization techniques for building scalable applications."),
		Duration:         ptr("8 Weeks"),
		Price:            ptr(199.99),
		Rating:           ptr(4.8),
		ImageURL:         ptr(placeholderImage),
		StudentsEnrolled: ptr(1204),
		DataAIHint:       ptr("web development"),
	},
	{
		Title:            ptr("Data Science with Python: Zero to Hero"),
		Category:         ptr("Data Science"),
		Instructor:       ptr("John Smith"),
		Description:      ptr("Learn data analysis, visualization, and machine learning with Python libraries like Pandas, Matplotlib, and Scikit-learn."),
		Duration:         ptr("12 Weeks"),
		Price:            ptr(249.99),
		Rating:           ptr(4.9),
		ImageURL:         ptr(placeholderImage),
		StudentsEnrolled: ptr(2587),
		DataAIHint:       ptr("data science"),
	},
	{
		Title:            ptr("UI/UX Design Fundamentals"),
		Category:         ptr("Design"),
		Instructor:       ptr("Emily White"),
		Description:      ptr("Master the principles of user-centric design, from wireframing and prototyping to creating visually stunning interfaces."),
		Duration:         ptr("6 Weeks"),
		Price:            ptr(149.99),
		Rating:           ptr(4.7),
		ImageURL:         ptr(placeholderImage),
		StudentsEnrolled: ptr(985),
		DataAIHint:       ptr("design interface"),
	},
	{
		Title:            ptr("Digital Marketing Masterclass"),
		Category:         ptr("Business"),
		Instructor:       ptr("Michael Brown"),
		Description:      ptr("Covering SEO, SEM, social media marketing, and content strategy to grow businesses online."),
		Duration:         ptr("10 Weeks"),
		Price:            ptr(299.99),
		Rating:           ptr(4.8),
		ImageURL:         ptr(placeholderImage),
		StudentsEnrolled: ptr(1743),
		DataAIHint:       ptr("marketing"),
	},
}

var internships = []model.InternshipPatch{
	{
		Title:        ptr("Frontend Developer Intern"),
		Category:     ptr("Web Development"),
		Organization: ptr("Innovate Inc."),
		Description:  ptr("Join our frontend team to build and maintain our flagship products using React and TypeScript."),
		Duration:     ptr("3 Months"),
		Stipend:      ptr("$2000/month"),
		Location:     ptr("Remote"),
		ImageURL:     ptr(placeholderImage),
		Applicants:   ptr(152),
	},
	{
		Title:        ptr("Data Analyst Intern"),
		Category:     ptr("Data Science"),
		Organization: ptr("Data Insights Co."),
		Description:  ptr("Work with real-world datasets to generate insights and support business decisions."),
		Duration:     ptr("6 Months"),
		Stipend:      ptr("$2500/month"),
		Location:     ptr("New York, NY"),
		ImageURL:     ptr(placeholderImage),
		Applicants:   ptr(98),
	},
	{
		Title:        ptr("Product Design Intern"),
		Category:     ptr("Design"),
		Organization: ptr("Creative Solutions"),
		Description:  ptr("Collaborate with product managers and engineers to design intuitive and engaging user experiences."),
		Duration:     ptr("3 Months"),
		Stipend:      ptr("$2200/month"),
		Location:     ptr("Remote"),
		ImageURL:     ptr(placeholderImage),
		Applicants:   ptr(203),
	},
	{
		Title:        ptr("Marketing Intern"),
		Category:     ptr("Business"),
		Organization: ptr("Growth Gurus"),
		Description:  ptr("Assist in creating and executing marketing campaigns across various digital channels."),
		Duration:     ptr("4 Months"),
		Stipend:      ptr("$1800/month"),
		Location:     ptr("San Francisco, CA"),
		ImageURL:     ptr(placeholderImage),
		Applicants:   ptr(112),
	},
}

type student struct {
	Name         string
	Email        string
	Status       model.UserStatus
	Subscription model.Subscription
	JoinedDate   string
}

var students = []student{
	{"Alice Johnson", "alice@example.com", model.UserStatusActive, model.SubscriptionPremium, "2023-01-15"},
	{"Bob Williams", "bob@example.com", model.UserStatusActive, model.SubscriptionFree, "2023-02-20"},
	{"Charlie Brown", "charlie@example.com", model.UserStatusBlocked, model.SubscriptionFree, "2023-03-10"},
	{"Diana Miller", "diana@example.com", model.UserStatusActive, model.SubscriptionPremium, "2023-04-05"},
	{"Ethan Davis", "ethan@example.com", model.UserStatusActive, model.SubscriptionNone, "2023-05-25"},
}

var welcomePost = model.BlogPatch{
	Title:    ptr("Welcome to Intern Tech Solutions"),
	Excerpt:  ptr("What you can expect from our courses, internships and this blog."),
	Content:  ptr("<p>Intern Tech Solutions connects students with hands-on courses and real internships.</p><p>This blog covers career advice, interview preparation and stories from our community.</p>"),
	ImageURL: ptr(placeholderImage),
	Author:   ptr("Intern Tech Team"),
	ReadTime: ptr("2 min read"),
}
