package relay

import (
	"text/template"

	"google.golang.org/genai"
)

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

var flows = map[Kind]flow{
	KindCourseDetails: {
		inputs: []string{"title"},
		tmpl: template.Must(template.New("course-details").Parse(
			`You write course listings for Intern Tech Solutions, an online learning platform.
Given the course title below, suggest a category, a plausible instructor name, a description of at least three paragraphs
covering learning objectives, audience and outcomes, a realistic duration, a competitive price in USD,
and a short prompt for generating a banner image.

Course title: {{.Title}}`)),
		schema: object(map[string]*genai.Schema{
			"category":     str("Course category, e.g. Web Development"),
			"instructor":   str("Instructor name"),
			"description":  str("Course description, at least three paragraphs"),
			"duration":     str("Duration, e.g. 8 Weeks"),
			"price":        {Type: genai.TypeNumber, Description: "Price in USD"},
			"bannerPrompt": str("Prompt for a banner image"),
		}, "category", "instructor", "description", "duration", "price", "bannerPrompt"),
		newOutput: func() any { return &CourseDetails{} },
	},
	KindInternshipDetails: {
		inputs: []string{"title"},
		tmpl: template.Must(template.New("internship-details").Parse(
			`You write internship postings for Intern Tech Solutions.
Given the internship title below, suggest a category, a plausible organization, a description of at least three paragraphs
covering responsibilities, skills and what the intern will learn, a duration, a monthly stipend, a location (may be Remote),
and a short prompt for generating a banner image.

Internship title: {{.Title}}`)),
		schema: object(map[string]*genai.Schema{
			"category":     str("Internship category, e.g. Marketing"),
			"organization": str("Company offering the internship"),
			"description":  str("Internship description, at least three paragraphs"),
			"duration":     str("Duration, e.g. 3 Months"),
			"stipend":      str("Monthly stipend, e.g. $2500/month"),
			"location":     str("Location, e.g. Remote"),
			"bannerPrompt": str("Prompt for a banner image"),
		}, "category", "organization", "description", "duration", "stipend", "location", "bannerPrompt"),
		newOutput: func() any { return &InternshipDetails{} },
	},
	KindBlogDetails: {
		inputs: []string{"title"},
		tmpl: template.Must(template.New("blog-details").Parse(
			`You write career-development articles for students on the Intern Tech Solutions blog.
Given the post title below, write a two or three sentence excerpt and the full post as HTML with at least four paragraphs.

Post title: {{.Title}}`)),
		schema: object(map[string]*genai.Schema{
			"excerpt": str("Two or three sentence teaser"),
			"content": str("Full post as HTML"),
		}, "excerpt", "content"),
		newOutput: func() any { return &BlogDetails{} },
	},
	KindCourseDescription: {
		inputs: []string{"title"},
		tmpl: template.Must(template.New("course-description").Parse(
			`Write an engaging, professional course description of at least three paragraphs
for the course below. Cover the learning objectives, the intended audience and what students gain.

Course title: {{.Title}}`)),
		schema: object(map[string]*genai.Schema{
			"description": str("Course description"),
		}, "description"),
		newOutput: func() any { return &CourseDescription{} },
	},
	KindRecommendations: {
		inputs: []string{"viewingHistory", "profileData"},
		tmpl: template.Must(template.New("recommendations").Parse(
			`Recommend courses and internships for a student based on what they have viewed and their profile.

Viewing history: {{.ViewingHistory}}
Profile: {{.ProfileData}}`)),
		schema: object(map[string]*genai.Schema{
			"recommendations": str("Personalised recommendations"),
		}, "recommendations"),
		newOutput: func() any { return &Recommendations{} },
	},
	KindBannerImage: {
		inputs: []string{"prompt"},
		tmpl: template.Must(template.New("banner-image").Parse(
			`A wide 16:9 banner illustration, no text: {{.Prompt}}`)),
	},
}
