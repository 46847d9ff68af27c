package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleCoursePatch() CoursePatch {
	return CoursePatch{
		Title:            ptr("X"),
		Category:         ptr("Y"),
		Instructor:       ptr("Z"),
		Description:      ptr("..."),
		Duration:         ptr("4 Weeks"),
		Price:            ptr(100.0),
		Rating:           ptr(4.5),
		StudentsEnrolled: ptr(0),
		ImageURL:         ptr("https://example.com/banner.png"),
	}
}

func TestCourse_Validate(t *testing.T) {
	now := time.Now()

	c := NewCourse(sampleCoursePatch(), now)
	require.NoError(t, c.Validate())
	assert.Equal(t, TypeCourse, c.Type)
	assert.NotEmpty(t, c.ID)

	tests := []struct {
		name  string
		patch CoursePatch
		field string
	}{
		{"rating above 5", CoursePatch{Rating: ptr(5.5)}, "rating"},
		{"negative rating", CoursePatch{Rating: ptr(-1.0)}, "rating"},
		{"negative price", CoursePatch{Price: ptr(-3.0)}, "price"},
		{"negative enrollment", CoursePatch{StudentsEnrolled: ptr(-1)}, "studentsEnrolled"},
		{"empty title", CoursePatch{Title: ptr("")}, "title"},
		{"bad image url", CoursePatch{ImageURL: ptr("not a url")}, "imageUrl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := *c
			tt.patch.Apply(&bad)
			err := bad.Validate()
			require.Error(t, err)
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected *ValidationError, got %T", err)
			require.Len(t, ve.Fields, 1)
			assert.Equal(t, tt.field, ve.Fields[0].Field)
		})
	}
}

func TestCoursePatch_PreservesOmittedFields(t *testing.T) {
	c := NewCourse(sampleCoursePatch(), time.Now())
	before := *c

	CoursePatch{Price: ptr(250.0)}.Apply(c)

	assert.Equal(t, 250.0, c.Price)
	before.Price = 250.0
	assert.Equal(t, before, *c)
	assert.Equal(t, map[string]any{"price": 250.0}, CoursePatch{Price: ptr(250.0)}.Fields())
}

func TestInternship_Validate(t *testing.T) {
	i := NewInternship(InternshipPatch{
		Title:        ptr("Backend Intern"),
		Category:     ptr("Software Engineering"),
		Organization: ptr("Acme"),
		Description:  ptr("Build APIs"),
		Duration:     ptr("3 Months"),
		Stipend:      ptr("$2500/month"),
		Location:     ptr("Remote"),
		ImageURL:     ptr("https://example.com/i.png"),
		Applicants:   ptr(12),
	}, time.Now())
	require.NoError(t, i.Validate())
	assert.Equal(t, TypeInternship, i.Type)

	i.Location = ""
	ve, ok := AsValidationError(i.Validate())
	require.True(t, ok)
	assert.Equal(t, "location", ve.Fields[0].Field)
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	u := NewUser("Ada", "ada@example.com", "$2a$10$secret", time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, UserRoleStudent, u.Role)
	assert.Equal(t, UserStatusActive, u.Status)
	assert.Equal(t, SubscriptionNone, u.Subscription)
	assert.Equal(t, "2025-03-09", u.JoinedDate)
	require.NoError(t, u.Validate())

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}

func TestUser_ValidateRole(t *testing.T) {
	u := NewUser("Ada", "ada@example.com", "h", time.Now())
	u.Role = "superuser"
	ve, ok := AsValidationError(u.Validate())
	require.True(t, ok)
	assert.Equal(t, "role", ve.Fields[0].Field)
}

func TestParseUserStatus(t *testing.T) {
	s, ok := ParseUserStatus("blocked")
	assert.True(t, ok)
	assert.Equal(t, UserStatusBlocked, s)

	_, ok = ParseUserStatus("deleted")
	assert.False(t, ok)
}

func TestBlog_DefaultsAndVisibility(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewBlog(BlogPatch{
		Title:    ptr("Ten Tips for Your First Internship!"),
		Excerpt:  ptr("Short"),
		Content:  ptr("<p>Body</p>"),
		ImageURL: ptr("https://example.com/b.png"),
		Author:   ptr("Jane"),
		ReadTime: ptr("5 min read"),
	}, now)
	require.NoError(t, b.Validate())
	assert.Equal(t, "ten-tips-for-your-first-internship", b.Slug)
	assert.Equal(t, BlogStatusPublished, b.Status)
	assert.True(t, b.IsPublic(now))

	b.Date = now.Add(24 * time.Hour)
	assert.False(t, b.IsPublic(now), "future posts are hidden")

	b.Date = now
	b.Status = BlogStatusDraft
	assert.False(t, b.IsPublic(now), "drafts are hidden")

	b.Slug = "Not A Slug"
	ve, ok := AsValidationError(b.Validate())
	require.True(t, ok)
	assert.Equal(t, "slug", ve.Fields[0].Field)
}

func TestDay_UnmarshalJSON(t *testing.T) {
	var p BlogPatch
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-05-01"}`), &p))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), p.Date.Time())

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-05-01T08:30:00+02:00"}`), &p))
	assert.Equal(t, time.Date(2024, 5, 1, 6, 30, 0, 0, time.UTC), p.Date.Time())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"May 1st"}`), &p))
}

func TestListing_TaggedJSON(t *testing.T) {
	c := NewCourse(sampleCoursePatch(), time.Now().UTC().Truncate(time.Second))
	l := CourseListing(c)
	require.NoError(t, l.Check())

	b, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"Course"`)

	var back Listing
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, ListingKindCourse, back.Kind)
	assert.Nil(t, back.Internship)
	assert.Equal(t, c.Title, back.Title())

	bad := Listing{Kind: ListingKindInternship, Course: c}
	assert.Error(t, bad.Check())
	_, err = json.Marshal(bad)
	assert.Error(t, err)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"Webinar"}`), &back))
}

func TestParseListingKind(t *testing.T) {
	k, err := ParseListingKind("internship")
	require.NoError(t, err)
	assert.Equal(t, ListingKindInternship, k)

	k, err = ParseListingKind("")
	require.NoError(t, err)
	assert.Equal(t, ListingKind(""), k)

	_, err = ParseListingKind("webinar")
	assert.Error(t, err)
}
