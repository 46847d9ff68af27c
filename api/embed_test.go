package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc, err := Load(t.Context())
	require.NoError(t, err)

	for _, p := range []string{
		"/health",
		"/api/admin/login",
		"/api/admin/ai/{kind}",
		"/api/courses/{id}",
		"/api/internships/{id}",
		"/api/blogs/slug/{slug}",
		"/api/listings/{kind}/{id}",
		"/api/users/{id}/status",
	} {
		assert.NotNil(t, doc.Paths.Find(p), "missing path %s", p)
	}

	op := doc.Paths.Find("/api/courses").Post
	require.NotNil(t, op)
	assert.Equal(t, "createCourse", op.OperationID)
	assert.NotNil(t, doc.Components.Schemas["Listing"])
}
