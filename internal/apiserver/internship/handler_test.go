package internship

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interntech/internal/shared/model"
	"interntech/internal/shared/storage/sqlitestore"
)

const sample = `{
	"title": "Backend Intern",
	"category": "Software Engineering",
	"organization": "Acme",
	"description": "Build APIs",
	"duration": "3 Months",
	"stipend": "$2500/month",
	"location": "Remote",
	"imageUrl": "https://example.com/i.png",
	"applicants": 12
}`

func TestInternshipHandler(t *testing.T) {
	store, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	mux := http.NewServeMux()
	NewHandler(store).RegisterRoutes(mux)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	var created struct {
		Internship model.Internship `json:"internship"`
	}
	w := do("POST", "/api/internships", sample)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Internship.ID
	assert.Equal(t, model.TypeInternship, created.Internship.Type)

	w = do("PUT", "/api/internships/"+id, `{"location":"Berlin"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Internship model.Internship `json:"internship"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Berlin", updated.Internship.Location)
	assert.Equal(t, "$2500/month", updated.Internship.Stipend)
	assert.Equal(t, 12, updated.Internship.Applicants)

	w = do("PUT", "/api/internships/"+id, `{"applicants":-3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do("GET", "/api/internships", "")
	var list struct {
		Internships []model.Internship `json:"internships"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Internships, 1)

	w = do("DELETE", "/api/internships/"+id, "")
	assert.JSONEq(t, `{"message":"Internship deleted successfully"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, do("GET", "/api/internships/"+id, "").Code)
}
