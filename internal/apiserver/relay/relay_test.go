package relay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"interntech/internal/shared/model"
)

type fakeGenerator struct {
	text    string
	image   []byte
	err     error
	prompts []string
	schemas []*genai.Schema
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	return f.text, f.err
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.prompts = append(f.prompts, prompt)
	return f.image, f.err
}

type fakeSaver struct {
	saved [][]byte
	err   error
}

func (s *fakeSaver) SaveImage(ctx context.Context, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, data)
	return "/media/banner.png", nil
}

func TestGenerate_CourseDetails(t *testing.T) {
	gen := &fakeGenerator{text: `{"category":"Web Development","instructor":"Jane Doe","description":"Learn Go.","duration":"8 Weeks","price":199,"bannerPrompt":"gophers"}`}
	r := New(gen, nil)

	var calls []Kind
	r.OnGenerate = func(kind Kind, d time.Duration, err error) { calls = append(calls, kind) }

	out, err := r.Generate(context.Background(), KindCourseDetails, Input{Title: "Go for Beginners"})
	require.NoError(t, err)
	details, ok := out.(*CourseDetails)
	require.True(t, ok)
	assert.Equal(t, "Web Development", details.Category)
	assert.Equal(t, 199.0, details.Price)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Go for Beginners")
	assert.Equal(t, genai.TypeObject, gen.schemas[0].Type)
	assert.Contains(t, gen.schemas[0].Required, "bannerPrompt")
	assert.Equal(t, []Kind{KindCourseDetails}, calls)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"upstream error", &fakeGenerator{err: errors.New("connection reset")}},
		{"malformed json", &fakeGenerator{text: `{"excerpt": `}},
		{"missing field", &fakeGenerator{text: `{"excerpt":"short"}`}},
		{"unexpected field", &fakeGenerator{text: `{"excerpt":"a","content":"b","extra":1}`}},
		{"wrong type", &fakeGenerator{text: `{"excerpt":1,"content":"b"}`}},
		{"null field", &fakeGenerator{text: `{"excerpt":"a","content":null}`}},
		{"trailing data", &fakeGenerator{text: `{"excerpt":"a","content":"b"} {"excerpt":"c"}`}},
		{"trailing brace", &fakeGenerator{text: `{"excerpt":"a","content":"b"}}`}},
		{"not an object", &fakeGenerator{text: `["a","b"]`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New(tt.gen, nil).Generate(context.Background(), KindBlogDetails, Input{Title: "Interview tips"})
			assert.Nil(t, out)
			var ge *GenerationError
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, KindBlogDetails, ge.Kind)
		})
	}
}

func TestGenerate_MissingNumericField(t *testing.T) {
	gen := &fakeGenerator{text: `{"category":"Web Development","instructor":"Jane Doe","description":"Learn Go.","duration":"8 Weeks","bannerPrompt":"gophers"}`}
	out, err := New(gen, nil).Generate(context.Background(), KindCourseDetails, Input{Title: "Go for Beginners"})
	assert.Nil(t, out)
	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Contains(t, err.Error(), "price")

	gen.text = `{"category":"Web Development","instructor":"Jane Doe","description":"Learn Go.","duration":"8 Weeks","price":0,"bannerPrompt":"gophers"}`
	out, err = New(gen, nil).Generate(context.Background(), KindCourseDetails, Input{Title: "Go for Beginners"})
	require.NoError(t, err, "an explicit zero price is a valid answer")
	assert.Equal(t, 0.0, out.(*CourseDetails).Price)
}

func TestGenerate_InputAndKind(t *testing.T) {
	gen := &fakeGenerator{}
	r := New(gen, nil)

	_, err := r.Generate(context.Background(), KindCourseDescription, Input{Title: "  "})
	ve, ok := model.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "title", ve.Fields[0].Field)

	_, err = r.Generate(context.Background(), KindRecommendations, Input{ViewingHistory: "Go"})
	ve, ok = model.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "profileData", ve.Fields[0].Field)

	_, err = r.Generate(context.Background(), Kind("poem"), Input{Title: "x"})
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Empty(t, gen.prompts, "no upstream call for rejected input")

	_, err = New(nil, nil).Generate(context.Background(), KindCourseDescription, Input{Title: "Go"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerate_BannerImage(t *testing.T) {
	gen := &fakeGenerator{image: []byte("png-bytes")}
	saver := &fakeSaver{}
	out, err := New(gen, saver).Generate(context.Background(), KindBannerImage, Input{Prompt: "a gopher teaching"})
	require.NoError(t, err)
	assert.Equal(t, &BannerImage{ImageURL: "/media/banner.png"}, out)
	assert.Equal(t, [][]byte{[]byte("png-bytes")}, saver.saved)
	assert.Contains(t, gen.prompts[0], "a gopher teaching")

	saver.err = errors.New("bucket missing")
	_, err = New(gen, saver).Generate(context.Background(), KindBannerImage, Input{Prompt: "x"})
	var ge *GenerationError
	assert.ErrorAs(t, err, &ge)
}

func TestAllKindsHaveFlows(t *testing.T) {
	for _, k := range Kinds() {
		f, ok := flows[k]
		require.True(t, ok, k)
		assert.NotNil(t, f.tmpl, k)
		assert.NotEmpty(t, f.inputs, k)
		if k != KindBannerImage {
			assert.NotNil(t, f.schema, k)
			assert.NotNil(t, f.newOutput, k)
		}
	}
}

func TestHandler(t *testing.T) {
	gen := &fakeGenerator{text: `{"description":"A great course."}`}
	mux := http.NewServeMux()
	NewHandler(New(gen, nil)).RegisterRoutes(mux)

	post := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		return w
	}

	w := post("/api/admin/ai/course-description", `{"title":"Go"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"description":"A great course."}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, post("/api/admin/ai/course-description", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, post("/api/admin/ai/poem", `{"title":"Go"}`).Code)

	gen.err = errors.New("quota exceeded")
	w = post("/api/admin/ai/course-description", `{"title":"Go"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"generation failed"}`, w.Body.String())
}
