// Package relay 内容生成：按固定模板拼装提示词，调用托管模型，按声明的结构解析结果
//
// 每次调用只请求一次上游。任何失败（网络、空响应、结构不符、图片保存失败）
// 都统一返回 *GenerationError，由调用方决定如何提示用户。
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"

	"interntech/internal/shared/model"
	"interntech/pkg/logging"
)

// Kind 生成类型
type Kind string

const (
	KindCourseDetails     Kind = "course-details"
	KindInternshipDetails Kind = "internship-details"
	KindBlogDetails       Kind = "blog-details"
	KindCourseDescription Kind = "course-description"
	KindRecommendations   Kind = "recommendations"
	KindBannerImage       Kind = "banner-image"
)

var (
	// ErrUnknownKind 未知生成类型
	ErrUnknownKind = errors.New("unknown generation kind")
	// ErrNotConfigured 未配置模型 API Key
	ErrNotConfigured = errors.New("content generation is not configured")
)

// GenerationError 上游生成失败
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Generator 托管模型调用
type Generator interface {
	// GenerateJSON 返回符合 schema 的 JSON 文本
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
	// GenerateImage 返回图片字节
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// ImageSaver 保存生成的图片并返回访问地址
type ImageSaver interface {
	SaveImage(ctx context.Context, data []byte) (string, error)
}

// Input 生成请求参数，不同 Kind 使用不同字段
type Input struct {
	Title          string `json:"title,omitempty"`
	ViewingHistory string `json:"viewingHistory,omitempty"`
	ProfileData    string `json:"profileData,omitempty"`
	Prompt         string `json:"prompt,omitempty"`
}

// ============================================================================
// 输出结构
// ============================================================================

type CourseDetails struct {
	Category     string  `json:"category" validate:"required"`
	Instructor   string  `json:"instructor" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	Duration     string  `json:"duration" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	BannerPrompt string  `json:"bannerPrompt" validate:"required"`
}

type InternshipDetails struct {
	Category     string `json:"category" validate:"required"`
	Organization string `json:"organization" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Duration     string `json:"duration" validate:"required"`
	Stipend      string `json:"stipend" validate:"required"`
	Location     string `json:"location" validate:"required"`
	BannerPrompt string `json:"bannerPrompt" validate:"required"`
}

type BlogDetails struct {
	Excerpt string `json:"excerpt" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type CourseDescription struct {
	Description string `json:"description" validate:"required"`
}

type Recommendations struct {
	Recommendations string `json:"recommendations" validate:"required"`
}

type BannerImage struct {
	ImageURL string `json:"imageUrl"`
}

// ============================================================================
// Relay
// ============================================================================

// Relay 内容生成中继
type Relay struct {
	gen    Generator
	images ImageSaver
	logger *logging.Logger
	check  *validator.Validate

	// OnGenerate 每次调用后回调（指标统计），可为空
	OnGenerate func(kind Kind, d time.Duration, err error)
}

// New 创建中继，gen 为空时所有调用返回 ErrNotConfigured
func New(gen Generator, images ImageSaver) *Relay {
	return &Relay{
		gen:    gen,
		images: images,
		logger: logging.Default("relay"),
		check:  validator.New(),
	}
}

// Kinds 支持的生成类型
func Kinds() []Kind {
	return []Kind{KindCourseDetails, KindInternshipDetails, KindBlogDetails, KindCourseDescription, KindRecommendations, KindBannerImage}
}

// Generate 执行一次生成
func (r *Relay) Generate(ctx context.Context, kind Kind, in Input) (any, error) {
	f, ok := flows[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	if err := f.checkInput(in); err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := r.run(ctx, kind, f, in)
	d := time.Since(start)
	if err != nil {
		err = &GenerationError{Kind: kind, Err: err}
	}
	r.logger.WithContext(ctx).GenerationLog(string(kind), d, err)
	if r.OnGenerate != nil {
		r.OnGenerate(kind, d, err)
	}
	return out, err
}

func (r *Relay) run(ctx context.Context, kind Kind, f flow, in Input) (any, error) {
	if r.gen == nil {
		return nil, ErrNotConfigured
	}
	prompt, err := f.render(in)
	if err != nil {
		return nil, err
	}

	if kind == KindBannerImage {
		if r.images == nil {
			return nil, errors.New("no image storage configured")
		}
		data, err := r.gen.GenerateImage(ctx, prompt)
		if err != nil {
			return nil, err
		}
		url, err := r.images.SaveImage(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		return &BannerImage{ImageURL: url}, nil
	}

	text, err := r.gen.GenerateJSON(ctx, prompt, f.schema)
	if err != nil {
		return nil, err
	}
	out := f.newOutput()
	if err := decodeResponse(text, f.schema, out); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	if err := r.check.Struct(out); err != nil {
		return nil, fmt.Errorf("response does not match schema: %w", err)
	}
	return out, nil
}

// decodeResponse 严格解码模型输出：单个 JSON 对象，schema 中的必填键必须出现且非 null，
// 不允许未声明的字段
func decodeResponse(text string, schema *genai.Schema, out any) error {
	dec := json.NewDecoder(strings.NewReader(text))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return errors.New("unexpected data after JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if schema != nil {
		for _, name := range schema.Required {
			if v, ok := fields[name]; !ok || string(v) == "null" {
				return fmt.Errorf("missing required field %q", name)
			}
		}
	}

	strict := json.NewDecoder(bytes.NewReader(raw))
	strict.DisallowUnknownFields()
	return strict.Decode(out)
}

// ============================================================================
// flow 定义
// ============================================================================

type flow struct {
	tmpl      *template.Template
	schema    *genai.Schema
	newOutput func() any
	inputs    []string // 必填输入字段（json 名）
}

func (f flow) render(in Input) (string, error) {
	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

func (f flow) checkInput(in Input) error {
	values := map[string]string{
		"title":          in.Title,
		"viewingHistory": in.ViewingHistory,
		"profileData":    in.ProfileData,
		"prompt":         in.Prompt,
	}
	ve := &model.ValidationError{}
	for _, name := range f.inputs {
		if strings.TrimSpace(values[name]) == "" {
			ve.Fields = append(ve.Fields, model.FieldError{Field: name, Message: name + " is required"})
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}
