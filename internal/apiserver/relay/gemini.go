package relay

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"interntech/internal/config"
)

// Gemini 基于 google.golang.org/genai 的 Generator
type Gemini struct {
	client     *genai.Client
	model      string
	imageModel string
}

var _ Generator = (*Gemini)(nil)

// NewGemini 创建 Gemini 客户端
func NewGemini(ctx context.Context, cfg config.GenAIConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = "imagen-4.0-generate-001"
	}
	return &Gemini{client: client, model: model, imageModel: imageModel}, nil
}

// GenerateJSON 以 application/json + ResponseSchema 请求结构化输出
func (g *Gemini) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from %s", g.model)
	}
	return text, nil
}

// GenerateImage 生成单张图片
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI image generation failed: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("no image returned from %s", g.imageModel)
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}
