// Package api 内嵌 OpenAPI 文档
package api

import (
	"context"
	"embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// SpecFile 内嵌文档路径
const SpecFile = "openapi/interntech.yaml"

//go:embed openapi/*.yaml
var OpenAPIFS embed.FS

// Load 解析并校验内嵌的 OpenAPI 文档
func Load(ctx context.Context) (*openapi3.T, error) {
	data, err := OpenAPIFS.ReadFile(SpecFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SpecFile, err)
	}
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", SpecFile, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate %s: %w", SpecFile, err)
	}
	return doc, nil
}
