package server

import (
	"context"
	"slices"

	"github.com/shouni/gemini-interior-kit/pkg/domain"
	"github.com/shouni/gemini-interior-kit/pkg/generator"
)

type mockGenerator struct {
	generateFunc func(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
	consultFunc  func(ctx context.Context, question string) (*generator.ConsultResult, error)

	lastRequest *domain.GenerationRequest
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	m.lastRequest = &req
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return nil, domain.ErrEmptyResponse
}

func (m *mockGenerator) Consult(ctx context.Context, question string, images []domain.ImageBlob) (*generator.ConsultResult, error) {
	if m.consultFunc != nil {
		return m.consultFunc(ctx, question)
	}
	return nil, domain.ErrEmptyResponse
}

type mockAuth struct {
	codes []string
	admin string
}

func (m mockAuth) ValidAccessCode(code string) bool { return slices.Contains(m.codes, code) }
func (m mockAuth) ValidAdminCode(code string) bool  { return m.admin != "" && code == m.admin }
