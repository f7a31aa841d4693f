package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"glrfill/internal/domain"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ReportText(ctx context.Context, reports []domain.Upload) (string, error) {
	args := m.Called(ctx, reports)
	return args.String(0), args.Error(1)
}

func (m *MockTextExtractor) TemplateText(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

// MockFieldInferrer is a mock implementation of port.FieldInferrer.
type MockFieldInferrer struct {
	mock.Mock
}

func (m *MockFieldInferrer) InferFields(ctx context.Context, templateText, reportText string) (domain.FieldMapping, error) {
	args := m.Called(ctx, templateText, reportText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.FieldMapping), args.Error(1)
}

// MockTemplateFiller is a mock implementation of port.TemplateFiller.
type MockTemplateFiller struct {
	mock.Mock
}

func (m *MockTemplateFiller) Fill(template []byte, fields domain.FieldMapping) ([]byte, error) {
	args := m.Called(template, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
