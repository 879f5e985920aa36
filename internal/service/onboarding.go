package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/telemetry"
)

// ChatClient defines the interface for LLM text generation
type ChatClient interface {
	GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DocumentStorage stores generated documents and issues download links.
type DocumentStorage interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

// Document generation sources
const (
	DocumentSourceAI       = "ai"
	DocumentSourceTemplate = "template"
)

// GenerateOnboardingInput represents input for GenerateDocument
type GenerateOnboardingInput struct {
	TenantID        string
	BusinessName    string
	BusinessProfile string
}

// OnboardingDocument is a generated setup guide for a new tenant.
type OnboardingDocument struct {
	Content     string
	Source      string
	DownloadURL string
}

// OnboardingService drafts a tenant onboarding document with the LLM. Any
// provider failure falls back to static canned content; the request never
// fails because the AI is down.
type OnboardingService struct {
	chat    ChatClient
	storage DocumentStorage
	uuidGen UUIDGenerator
}

// NewOnboardingService creates a new OnboardingService instance
func NewOnboardingService(chat ChatClient, storage DocumentStorage, uuidGen UUIDGenerator) *OnboardingService {
	return &OnboardingService{
		chat:    chat,
		storage: storage,
		uuidGen: uuidGen,
	}
}

const onboardingSystemPrompt = "Ты помощник по настройке AI-оператора продаж. " +
	"Составь короткий документ с рекомендациями по запуску для нового клиента."

// GenerateDocument drafts the onboarding document and, when storage is
// configured, uploads it and returns a presigned download URL.
func (s *OnboardingService) GenerateDocument(ctx context.Context, input GenerateOnboardingInput) (*OnboardingDocument, error) {
	ctx, span := telemetry.StartSpan(ctx, "OnboardingService.GenerateDocument", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "onboarding_document",
	})
	defer span.End()

	if input.TenantID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "tenant ID is required")
	}

	doc := &OnboardingDocument{Source: DocumentSourceTemplate}

	if s.chat != nil {
		userPrompt := buildOnboardingPrompt(input)
		content, err := s.chat.GenerateCompletion(ctx, onboardingSystemPrompt, userPrompt)
		if err == nil && strings.TrimSpace(content) != "" {
			doc.Content = content
			doc.Source = DocumentSourceAI
		} else if err != nil {
			telemetry.AddBreadcrumb(ctx, "onboarding", "llm generation failed, using template fallback")
		}
	}

	if doc.Content == "" {
		doc.Content = fallbackOnboardingDocument(input)
	}

	if s.storage != nil {
		key := fmt.Sprintf("onboarding/%s/%s.md", input.TenantID, s.uuidGen.NewString())
		if err := s.storage.PutObject(ctx, key, "text/markdown", []byte(doc.Content)); err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to store onboarding document", err)
		}
		url, err := s.storage.GenerateDownloadURL(ctx, key)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to create download URL", err)
		}
		doc.DownloadURL = url
	}

	return doc, nil
}

func buildOnboardingPrompt(input GenerateOnboardingInput) string {
	var parts []string
	if input.BusinessName != "" {
		parts = append(parts, fmt.Sprintf("Компания: %s", input.BusinessName))
	}
	if input.BusinessProfile != "" {
		parts = append(parts, fmt.Sprintf("Описание бизнеса: %s", input.BusinessProfile))
	}
	if len(parts) == 0 {
		parts = append(parts, "Общий план запуска без информации о компании.")
	}
	return strings.Join(parts, "\n")
}

// fallbackOnboardingDocument is the canned content served when the AI
// provider is unavailable.
func fallbackOnboardingDocument(input GenerateOnboardingInput) string {
	name := input.BusinessName
	if name == "" {
		name = "вашей компании"
	}
	return fmt.Sprintf(`# План запуска AI-оператора для %s

1. Загрузите каталог товаров: названия, описания, цены и остатки.
2. Добавьте документы: условия доставки, возврата и оплаты.
3. Подключите мессенджер-канал и проверьте тестовый диалог.
4. Включите сбор оценок CSAT после закрытия диалога.
5. Через неделю посмотрите аналитику удовлетворённости и проблемные темы.
`, name)
}
