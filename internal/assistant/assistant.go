// Package assistant answers free-form productivity questions grounded
// in the user's recent task history via a chat-completion backend.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/beconsistent/consistent-api/internal/model"
	"github.com/beconsistent/consistent-api/internal/repository"
)

const historyDays = 7

const systemPrompt = "You are a helpful productivity assistant."

// NewClient builds the chat-completion backend. The base URL lets the
// same client talk to OpenAI-compatible providers.
func NewClient(apiKey, baseURL, modelName string) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(modelName),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}
	return client, nil
}

type Service struct {
	llm   llms.Model
	tasks repository.TaskRepository
	now   func() time.Time
}

func NewService(llm llms.Model, tasks repository.TaskRepository) *Service {
	return &Service{llm: llm, tasks: tasks, now: time.Now}
}

// Ask loads the owner's last seven days of tasks, folds them into the
// prompt and returns the generated answer.
func (s *Service) Ask(ctx context.Context, ownerKey, query string) (string, error) {
	end := s.now()
	start := end.AddDate(0, 0, -historyDays)

	tasks, err := s.tasks.List(ctx, repository.TaskListFilter{
		OwnerKey: ownerKey,
		FromDate: start.Format(model.DayKeyLayout),
		ToDate:   end.AddDate(0, 0, 1).Format(model.DayKeyLayout),
	})
	if err != nil {
		return "", fmt.Errorf("failed to load task history: %w", err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, buildPrompt(tasks, query)),
	}

	resp, err := s.llm.GenerateContent(ctx, messages, llms.WithMaxTokens(700))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "No response from the assistant.", nil
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func buildPrompt(tasks []model.Task, query string) string {
	var history strings.Builder
	if len(tasks) == 0 {
		history.WriteString("No tasks found.")
	} else {
		for i, t := range tasks {
			if i > 0 {
				history.WriteByte('\n')
			}
			status := "not completed"
			if t.IsCompleted {
				status = "completed"
			}
			fmt.Fprintf(&history, "- [%s] %s (%s)", t.Date, t.Title, status)
		}
	}

	return fmt.Sprintf(
		"You are helping a user reflect on their habits.\n\n"+
			"Here is the user's task history for the last %d days:\n\n%s\n\n"+
			"User question:\n%q",
		historyDays, history.String(), query,
	)
}
