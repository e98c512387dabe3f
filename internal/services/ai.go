package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// TaskDraft is a task proposed by a TaskSuggester. Drafts are never saved;
// the client turns the ones it keeps into regular create requests.
type TaskDraft struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
}

// TaskSuggester turns free text into task drafts for a project.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, projectName, text string) ([]TaskDraft, error)
}

// AIService is the OpenAI backed TaskSuggester.
type AIService struct {
	client *openai.Client
	model  string
}

// NewAIService creates an AIService. An empty model selects GPT-4o.
func NewAIService(apiKey, model string) *AIService {
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

const suggestPrompt = `You extract actionable tasks for the project %q from the text below.

Current time (UTC): %s

Text:
%s

Reply with a JSON array only, no prose and no code fences:
[
  {
    "title": "short imperative title",
    "description": "what has to be done",
    "priority": "Low | Medium | High | Critical",
    "due_date": "ISO8601 timestamp such as 2025-10-28T23:59:59Z, or null when no deadline is given",
    "estimated_hours": 2.5
  }
]

Rules:
- Return [] when the text contains no task.
- Convert relative deadlines ("tomorrow", "next week") into absolute timestamps.
- Use null for unknown due_date or estimated_hours.`

// SuggestTasks asks the model for task drafts
func (s *AIService) SuggestTasks(ctx context.Context, projectName, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(suggestPrompt, projectName, time.Now().UTC().Format(time.RFC3339), text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseDrafts(resp.Choices[0].Message.Content)
}

// parseDrafts decodes the model reply, tolerating a surrounding code fence.
func parseDrafts(content string) ([]TaskDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return drafts, nil
}
