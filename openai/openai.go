// Package openai judges strings against a natural language criterion with an
// OpenAI chat model, for use as a cunone context predicate.
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/vasilisp/cunone"
	"github.com/vasilisp/cunone/internal/util"
)

type ChatModel uint8

const (
	GPT4o ChatModel = iota
	GPT4oMini
)

func (m ChatModel) ToOpenAI() openai.ChatModel {
	switch m {
	case GPT4o:
		return openai.ChatModelGPT4o
	case GPT4oMini:
		return openai.ChatModelGPT4oMini
	default:
		util.Assert(false, "invalid chat model %d", m)
	}

	// dummy return
	return openai.ChatModelGPT4o
}

// ParseChatModel maps a model name to a ChatModel.
func ParseChatModel(name string) (ChatModel, error) {
	switch name {
	case string(openai.ChatModelGPT4o):
		return GPT4o, nil
	case string(openai.ChatModelGPT4oMini):
		return GPT4oMini, nil
	default:
		return 0, fmt.Errorf("unsupported model %q", name)
	}
}

var ErrAmbiguous = errors.New("ambiguous answer")

// sleep is replaced in tests.
var sleep = time.Sleep

type Model struct {
	client  *openai.Client
	modelID openai.ChatModel
}

func APIKeyFromEnv() string {
	return os.Getenv("OPENAI_API_KEY")
}

// NewModel creates a client for modelID. The client does not retry on its
// own; Judge retries with exponential backoff.
func NewModel(modelID ChatModel, apiKey string, opts ...option.RequestOption) Model {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	client := openai.NewClient(opts...)
	return Model{client: &client, modelID: modelID.ToOpenAI()}
}

func (m *Model) ask(ctx context.Context, system, user string) (string, error) {
	response, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: m.modelID,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return response.Choices[0].Message.Content, nil
}

func (m *Model) askWithRetry(ctx context.Context, system, user string, limit int) (string, error) {
	var err error

	for i := range limit {
		var result string
		result, err = m.ask(ctx, system, user)
		if err == nil {
			return result, nil
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if i < limit-1 {
			backoff := time.Duration(math.Pow(2, float64(i))) * time.Second
			util.Log.Printf("OpenAI error, will retry in %v: %v", backoff, err)
			sleep(backoff)
		}
	}

	return "", err
}

// Judge is the execution context of Test. It is owned by the caller and
// mutated by every invocation.
type Judge struct {
	Context   context.Context
	Model     Model
	Criterion string
	Retries   int

	// Calls counts the model round trips, retries excluded.
	Calls int
	// Err is the first failure. Once set, Test reports a match so the scan
	// stops querying the model.
	Err error
}

func NewJudge(ctx context.Context, model Model, criterion string, retries int) *Judge {
	return &Judge{
		Context:   ctx,
		Model:     model,
		Criterion: criterion,
		Retries:   max(retries, 1),
	}
}

func (j *Judge) systemPrompt() string {
	return "You decide whether a text satisfies a criterion. " +
		"Answer with exactly one word, yes or no.\n\nCriterion: " + j.Criterion
}

// Test reports whether v satisfies the criterion. It has the shape of a
// cunone.ContextPredicate, so (*Judge).Test can be handed to
// cunone.ByContext together with the judge.
func (j *Judge) Test(v string, i int, _ cunone.Array[string]) bool {
	if j.Err != nil {
		return true
	}

	j.Calls++

	answer, err := j.Model.askWithRetry(j.Context, j.systemPrompt(), v, j.Retries)
	if err != nil {
		j.Err = fmt.Errorf("element %d: %w", i, err)
		return true
	}

	ok, err := parseAnswer(answer)
	if err != nil {
		j.Err = fmt.Errorf("element %d: %w", i, err)
		return true
	}

	return ok
}

func parseAnswer(answer string) (bool, error) {
	a := strings.ToLower(strings.TrimSpace(answer))
	a = strings.TrimRight(a, ".!")

	switch {
	case a == "yes" || strings.HasPrefix(a, "yes,") || strings.HasPrefix(a, "yes "):
		return true, nil
	case a == "no" || strings.HasPrefix(a, "no,") || strings.HasPrefix(a, "no "):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrAmbiguous, answer)
	}
}
