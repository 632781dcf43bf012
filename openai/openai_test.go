package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasilisp/cunone"
	"github.com/vasilisp/cunone/internal/util"
)

type fakeRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	} `json:"messages"`
}

const completion = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-mini",
	"choices": [{
		"index": 0,
		"finish_reason": "stop",
		"logprobs": null,
		"message": {"role": "assistant", "content": %s, "refusal": null}
	}],
	"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
}`

// fakeServer serves chat completions with the status and content returned by
// answer for the last user message. Every request is counted.
func fakeServer(t *testing.T, answer func(user string) (int, string)) (*httptest.Server, *atomic.Int32) {
	var requests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req fakeRequest
		if err := json.Unmarshal(body, &req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		user, _ := req.Messages[len(req.Messages)-1].Content.(string)

		status, content := answer(user)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"error": {"message": "boom", "type": "server_error"}}`)
			return
		}

		quoted, _ := json.Marshal(content)
		_, _ = io.WriteString(w, strings.Replace(completion, "%s", string(quoted), 1))
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func newTestModel(srv *httptest.Server) Model {
	return NewModel(GPT4oMini, "test", option.WithBaseURL(srv.URL+"/"))
}

func TestMain(m *testing.M) {
	util.Quiet()
	sleep = func(time.Duration) {}
	m.Run()
}

func TestJudgeShortCircuits(t *testing.T) {
	srv, requests := fakeServer(t, func(user string) (int, string) {
		if strings.Contains(user, "apple") {
			return http.StatusOK, "Yes."
		}
		return http.StatusOK, "no"
	})

	judge := NewJudge(context.Background(), newTestModel(srv), "mentions a fruit that is red", 3)
	x := cunone.FromSlice([]string{"pear", "plum", "apple pie", "grape", "apple"})

	out, err := cunone.ByContext(x, (*Judge).Test, judge)
	require.NoError(t, err)
	require.NoError(t, judge.Err)

	assert.Equal(t, []bool{true, true, false, false, false}, out)
	assert.Equal(t, 3, judge.Calls)
	assert.EqualValues(t, 3, requests.Load())
}

func TestJudgeRetries(t *testing.T) {
	var attempts atomic.Int32
	srv, _ := fakeServer(t, func(string) (int, string) {
		if attempts.Add(1) < 3 {
			return http.StatusInternalServerError, ""
		}
		return http.StatusOK, "no"
	})

	judge := NewJudge(context.Background(), newTestModel(srv), "anything", 3)

	out, err := cunone.ByContext(cunone.FromSlice([]string{"a"}), (*Judge).Test, judge)
	require.NoError(t, err)
	require.NoError(t, judge.Err)
	assert.Equal(t, []bool{true}, out)
	assert.EqualValues(t, 3, attempts.Load())
}

func TestJudgeFailureStopsScan(t *testing.T) {
	srv, requests := fakeServer(t, func(string) (int, string) {
		return http.StatusInternalServerError, ""
	})

	judge := NewJudge(context.Background(), newTestModel(srv), "anything", 2)

	out, err := cunone.ByContext(cunone.FromSlice([]string{"a", "b", "c"}), (*Judge).Test, judge)
	require.NoError(t, err)
	require.Error(t, judge.Err)
	assert.Contains(t, judge.Err.Error(), "element 0")

	assert.Equal(t, []bool{false, false, false}, out)
	assert.Equal(t, 1, judge.Calls)
	assert.EqualValues(t, 2, requests.Load())
}

func TestJudgeAmbiguousAnswer(t *testing.T) {
	srv, _ := fakeServer(t, func(string) (int, string) {
		return http.StatusOK, "maybe"
	})

	judge := NewJudge(context.Background(), newTestModel(srv), "anything", 1)

	_, err := cunone.ByContext(cunone.FromSlice([]string{"a", "b"}), (*Judge).Test, judge)
	require.NoError(t, err)
	assert.ErrorIs(t, judge.Err, ErrAmbiguous)
	assert.Equal(t, 1, judge.Calls)
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		answer   string
		expected bool
		err      bool
	}{
		{"yes", true, false},
		{"  Yes.\n", true, false},
		{"yes, it does", true, false},
		{"NO", false, false},
		{"no!", false, false},
		{"not sure", false, true},
		{"", false, true},
	}
	for _, test := range tests {
		t.Run(test.answer, func(t *testing.T) {
			ok, err := parseAnswer(test.answer)
			if test.err {
				assert.ErrorIs(t, err, ErrAmbiguous)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, ok)
		})
	}
}

func TestParseChatModel(t *testing.T) {
	m, err := ParseChatModel("gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, GPT4oMini, m)

	_, err = ParseChatModel("gpt-2")
	assert.Error(t, err)
}
