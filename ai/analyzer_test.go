package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
	err      error
	lastReq  ChatRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req ChatRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "Here you go:\n```json\n{\"a\": 1}\n```\nEnjoy!", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"unterminated json fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"surrounding whitespace", "  \n {\"a\": 1} \n", `{"a": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.in))
		})
	}
}

func TestAnalyzeParsesFencedResponse(t *testing.T) {
	completer := &fakeCompleter{response: "```json\n{\"confidence_score\": 0.9}\n```"}
	analyzer := NewAnalyzer(completer, "dbrx-instruct", 2000, 0.1)

	result := analyzer.Analyze(context.Background(), []byte("imagedata"))
	require.NotNil(t, result)
	assert.Equal(t, 0.9, result["confidence_score"])
}

func TestAnalyzeBuildsDataURLAndRequestParams(t *testing.T) {
	completer := &fakeCompleter{response: `{}`}
	analyzer := NewAnalyzer(completer, "dbrx-instruct", 2000, 0.1)

	result := analyzer.Analyze(context.Background(), []byte{0x01, 0x02})
	require.NotNil(t, result)

	assert.True(t, strings.HasPrefix(completer.lastReq.ImageURL, "data:image/jpeg;base64,"))
	assert.Equal(t, "dbrx-instruct", completer.lastReq.Model)
	assert.Equal(t, 2000, completer.lastReq.MaxTokens)
	assert.Equal(t, 0.1, completer.lastReq.Temperature)
	assert.Contains(t, completer.lastReq.Prompt, "food_items")
}

func TestAnalyzeReturnsNilOnProviderError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection refused")}
	analyzer := NewAnalyzer(completer, "dbrx-instruct", 2000, 0.1)

	assert.Nil(t, analyzer.Analyze(context.Background(), []byte("imagedata")))
}

func TestAnalyzeReturnsNilOnInvalidJSON(t *testing.T) {
	completer := &fakeCompleter{response: "I couldn't identify any food in this image."}
	analyzer := NewAnalyzer(completer, "dbrx-instruct", 2000, 0.1)

	assert.Nil(t, analyzer.Analyze(context.Background(), []byte("imagedata")))
}

func TestStubClientReturnsParseableLowConfidencePayload(t *testing.T) {
	analyzer := NewAnalyzer(NewStubClient(), "dbrx-instruct", 2000, 0.1)

	result := analyzer.Analyze(context.Background(), []byte("imagedata"))
	require.NotNil(t, result)
	assert.Equal(t, 0.1, result["confidence_score"])
	assert.Equal(t, []interface{}{"unknown food"}, result["food_items"])
}
