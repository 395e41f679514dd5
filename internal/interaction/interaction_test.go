package interaction

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marmar/internal/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() Request {
	return Request{
		Medications:   "warfarin, aspirin",
		HealthHistory: "atrial fibrillation",
		Gender:        GenderFemale,
		Age:           "67",
		Weight:        "70",
		Height:        "165",
	}
}

func TestEvaluate(t *testing.T) {
	const content = "Risk Level: MILD\nExplanation: ...\nTailored Advice: ...\nAlternative Medications (if SEVERE): none"

	tests := []struct {
		name string
		resp llm.ChatResponse
		err  error
		want Result
	}{
		{
			name: "content is passed through unchanged",
			resp: llm.ChatResponse{Content: content, Raw: `{"id":"chatcmpl-1"}`},
			want: Result{Kind: KindSuccess, DisplayText: content, RawResponse: `{"id":"chatcmpl-1"}`},
		},
		{
			name: "no choices yields the retry sentinel",
			resp: llm.ChatResponse{Raw: `{"choices":[]}`},
			want: Result{Kind: KindEmpty, DisplayText: "Marmar did not provide a response. Please try again.", RawResponse: "No content in response"},
		},
		{
			name: "provider error embeds description",
			err:  errors.New("timeout"),
			want: Result{Kind: KindFailure, DisplayText: "An error occurred: timeout", RawResponse: "timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(llm.MockClient)
			client.On("Chat", mock.Anything, mock.Anything).Return(tt.resp, tt.err).Once()

			got := NewChecker(client, discardLogger()).Evaluate(context.Background(), sampleRequest())

			assert.Equal(t, tt.want, got)
			client.AssertNumberOfCalls(t, "Chat", 1)
			client.AssertExpectations(t)
		})
	}
}

func TestEvaluateSendsFixedFraming(t *testing.T) {
	req := sampleRequest()
	client := new(llm.MockClient)
	client.On("Chat", mock.Anything, mock.MatchedBy(func(r llm.ChatRequest) bool {
		return r.System == "You are a knowledgeable pharmacist assistant." &&
			r.MaxTokens == 1000 &&
			r.User == BuildPrompt(req)
	})).Return(llm.ChatResponse{Content: "ok"}, nil).Once()

	NewChecker(client, discardLogger()).Evaluate(context.Background(), req)

	client.AssertExpectations(t)
}

func TestEvaluateIsIdempotentAgainstDeterministicProvider(t *testing.T) {
	client := new(llm.MockClient)
	client.On("Chat", mock.Anything, mock.Anything).
		Return(llm.ChatResponse{Content: "Risk Level: MODERATE", Raw: `{"id":"x"}`}, nil).Twice()
	checker := NewChecker(client, discardLogger())

	first := checker.Evaluate(context.Background(), sampleRequest())
	second := checker.Evaluate(context.Background(), sampleRequest())

	assert.Equal(t, first, second)
	client.AssertExpectations(t)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sampleRequest())

	for _, want := range []string{
		"Given the health history: atrial fibrillation,",
		"among these medications: warfarin, aspirin.",
		"gender: Female, age: 67, weight: 70, height: 165",
		"SEVERE, MODERATE, or MILD",
		"suggest alternative medications",
		"Risk Level: [SEVERE/MODERATE/MILD]",
		"Explanation: [Your detailed explanation]",
		"Tailored Advice: [Your advice]",
		"Alternative Medications (if SEVERE): [Your suggestions]",
	} {
		assert.True(t, strings.Contains(p, want), "prompt missing %q", want)
	}
}

func TestBuildPromptBlankOptionals(t *testing.T) {
	req := Request{Medications: "ibuprofen", HealthHistory: "asthma"}
	assert.Contains(t, BuildPrompt(req), "gender: , age: , weight: , height: , and health history: asthma")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "success", KindSuccess.String())
	assert.Equal(t, "empty", KindEmpty.String())
	assert.Equal(t, "failure", KindFailure.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestEvaluateLogsNoHealthData(t *testing.T) {
	tests := []struct {
		name      string
		resp      llm.ChatResponse
		err       error
		wantRawAt int // number of records carrying the raw response
	}{
		{"success", llm.ChatResponse{Content: "Risk Level: MILD", Raw: `{"id":"chatcmpl-1"}`}, nil, 1},
		{"empty", llm.ChatResponse{Raw: `{"choices":[]}`}, nil, 1},
		{"failure", llm.ChatResponse{}, errors.New("timeout"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			client := new(llm.MockClient)
			client.On("Chat", mock.Anything, mock.Anything).Return(tt.resp, tt.err).Once()

			req := sampleRequest()
			NewChecker(client, log).Evaluate(context.Background(), req)

			out := buf.String()
			require.NotEmpty(t, out)
			assert.NotContains(t, out, req.Medications)
			assert.NotContains(t, out, req.HealthHistory)

			rawRecords := 0
			sc := bufio.NewScanner(&buf)
			for sc.Scan() {
				var rec map[string]any
				require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
				if _, ok := rec["raw"]; ok {
					rawRecords++
					assert.Equal(t, "DEBUG", rec["level"])
				}
			}
			require.NoError(t, sc.Err())
			assert.Equal(t, tt.wantRawAt, rawRecords)
		})
	}
}
