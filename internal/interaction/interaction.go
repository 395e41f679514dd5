// Package interaction checks a medication list against a health history
// through a chat-completion model.
package interaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"marmar/internal/llm"
)

// Gender is the demographic selector offered by the form.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Genders lists the selectable values in display order.
var Genders = []Gender{GenderMale, GenderFemale}

const (
	// ErrorPrefix starts DisplayText of every failed evaluation.
	ErrorPrefix = "An error occurred: "

	// NoResponseMessage is the DisplayText when the model returned nothing.
	NoResponseMessage = "Marmar did not provide a response. Please try again."

	noContentRaw = "No content in response"
)

// Request holds one form submission.
type Request struct {
	ID            uuid.UUID
	Medications   string
	HealthHistory string
	Gender        Gender
	Age           string
	Weight        string
	Height        string
}

// Kind discriminates evaluation outcomes.
type Kind int

const (
	KindSuccess Kind = iota
	KindEmpty
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindEmpty:
		return "empty"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one evaluation. RawResponse is a diagnostic copy
// of the provider reply (or the error text on failure).
type Result struct {
	Kind        Kind
	DisplayText string
	RawResponse string
}

// Checker sends interaction checks to the configured model.
type Checker struct {
	llm llm.Client
	log *slog.Logger
}

func NewChecker(client llm.Client, log *slog.Logger) *Checker {
	return &Checker{llm: client, log: log}
}

// Evaluate issues exactly one chat completion for req. It never returns an
// error; failures are reported through Result.Kind.
func (c *Checker) Evaluate(ctx context.Context, req Request) Result {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	log := c.log.With("analysis_id", req.ID)
	start := time.Now()

	resp, err := c.llm.Chat(ctx, llm.ChatRequest{
		System:    systemPrompt,
		User:      BuildPrompt(req),
		MaxTokens: maxTokens,
	})

	var res Result
	switch {
	case err != nil:
		res = Result{Kind: KindFailure, DisplayText: ErrorPrefix + err.Error(), RawResponse: err.Error()}
		log.Error("interaction check failed", "err", err, "duration_ms", time.Since(start).Milliseconds())
		return res
	case resp.Content == "":
		res = Result{Kind: KindEmpty, DisplayText: NoResponseMessage, RawResponse: noContentRaw}
	default:
		res = Result{Kind: KindSuccess, DisplayText: resp.Content, RawResponse: resp.Raw}
	}

	// Field contents are health data; only their sizes are logged.
	log.Info("interaction check finished",
		"outcome", res.Kind.String(),
		"duration_ms", time.Since(start).Milliseconds(),
		"medications_len", len(req.Medications),
		"health_history_len", len(req.HealthHistory),
		"response_len", len(resp.Content),
	)
	log.Debug("raw provider response", "raw", resp.Raw)
	return res
}
