package text

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"logoforge/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestOpenAIGeneratorSuccess(t *testing.T) {
	var captured openAIChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("OpenAI-Organization"); got != "org-1" {
			t.Errorf("OpenAI-Organization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"  {\"insight\":\"x\"}  "}}]}`)
	}))
	defer srv.Close()

	gen, err := NewOpenAIGenerator(OpenAIOptions{APIKey: "key", BaseURL: srv.URL, Organization: "org-1"})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator returned error: %v", err)
	}
	out, err := gen.Generate(context.Background(), Request{Prompt: "hello", JSON: true})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out != `{"insight":"x"}` {
		t.Fatalf("Generate = %q", out)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Fatalf("response_format = %+v, want json_object", captured.ResponseFormat)
	}
	if captured.Model != defaultOpenAIModel {
		t.Fatalf("model = %q, want %q", captured.Model, defaultOpenAIModel)
	}
}

func TestOpenAIGeneratorFailures(t *testing.T) {
	cases := []struct {
		name   string
		rt     roundTripFunc
		reason string
		kind   domain.ProviderKind
		status int
	}{
		{
			name: "transport",
			rt: func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("boom")
			},
			reason: "http_request",
			kind:   domain.ProviderKindTransport,
		},
		{
			name: "status",
			rt: func(r *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusTooManyRequests, Body: io.NopCloser(strings.NewReader("slow down")), Header: http.Header{}}, nil
			},
			reason: "http_429",
			kind:   domain.ProviderKindStatus,
			status: http.StatusTooManyRequests,
		},
		{
			name: "decode",
			rt: func(r *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("<html>")), Header: http.Header{}}, nil
			},
			reason: "decode_response",
			kind:   domain.ProviderKindMalformedJSON,
		},
		{
			name: "empty_choices",
			rt: func(r *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"choices":[]}`)), Header: http.Header{}}, nil
			},
			reason: "empty_choices",
			kind:   domain.ProviderKindMissingField,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var capturedReason string
			gen, err := NewOpenAIGenerator(OpenAIOptions{
				APIKey:     "dummy",
				HTTPClient: &http.Client{Transport: tc.rt},
				OnFailure: func(reason string, err error) {
					capturedReason = reason
				},
			})
			if err != nil {
				t.Fatalf("NewOpenAIGenerator returned error: %v", err)
			}
			_, err = gen.Generate(context.Background(), Request{Prompt: "p"})
			var pe *domain.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want ProviderError", err)
			}
			if pe.Kind != tc.kind {
				t.Fatalf("Kind = %q, want %q", pe.Kind, tc.kind)
			}
			if pe.Status != tc.status {
				t.Fatalf("Status = %d, want %d", pe.Status, tc.status)
			}
			if capturedReason != tc.reason {
				t.Fatalf("reason = %q, want %q", capturedReason, tc.reason)
			}
		})
	}
}

func TestOpenAIGeneratorTimeout(t *testing.T) {
	gen, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey:  "dummy",
		Timeout: 20 * time.Millisecond,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			<-r.Context().Done()
			return nil, r.Context().Err()
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator returned error: %v", err)
	}
	_, err = gen.Generate(context.Background(), Request{Prompt: "p"})
	var pe *domain.ProviderError
	if !errors.As(err, &pe) || pe.Kind != domain.ProviderKindTimeout {
		t.Fatalf("error = %v, want timeout ProviderError", err)
	}
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	if _, err := NewOpenAIGenerator(OpenAIOptions{APIKey: "  "}); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestNormalizeOpenAIModel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		input  string
		model  string
		reason string
	}{
		{name: "exact_default", input: "gpt-4o-mini", model: "gpt-4o-mini", reason: ""},
		{name: "exact_large", input: "gpt-4o", model: "gpt-4o", reason: ""},
		{name: "alias_short", input: "gpt-3.5", model: "gpt-3.5-turbo", reason: "alias"},
		{name: "alias_spaces", input: "GPT4o Mini", model: "gpt-4o-mini", reason: "alias"},
		{name: "unsupported", input: "gpt-4.1", model: "gpt-4o-mini", reason: "defaulted"},
		{name: "empty", input: "", model: "gpt-4o-mini", reason: ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gotModel, gotReason := normalizeOpenAIModel(tc.input)
			if gotModel != tc.model {
				t.Fatalf("model = %q, want %q", gotModel, tc.model)
			}
			if gotReason != tc.reason {
				t.Fatalf("reason = %q, want %q", gotReason, tc.reason)
			}
		})
	}
}

func TestNewOpenAIGeneratorWarnsOnAlias(t *testing.T) {
	var capturedReason, capturedDetail string
	_, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey: "dummy",
		Model:  "gpt-3.5",
		OnWarning: func(reason, detail string) {
			capturedReason = reason
			capturedDetail = detail
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedReason != "model_alias" {
		t.Fatalf("warning reason = %q, want %q", capturedReason, "model_alias")
	}
	if capturedDetail != "requested=gpt-3.5 resolved=gpt-3.5-turbo" {
		t.Fatalf("warning detail = %q", capturedDetail)
	}
}
