package estimate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/wirequote/internal/infra/llm/chatgpt"
	"github.com/yanqian/wirequote/pkg/metrics"
)

// Reasons attached to degraded results.
const (
	ReasonModelDisabled    = "language model not configured"
	ReasonModelUnavailable = "language model unavailable"
	ReasonModelMalformed   = "language model returned unusable output"
)

var (
	errModelDisabled = errors.New("chat client not configured")
	errNoChoices     = errors.New("chatgpt returned no choices")
	errMalformed     = errors.New("malformed model output")
)

// Service produces estimates for a job description. It never fails: upstream
// problems degrade to the keyword fallback.
type Service interface {
	Analyze(ctx context.Context, jobDescription string, emergency bool) Analysis
	Suggest(ctx context.Context, jobDescription string, emergency bool) SuggestionSet
}

// ChatClient is the subset of the ChatGPT client the estimator needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg      Config
	client   ChatClient
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// NewService wires up the estimator. A nil client always degrades.
func NewService(cfg Config, client ChatClient, recorder *metrics.Recorder, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		client:   client,
		recorder: recorder,
		logger:   logger.With("component", "estimate.service"),
	}
}

func (s *service) Analyze(ctx context.Context, jobDescription string, emergency bool) Analysis {
	content, err := s.complete(ctx, "single", chatgpt.ChatCompletionRequest{
		Messages: []chatgpt.Message{
			{Role: "system", Content: firstNonEmpty(s.cfg.SinglePrompt, defaultSinglePrompt)},
			{Role: "user", Content: singleUserPrompt(jobDescription, emergency)},
		},
		Temperature: s.cfg.SingleTemperature,
		MaxTokens:   s.cfg.SingleMaxTokens,
	})
	if err == nil {
		est, parseErr := NormalizeEstimate(content)
		if parseErr == nil {
			return Analysis{Estimate: est}
		}
		err = fmt.Errorf("%w: %v", errMalformed, parseErr)
	}

	reason := degradedReason(err)
	s.logger.Warn("estimate fallback used", "mode", "single", "reason", reason, "error", err)
	s.recorder.Fallback("llm_single")
	return Analysis{Estimate: FallbackEstimate(jobDescription), Degraded: true, Reason: reason}
}

func (s *service) Suggest(ctx context.Context, jobDescription string, emergency bool) SuggestionSet {
	content, err := s.complete(ctx, "multi", chatgpt.ChatCompletionRequest{
		Messages: []chatgpt.Message{
			{Role: "system", Content: firstNonEmpty(s.cfg.MultiPrompt, defaultMultiPrompt)},
			{Role: "user", Content: multiUserPrompt(jobDescription, emergency)},
		},
		Temperature: s.cfg.MultiTemperature,
		MaxTokens:   s.cfg.MultiMaxTokens,
	})
	if err == nil {
		suggestions, parseErr := NormalizeSuggestions(content, jobDescription)
		if parseErr == nil {
			return SuggestionSet{Suggestions: suggestions}
		}
		err = fmt.Errorf("%w: %v", errMalformed, parseErr)
	}

	reason := degradedReason(err)
	s.logger.Warn("estimate fallback used", "mode", "multi", "reason", reason, "error", err)
	s.recorder.Fallback("llm_multi")
	return SuggestionSet{Suggestions: FallbackSuggestions(jobDescription), Degraded: true, Reason: reason}
}

// complete performs one bounded model call and returns the first choice's content.
func (s *service) complete(ctx context.Context, mode string, req chatgpt.ChatCompletionRequest) (string, error) {
	if s.client == nil {
		return "", errModelDisabled
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	req.Model = s.cfg.Model
	req.ResponseFormat = chatgpt.JSONObject

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	usage := metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if err != nil {
		s.recorder.LLMCall(mode, "error", time.Since(start), usage)
		return "", err
	}
	s.recorder.LLMCall(mode, "ok", time.Since(start), usage)
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	s.logger.Debug("model responded", "mode", mode, "tokens", usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}

func degradedReason(err error) string {
	switch {
	case errors.Is(err, errModelDisabled):
		return ReasonModelDisabled
	case errors.Is(err, errMalformed), errors.Is(err, errNoChoices):
		return ReasonModelMalformed
	default:
		return ReasonModelUnavailable
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func singleUserPrompt(jobDescription string, emergency bool) string {
	return fmt.Sprintf("Analyze this electrical job:\n\nJob Description: %s\nEmergency Job: %s\n\nProvide accurate time estimate and complexity assessment.",
		jobDescription, yesNo(emergency))
}

func multiUserPrompt(jobDescription string, emergency bool) string {
	return fmt.Sprintf("Analyze this electrical job and provide multiple interpretations:\n\nJob Description: %s\nEmergency Job: %s\n\nProvide 2-4 different interpretations sorted by confidence.",
		jobDescription, yesNo(emergency))
}

const defaultSinglePrompt = `You are an expert electrical contractor with 20+ years of experience in the UK.
Your job is to analyze electrical work descriptions and provide accurate time and complexity estimates.

Consider the scope of work, complexity, access difficulty, safety requirements (testing, certification), materials, and travel and setup time.

Return your analysis as a JSON object with this exact structure:
{"estimated_hours": <float between 0.5 and 100>, "job_complexity": "<simple|moderate|complex>", "reasoning": "<brief explanation>", "recommended_actions": ["<action1>", "<action2>"]}

Guidelines:
- Simple jobs (socket replacement, light fixture): 0.5-2 hours
- Moderate jobs (multiple fixtures, minor repairs): 2-6 hours
- Complex jobs (rewiring, consumer unit, outdoor): 6+ hours
- Always add buffer time for testing and certification
- Emergency work is already flagged, do not add extra time for it`

const defaultMultiPrompt = `You are an expert electrical contractor with 20+ years of experience in the UK.
Analyze the job description and provide MULTIPLE possible interpretations, from most likely to least likely.

For each interpretation provide a short job title (5-8 words), a refined description, estimated hours, job complexity (simple/moderate/complex), a confidence score (0-100), a match reason and 2-4 recommended actions.

Consider a minimum viable fix, the standard comprehensive job and an extended scope.

Return JSON:
{"suggestions": [{"job_title": "Kitchen LED Downlight Installation", "refined_description": "Install 5 LED downlights...", "estimated_hours": 3.5, "job_complexity": "moderate", "confidence_score": 95, "match_reason": "Description clearly specifies...", "recommended_actions": ["action1", "action2"]}]}

Provide 2-4 suggestions, sorted by confidence (highest first).`
