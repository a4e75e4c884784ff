package domain

import "errors"

// UnexpectedMessage replaces the diagnostic of any unclassified failure.
const UnexpectedMessage = "unexpected error while generating brand assets"

// ImageSource tells whether the logo bytes came from the provider or from the
// placeholder asset.
type ImageSource string

const (
	ImageSourceProvider    ImageSource = "provider"
	ImageSourcePlaceholder ImageSource = "placeholder"
	ImageSourceNone        ImageSource = "none"
)

// StrategyFormat selects how the text provider is asked to answer.
type StrategyFormat string

const (
	StrategyFormatText StrategyFormat = "text"
	StrategyFormatJSON StrategyFormat = "json"
)

// ParseStrategyFormat defaults to JSON.
func ParseStrategyFormat(raw string) StrategyFormat {
	if StrategyFormat(raw) == StrategyFormatText {
		return StrategyFormatText
	}
	return StrategyFormatJSON
}

// MarketingStrategy is the structured part of the JSON strategy contract.
type MarketingStrategy struct {
	Tone        string   `json:"tone"`
	SocialMedia []string `json:"social_media"`
	Events      []string `json:"events"`
}

// Strategy is the JSON strategy contract returned by the text provider.
type Strategy struct {
	Insight           string            `json:"insight"`
	MarketingStrategy MarketingStrategy `json:"marketing_strategy"`
}

// GenerationResult is assembled per request and discarded once written.
type GenerationResult struct {
	Image          []byte
	ImageMIME      string
	ImageSource    ImageSource
	ImageError     string
	Strategy       *Strategy
	StrategyText   string
	StrategyError  string
	StrategyFormat StrategyFormat
	Prompts        PromptSpec
	Err            error
}

// ErrorMessage returns the combined diagnostic, empty when none. Unexpected
// failures are reported with UnexpectedMessage only.
func (r *GenerationResult) ErrorMessage() string {
	if r == nil || r.Err == nil {
		return ""
	}
	if errors.Is(r.Err, ErrUnexpected) {
		return UnexpectedMessage
	}
	return r.Err.Error()
}
