package text

import (
	"context"
	"strings"

	"github.com/russross/blackfriday"

	"logoforge/internal/domain"
)

// StrategyClient asks a Generator for a marketing strategy and applies the
// answer contract of the chosen format.
type StrategyClient struct {
	gen    Generator
	format domain.StrategyFormat
}

func NewStrategyClient(gen Generator, format domain.StrategyFormat) *StrategyClient {
	if format != domain.StrategyFormatText {
		format = domain.StrategyFormatJSON
	}
	return &StrategyClient{gen: gen, format: format}
}

// StrategyAnswer holds one of the two contract shapes.
type StrategyAnswer struct {
	Text     string
	Strategy *domain.Strategy
}

func (c *StrategyClient) Provider() string { return c.gen.Name() }

func (c *StrategyClient) Format() domain.StrategyFormat { return c.format }

// Generate runs the prompt. In JSON mode the first embedded JSON object is
// decoded into a Strategy and an answer without an insight is rejected.
func (c *StrategyClient) Generate(ctx context.Context, prompt string) (StrategyAnswer, error) {
	raw, err := c.gen.Generate(ctx, Request{Prompt: prompt, JSON: c.format == domain.StrategyFormatJSON})
	if err != nil {
		return StrategyAnswer{}, domain.ClassifyTransport(c.gen.Name(), err)
	}
	if c.format == domain.StrategyFormatText {
		return StrategyAnswer{Text: strings.TrimSpace(raw)}, nil
	}
	strategy, err := DecodeJSONObject[domain.Strategy](c.gen.Name(), raw)
	if err != nil {
		return StrategyAnswer{}, err
	}
	if strings.TrimSpace(strategy.Insight) == "" {
		return StrategyAnswer{}, missingField(c.gen.Name(), "insight")
	}
	return StrategyAnswer{Strategy: &strategy}, nil
}

// RenderHTML converts a markdown strategy into XHTML. Raw HTML in the input
// is dropped.
func RenderHTML(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	renderer := blackfriday.HtmlRenderer(blackfriday.HTML_SKIP_HTML|blackfriday.HTML_USE_XHTML, "", "")
	extensions := blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
		blackfriday.EXTENSION_AUTOLINK |
		blackfriday.EXTENSION_STRIKETHROUGH |
		blackfriday.EXTENSION_SPACE_HEADERS
	return string(blackfriday.Markdown([]byte(markdown), renderer, extensions))
}
