package text

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// StaticGenerator answers every prompt with a canned strategy. It is meant
// for local development without provider keys.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (s *StaticGenerator) Name() string { return staticProviderName }

func (s *StaticGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	brand := quotedBrand(req.Prompt)
	if req.JSON {
		payload := map[string]any{
			"insight": fmt.Sprintf("%s stands out when it tells a simple, honest story about what it cares about.", brand),
			"marketing_strategy": map[string]any{
				"tone":         "warm and confident",
				"social_media": []string{"Instagram reels showing the product in daily life", "LinkedIn founder notes"},
				"events":       []string{"Launch pop-up with a local partner", "Monthly community workshop"},
			},
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Audience profile\nPeople who already care about what %s stands for and want proof in everyday use.\n\n", brand)
	sb.WriteString("## Emotional hook\nMake the customer feel part of a small, meaningful change.\n\n")
	sb.WriteString("## Messaging strategy\n- Lead with one clear promise.\n- Show the product in real settings.\n- Invite customers to share their own stories.\n")
	return sb.String(), nil
}

func quotedBrand(prompt string) string {
	start := strings.IndexByte(prompt, '"')
	if start < 0 {
		return "the brand"
	}
	end := strings.IndexByte(prompt[start+1:], '"')
	if end <= 0 {
		return "the brand"
	}
	return prompt[start+1 : start+1+end]
}

var _ Generator = (*StaticGenerator)(nil)
