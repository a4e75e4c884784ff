package prompt

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"logoforge/internal/domain"
	"logoforge/internal/domain/jsoncfg"
)

const imageBody = `Create a minimalist and elegant logo for the brand "{{.Brief.Brand.Name}}", focused on {{.Brief.Brand.Industry}} and expressing the values {{join .Brief.Brand.Values ", "}}.
The design must be {{.Brief.Specs.Style}}, {{.Brief.Specs.Type}}, in {{.Brief.Specs.Format}} format with the colors {{join .Brief.Specs.Colors ", "}}.
It should appeal to {{.Audience}}.
{{- if .Brief.Composition.Elements}}
Main elements:
{{- range .Brief.Composition.Elements}}
- {{.Source}}, layer {{.Layer}}, {{.Simplification}} simplification, applying Gestalt: {{join .Gestalt ", "}}
{{- end}}
{{- end}}
Arrange the elements on a radial mesh of {{.Brief.Composition.RadialMesh.Layers}} layers and {{.Brief.Composition.RadialMesh.Sectors}} sectors, with {{.Brief.Composition.Rules.Symmetry}} symmetry, {{.Brief.Composition.Rules.Proportions}} proportions and {{.Brief.Composition.Rules.Balance}} balance.
{{- if .Brief.Typography.Integration}}
Integrate {{.Brief.Typography.Style}} typography inside the elements when needed.
{{- end}}
Apply the Gestalt principles: {{join .Brief.GestaltPrinciples ", "}}.
Creative instructions: {{join .Creative "; "}}.
Style corpus: {{join .Brief.StyleCorpus ", "}}.
The result must be scalable, vector-like, use negative space and stay readable.`

const textBody = `You are a brand strategist. Write a marketing strategy for the brand "{{.Title}}".
{{- if .Description}}
Brand description: {{.Description}}.
{{- end}}
Target audience: {{.Audience}}.
{{- if .Region}}
Primary market region: {{.Region}}.
{{- end}}
Write the answer in {{.Language}}.`

// StrategyJSONSchema is the contract the text provider answers in JSON mode.
const StrategyJSONSchema = `{"insight": string, "marketing_strategy": {"tone": string, "social_media": [string], "events": [string]}}`

// DefaultRequiredSections are the headings of a plain-text strategy.
var DefaultRequiredSections = []string{"Audience profile", "Emotional hook", "Messaging strategy"}

const referenceClause = "Use reference image %d only as a silhouette/shape reference, do not copy its details."

// Options configures a Builder.
type Options struct {
	// ImageMaxLength caps the image prompt in runes. Zero means
	// DefaultImageMaxLength, negative disables truncation.
	ImageMaxLength int
	// Format selects the text provider answer contract.
	Format domain.StrategyFormat
}

// Builder turns a BrandRequest into provider prompts. It holds no state
// besides its compiled templates, so identical requests yield identical
// prompts.
type Builder struct {
	image Template
	text  Template
}

func NewBuilder(opts Options) (*Builder, error) {
	maxLength := opts.ImageMaxLength
	if maxLength == 0 {
		maxLength = DefaultImageMaxLength
	}
	format := opts.Format
	if format != domain.StrategyFormatText {
		format = domain.StrategyFormatJSON
	}
	b := &Builder{
		image: Template{
			Name:            "image",
			Body:            imageBody,
			MaxLength:       maxLength,
			ReferenceClause: referenceClause,
		},
		text: Template{
			Name:             "text",
			Body:             textBody,
			RequiredSections: DefaultRequiredSections,
			Format:           format,
			JSONSchema:       StrategyJSONSchema,
		},
	}
	if err := b.image.Compile(); err != nil {
		return nil, err
	}
	if err := b.text.Compile(); err != nil {
		return nil, err
	}
	return b, nil
}

// Format reports the text answer contract the builder asks for.
func (b *Builder) Format() domain.StrategyFormat {
	return b.text.Format
}

type imageData struct {
	Brief    *jsoncfg.LogoBrief
	Audience string
	Creative []string
}

type textData struct {
	Title       string
	Description string
	Audience    string
	Region      string
	Language    string
}

// Brief assembles the structured logo brief for req, with one composition
// layer per decodable reference image.
func Brief(req domain.BrandRequest) *jsoncfg.LogoBrief {
	brief := jsoncfg.NewLogoBrief(req.Title, req.Description, req.StyleCorpus)
	for _, ref := range DecodableReferences(req.References) {
		brief.AddElement(ref.Slot, ref.Filename)
	}
	return brief
}

// BuildImagePrompt renders the logo prompt. The title appears verbatim.
func (b *Builder) BuildImagePrompt(req domain.BrandRequest) (string, error) {
	if err := validateTitle(req.Title); err != nil {
		return "", err
	}
	brief := Brief(req)
	if err := brief.Validate(); err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}
	slots := make([]int, 0, len(brief.Composition.Elements))
	for _, el := range brief.Composition.Elements {
		slots = append(slots, el.Layer)
	}
	return b.image.Render(imageData{
		Brief:    brief,
		Audience: req.Audience.Describe(),
		Creative: brief.Creative.Directives(),
	}, slots)
}

// BuildTextPrompt renders the marketing strategy prompt.
func (b *Builder) BuildTextPrompt(req domain.BrandRequest) (string, error) {
	if err := validateTitle(req.Title); err != nil {
		return "", err
	}
	return b.text.Render(textData{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Audience:    req.Audience.Describe(),
		Region:      strings.TrimSpace(req.Region),
		Language:    LanguageName(req.LanguageTag()),
	}, nil)
}

// Build renders both prompts.
func (b *Builder) Build(req domain.BrandRequest) (domain.PromptSpec, error) {
	imagePrompt, err := b.BuildImagePrompt(req)
	if err != nil {
		return domain.PromptSpec{}, err
	}
	textPrompt, err := b.BuildTextPrompt(req)
	if err != nil {
		return domain.PromptSpec{}, err
	}
	return domain.PromptSpec{
		ImagePrompt: imagePrompt,
		TextPrompt:  textPrompt,
		Brief:       jsoncfg.MustMarshal(Brief(req)),
	}, nil
}

// LanguageName returns the English name of tag's base language.
func LanguageName(tag language.Tag) string {
	base, _ := tag.Base()
	if name := display.English.Languages().Name(base); name != "" {
		return name
	}
	return "English"
}

func validateTitle(title string) error {
	return domain.ValidateTitle(title)
}
