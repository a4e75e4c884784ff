package jsoncfg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type BrandInfo struct {
	Name     string   `json:"name"`
	Industry string   `json:"industry"`
	Values   []string `json:"values"`
}

type LogoSpecs struct {
	Type   string   `json:"type"`
	Format string   `json:"format"`
	Colors []string `json:"colors"`
	Style  string   `json:"style"`
}

// BriefElement describes one reference image layer of the composition.
type BriefElement struct {
	Source         string   `json:"source"`
	Layer          int      `json:"layer"`
	Gestalt        []string `json:"gestalt"`
	Simplification string   `json:"simplification"`
}

type RadialMesh struct {
	Layers              int   `json:"layers"`
	Sectors             int   `json:"sectors"`
	Radius              int   `json:"radius"`
	ConcentricDivisions []int `json:"concentric_divisions"`
}

type CompositionRules struct {
	Symmetry    string `json:"symmetry"`
	Proportions string `json:"proportions"`
	Balance     string `json:"balance"`
}

type Composition struct {
	Elements   []BriefElement   `json:"elements"`
	RadialMesh RadialMesh       `json:"radial_mesh"`
	Rules      CompositionRules `json:"rules"`
}

type Typography struct {
	Integration   bool   `json:"integration"`
	LettersInIcon bool   `json:"letters_in_icon"`
	Style         string `json:"style"`
}

type OutputInstructions struct {
	FileType      string `json:"file_type"`
	Scalable      bool   `json:"scalable"`
	NegativeSpace bool   `json:"negative_space"`
	Minimalism    bool   `json:"minimalism"`
	Readability   string `json:"readability"`
}

type CreativeInstructions struct {
	MergeElements       bool   `json:"merge_elements"`
	AbstractShapes      bool   `json:"abstract_shapes"`
	HarmonicArrangement bool   `json:"harmonic_arrangement"`
	Repetition          string `json:"repetition"`
	Simplification      string `json:"simplification"`
}

// Directives renders the creative instructions as short imperative phrases.
func (c CreativeInstructions) Directives() []string {
	var out []string
	if c.MergeElements {
		out = append(out, "merge the elements into one mark")
	}
	if c.AbstractShapes {
		out = append(out, "use abstract shapes")
	}
	if c.HarmonicArrangement {
		out = append(out, "keep a harmonic arrangement")
	}
	if c.Repetition != "" {
		out = append(out, c.Repetition+" repetition")
	}
	if c.Simplification != "" {
		out = append(out, c.Simplification+" simplification")
	}
	return out
}

// LogoBrief is the structured description a logo prompt is rendered from.
type LogoBrief struct {
	Version           string               `json:"version"`
	Brand             BrandInfo            `json:"brand"`
	Specs             LogoSpecs            `json:"logo_specs"`
	Composition       Composition          `json:"composition"`
	Typography        Typography           `json:"typography"`
	GestaltPrinciples []string             `json:"gestalt_principles"`
	Output            OutputInstructions   `json:"output_instructions"`
	Creative          CreativeInstructions `json:"creative_instructions"`
	StyleCorpus       []string             `json:"style_corpus"`
}

const (
	// DefaultBriefVersion is the schema version stamped on rendered briefs.
	DefaultBriefVersion = "2025-01"
	DefaultIndustry     = "sustainability and environment"
	DefaultStyle        = "minimalist, elegant, geometric"
	DefaultStyleCorpus  = "estilo1"
)

var (
	DefaultValues            = []string{"nature", "innovation", "harmony"}
	DefaultColors            = []string{"#1B998B", "#E6F0EA"}
	DefaultGestaltPrinciples = []string{"proximity", "similarity", "continuity", "closure", "figure-ground", "pragnanz"}
)

// NewLogoBrief builds a brief with the house composition rules. Values are
// taken from the comma separated description.
func NewLogoBrief(title, description string, styleCorpus []string) *LogoBrief {
	b := &LogoBrief{
		Brand: BrandInfo{
			Name:   strings.TrimSpace(title),
			Values: SplitValues(description),
		},
		Specs: LogoSpecs{Type: "iconic", Format: "vector"},
		Composition: Composition{
			RadialMesh: RadialMesh{Layers: 2, Sectors: 5, Radius: 100, ConcentricDivisions: []int{50, 80}},
			Rules:      CompositionRules{Symmetry: "radial", Proportions: "harmonic, golden ratio", Balance: "visual"},
		},
		Typography: Typography{Integration: true, LettersInIcon: true, Style: "geometric, minimalist"},
		Output: OutputInstructions{
			FileType:      "SVG",
			Scalable:      true,
			NegativeSpace: true,
			Minimalism:    true,
			Readability:   "high",
		},
		Creative: CreativeInstructions{
			MergeElements:       true,
			AbstractShapes:      true,
			HarmonicArrangement: true,
			Repetition:          "radial or concentric",
			Simplification:      "maximum but recognizable",
		},
		StyleCorpus: cleanList(styleCorpus),
	}
	b.Normalize()
	return b
}

// SplitValues splits a comma separated description into trimmed values.
func SplitValues(description string) []string {
	return cleanList(strings.Split(description, ","))
}

func cleanList(items []string) []string {
	return lo.Compact(lo.Map(items, func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}

// AddElement registers a reference image layer. The first layer is read as
// figure-ground, later ones as grouped detail.
func (b *LogoBrief) AddElement(slot int, source string) {
	gestalt := lo.Ternary(slot == 1, []string{"figure-ground", "closure"}, []string{"proximity", "similarity"})
	b.Composition.Elements = append(b.Composition.Elements, BriefElement{
		Source:         lo.CoalesceOrEmpty(strings.TrimSpace(source), fmt.Sprintf("reference image %d", slot)),
		Layer:          slot,
		Gestalt:        gestalt,
		Simplification: "geometric",
	})
}

// Normalize fills server defaults for empty fields.
func (b *LogoBrief) Normalize() {
	if b == nil {
		return
	}
	if b.Version == "" {
		b.Version = DefaultBriefVersion
	}
	if b.Brand.Industry == "" {
		b.Brand.Industry = DefaultIndustry
	}
	if len(b.Brand.Values) == 0 {
		b.Brand.Values = append([]string(nil), DefaultValues...)
	}
	if len(b.Specs.Colors) == 0 {
		b.Specs.Colors = append([]string(nil), DefaultColors...)
	}
	if b.Specs.Style == "" {
		b.Specs.Style = DefaultStyle
	}
	if len(b.GestaltPrinciples) == 0 {
		b.GestaltPrinciples = append([]string(nil), DefaultGestaltPrinciples...)
	}
	if len(b.StyleCorpus) == 0 {
		b.StyleCorpus = []string{DefaultStyleCorpus}
	}
}

// Validate ensures the brief can be rendered.
func (b LogoBrief) Validate() error {
	if strings.TrimSpace(b.Brand.Name) == "" {
		return fmt.Errorf("brand.name is required")
	}
	if len(b.Composition.Elements) > 2 {
		return fmt.Errorf("composition.elements supports at most 2 layers")
	}
	if b.Composition.RadialMesh.Sectors <= 0 || b.Composition.RadialMesh.Layers <= 0 {
		return fmt.Errorf("composition.radial_mesh needs positive layers and sectors")
	}
	return nil
}

func MustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("json marshal: %w", err))
	}
	return b
}
