package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxReferenceImages is the number of reference upload slots.
	MaxReferenceImages = 2
	// MaxTitleLength bounds the brand title in runes so it always fits the
	// image prompt verbatim.
	MaxTitleLength = 200
	// DefaultAudienceAge is applied when the age field is missing or not a
	// positive integer. Kept as a documented default rather than a rejection.
	DefaultAudienceAge = 30
)

// Gender is the optional audience gender hint.
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderFemale      Gender = "female"
	GenderMale        Gender = "male"
)

var lowerFold = cases.Fold()

// ParseGender maps free-form form input onto a Gender. Unknown values are
// treated as unspecified.
func ParseGender(raw string) Gender {
	switch lowerFold.String(strings.TrimSpace(raw)) {
	case "female", "f", "woman", "women", "mujer", "mujeres", "femenino":
		return GenderFemale
	case "male", "m", "man", "men", "hombre", "hombres", "masculino":
		return GenderMale
	default:
		return GenderUnspecified
	}
}

// ParseAge parses the age form field. Non-numeric and non-positive input
// yields DefaultAudienceAge.
func ParseAge(raw string) int {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || age <= 0 {
		return DefaultAudienceAge
	}
	return age
}

// Audience holds the demographic hints used to flavor prompts.
type Audience struct {
	Gender Gender
	Age    int
}

// Describe renders the audience as a short English phrase, e.g.
// "women around 30 years old".
func (a Audience) Describe() string {
	age := a.Age
	if age <= 0 {
		age = DefaultAudienceAge
	}
	who := "people"
	switch a.Gender {
	case GenderFemale:
		who = "women"
	case GenderMale:
		who = "men"
	}
	return who + " around " + strconv.Itoa(age) + " years old"
}

// ReferenceImage is an uploaded image bound to a 1-based slot.
type ReferenceImage struct {
	Slot     int
	Filename string
	MIME     string
	Data     []byte
}

// BrandRequest is the validated input of a single generation request.
type BrandRequest struct {
	Title       string
	Description string
	Audience    Audience
	StyleCorpus []string
	References  []ReferenceImage
	Locale      string
	Region      string
}

// DefaultStyleCorpus is used when the caller sends no style_corpus values.
var DefaultStyleCorpus = []string{"estilo1"}

// Validate checks the required fields.
func (r BrandRequest) Validate() error {
	if err := ValidateTitle(r.Title); err != nil {
		return err
	}
	if len(r.References) > MaxReferenceImages {
		return &ValidationError{Field: "references", Message: "at most 2 reference images are allowed"}
	}
	return nil
}

// ValidateTitle rejects blank titles and titles longer than MaxTitleLength.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("Title must be at most %d characters", MaxTitleLength)}
	}
	return nil
}

// LanguageTag returns the request locale as a language tag, English when
// missing or malformed.
func (r BrandRequest) LanguageTag() language.Tag {
	tag, err := language.Parse(strings.TrimSpace(r.Locale))
	if err != nil || tag == language.Und {
		return language.English
	}
	return tag
}

// PromptSpec is the pair of provider prompts derived from a BrandRequest.
// Brief is the structured logo brief the image prompt was rendered from.
type PromptSpec struct {
	ImagePrompt string
	TextPrompt  string
	Brief       json.RawMessage
}
