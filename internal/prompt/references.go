package prompt

import (
	"logoforge/internal/domain"
	"logoforge/internal/imaging"
)

// DecodableReferences returns the references whose bytes decode as PNG, JPEG,
// GIF or WebP, preserving slot order. Anything else is skipped.
func DecodableReferences(refs []domain.ReferenceImage) []domain.ReferenceImage {
	var out []domain.ReferenceImage
	for _, ref := range refs {
		if ref.Slot < 1 || ref.Slot > domain.MaxReferenceImages {
			continue
		}
		if Decodes(ref.Data) {
			out = append(out, ref)
		}
	}
	return out
}

// Decodes reports whether data is a readable image.
func Decodes(data []byte) bool {
	_, err := imaging.Decode(data)
	return err == nil
}
