package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"logoforge/internal/domain"
	"logoforge/internal/generation"
	"logoforge/internal/imaging"
	"logoforge/internal/middleware"
	"logoforge/internal/providers/text"
	"logoforge/pkg/zip"
)

const (
	formatJSON = "json"
	formatPNG  = "png"
	formatZIP  = "zip"

	msgDuplicateTitle = "Logo already created for this title"
)

var supportedFormats = []string{formatJSON, formatPNG, formatZIP}

// Generate handles POST /generate. It accepts a multipart (or urlencoded)
// form and answers with the JSON envelope, a PNG download or a zip archive.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "Upload is too large")
			return
		}
		a.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	format := requestedFormat(r)
	if !lo.Contains(supportedFormats, format) {
		a.error(w, http.StatusBadRequest, fmt.Sprintf("Unsupported format %q", format))
		return
	}

	brand, formErr := brandFromForm(r)
	if formErr != nil {
		a.error(w, http.StatusBadRequest, formErr.Message)
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	result, err := a.Generator.Generate(r.Context(), generation.Input{
		Brand:     brand,
		ClientIP:  middleware.ClientIP(r),
		RequestID: requestID,
	})
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			a.error(w, http.StatusBadRequest, vErr.Message)
		case errors.Is(err, domain.ErrDuplicateTitle):
			a.error(w, http.StatusForbidden, msgDuplicateTitle)
		default:
			a.Logger.Error().Err(err).Str("request_id", requestID).Msg("generate: unexpected failure")
			a.error(w, http.StatusInternalServerError, domain.UnexpectedMessage)
		}
		return
	}

	switch format {
	case formatPNG:
		a.writePNG(w, brand.Title, result)
	case formatZIP:
		a.writeZIP(w, brand.Title, result)
	default:
		a.json(w, http.StatusOK, envelope(result, requestID))
	}
}

func requestedFormat(r *http.Request) string {
	format := lo.CoalesceOrEmpty(
		strings.TrimSpace(r.URL.Query().Get("format")),
		strings.TrimSpace(r.FormValue("format")),
		formatJSON,
	)
	return strings.ToLower(format)
}

func brandFromForm(r *http.Request) (domain.BrandRequest, *domain.ValidationError) {
	brand := domain.BrandRequest{
		Title: strings.TrimSpace(r.FormValue("title")),
		Description: lo.CoalesceOrEmpty(
			strings.TrimSpace(r.FormValue("theme")),
			strings.TrimSpace(r.FormValue("description")),
		),
		Audience: domain.Audience{
			Gender: domain.ParseGender(r.FormValue("gender")),
			Age: domain.ParseAge(lo.CoalesceOrEmpty(
				strings.TrimSpace(r.FormValue("age")),
				strings.TrimSpace(r.FormValue("age_range")),
			)),
		},
		StyleCorpus: styleCorpus(r.Form["style_corpus"]),
		Locale:      middleware.LocaleFromContext(r.Context()),
		Region:      middleware.CountryFromContext(r.Context()),
	}
	for slot := 1; slot <= domain.MaxReferenceImages; slot++ {
		ref, ok, vErr := referenceFromForm(r, slot)
		if vErr != nil {
			return domain.BrandRequest{}, vErr
		}
		if ok {
			brand.References = append(brand.References, ref)
		}
	}
	return brand, nil
}

// styleCorpus accepts repeated fields as well as comma-separated values.
func styleCorpus(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return lo.Uniq(out)
}

func referenceFromForm(r *http.Request, slot int) (domain.ReferenceImage, bool, *domain.ValidationError) {
	field := fmt.Sprintf("element%d", slot)
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return domain.ReferenceImage{}, false, nil
	}
	if err != nil {
		return domain.ReferenceImage{}, false, invalidUpload(field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.ReferenceImage{}, false, invalidUpload(field)
	}
	if len(data) == 0 {
		return domain.ReferenceImage{}, false, nil
	}
	return domain.ReferenceImage{
		Slot:     slot,
		Filename: uploadName(header, field),
		MIME:     header.Header.Get("Content-Type"),
		Data:     data,
	}, true, nil
}

func invalidUpload(field string) *domain.ValidationError {
	return &domain.ValidationError{Field: field, Message: "Invalid upload " + field}
}

func uploadName(header *multipart.FileHeader, fallback string) string {
	if header == nil || strings.TrimSpace(header.Filename) == "" {
		return fallback
	}
	return strings.TrimSpace(header.Filename)
}

func envelope(result *domain.GenerationResult, requestID string) map[string]any {
	body := map[string]any{
		"logo":        nil,
		"logo_mime":   result.ImageMIME,
		"logo_source": result.ImageSource,
		"error":       nil,
		"request_id":  requestID,
	}
	if len(result.Image) > 0 {
		body["logo"] = result.Image
	}
	if msg := result.ErrorMessage(); msg != "" {
		body["error"] = msg
	}

	if result.StrategyFormat == domain.StrategyFormatText {
		body["strategy_text"] = result.StrategyText
		body["strategy_html"] = text.RenderHTML(result.StrategyText)
		return body
	}
	if result.Strategy != nil {
		body["insight"] = result.Strategy.Insight
		body["marketing_strategy"] = result.Strategy.MarketingStrategy
	} else {
		body["insight"] = result.StrategyText
		body["marketing_strategy"] = nil
	}
	return body
}

func (a *App) writePNG(w http.ResponseWriter, title string, result *domain.GenerationResult) {
	if len(result.Image) == 0 {
		a.error(w, http.StatusBadGateway, lo.CoalesceOrEmpty(result.ErrorMessage(), "Logo is unavailable"))
		return
	}
	data, err := imaging.ToPNG(result.Image)
	if err != nil {
		a.Logger.Error().Err(err).Msg("generate: convert logo to png")
		a.error(w, http.StatusBadGateway, "Logo is unavailable")
		return
	}
	if msg := result.ErrorMessage(); msg != "" {
		w.Header().Set("X-Generation-Error", headerSafe(msg))
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(title)+".png"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *App) writeZIP(w http.ResponseWriter, title string, result *domain.GenerationResult) {
	var assets []zip.Asset
	if len(result.Image) > 0 {
		assets = append(assets, zip.Asset{
			Filename: "logo" + extensionFor(result.ImageMIME),
			MIME:     result.ImageMIME,
			Data:     result.Image,
		})
		if preview, err := imaging.ToWebP(result.Image, imaging.DefaultWebPQuality); err == nil {
			assets = append(assets, zip.Asset{Filename: "logo.webp", MIME: "image/webp", Data: preview})
		} else {
			a.Logger.Warn().Err(err).Msg("generate: webp preview skipped")
		}
	}

	if result.StrategyFormat == domain.StrategyFormatText {
		assets = append(assets, zip.Asset{Filename: "strategy.txt", MIME: "text/plain", Data: []byte(result.StrategyText)})
	} else {
		strategy := result.Strategy
		if strategy == nil {
			strategy = &domain.Strategy{Insight: result.StrategyText}
		}
		blob, _ := json.MarshalIndent(strategy, "", "  ")
		assets = append(assets, zip.Asset{Filename: "strategy.json", MIME: "application/json", Data: blob})
	}

	if len(result.Prompts.Brief) > 0 {
		var brief bytes.Buffer
		if err := json.Indent(&brief, result.Prompts.Brief, "", "  "); err == nil {
			assets = append(assets, zip.Asset{Filename: "brief.json", MIME: "application/json", Data: brief.Bytes()})
		}
	}

	prompts := fmt.Sprintf("# Image prompt\n%s\n\n# Text prompt\n%s\n", result.Prompts.ImagePrompt, result.Prompts.TextPrompt)
	if msg := result.ErrorMessage(); msg != "" {
		prompts += "\n# Errors\n" + msg + "\n"
	}
	assets = append(assets, zip.Asset{Filename: "prompts.txt", MIME: "text/plain", Data: []byte(prompts)})

	archive, err := zip.ArchiveAssets(assets, time.Now())
	if err != nil {
		a.Logger.Error().Err(err).Msg("generate: build archive")
		a.error(w, http.StatusInternalServerError, domain.UnexpectedMessage)
		return
	}
	if msg := result.ErrorMessage(); msg != "" {
		w.Header().Set("X-Generation-Error", headerSafe(msg))
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(title)+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}

// downloadName keeps the title readable while dropping characters that would
// break a Content-Disposition header or a file path.
func downloadName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case strings.ContainsRune(`"\/:*?<>|`, r):
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(title))
	if name == "" {
		return "logo"
	}
	return name
}

func headerSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}
