package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"logoforge/internal/domain"
	"logoforge/internal/fallback"
	"logoforge/internal/infra"
	"logoforge/internal/prompt"
	"logoforge/internal/providers/image"
	"logoforge/internal/providers/text"
)

// StrategyGenerator produces the marketing strategy for a text prompt.
type StrategyGenerator interface {
	Generate(ctx context.Context, prompt string) (text.StrategyAnswer, error)
	Provider() string
	Format() domain.StrategyFormat
}

// TitleGuard rejects clients repeating their previous title. Claim records
// the title in the same step that checks it.
type TitleGuard interface {
	Claim(ctx context.Context, clientIP, title string) error
}

type Options struct {
	Builder    *prompt.Builder
	Images     image.Generator
	Strategies StrategyGenerator
	Fallback   *fallback.Resolver
	Guard      TitleGuard
	ImageSize  string
	Logger     infra.Logger
}

// Service runs one brand generation: prompts, then the image call, then the
// text call. Provider failures degrade to fallback content.
type Service struct {
	builder    *prompt.Builder
	images     image.Generator
	strategies StrategyGenerator
	fallback   *fallback.Resolver
	guard      TitleGuard
	imageSize  string
	logger     infra.Logger
}

func NewService(opts Options) (*Service, error) {
	if opts.Builder == nil {
		return nil, errors.New("generation: prompt builder is required")
	}
	if opts.Images == nil {
		return nil, errors.New("generation: image generator is required")
	}
	if opts.Strategies == nil {
		return nil, errors.New("generation: strategy generator is required")
	}
	if opts.Fallback == nil {
		return nil, errors.New("generation: fallback resolver is required")
	}
	size := strings.TrimSpace(opts.ImageSize)
	if size == "" {
		size = image.DefaultSize
	}
	return &Service{
		builder:    opts.Builder,
		images:     opts.Images,
		strategies: opts.Strategies,
		fallback:   opts.Fallback,
		guard:      opts.Guard,
		imageSize:  size,
		logger:     opts.Logger,
	}, nil
}

// Input is one validated-on-entry generation request.
type Input struct {
	Brand     domain.BrandRequest
	ClientIP  string
	RequestID string
}

// Generate returns a *domain.ValidationError or domain.ErrDuplicateTitle
// before any provider call. Every other failure is reported through
// GenerationResult.Err and the result is still usable.
func (s *Service) Generate(ctx context.Context, in Input) (result *domain.GenerationResult, err error) {
	if err := in.Brand.Validate(); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error().
				Str("request_id", in.RequestID).
				Interface("panic", rec).
				Msg("generation: recovered from panic")
			result, err = s.unexpected(ctx, fmt.Errorf("panic: %v", rec)), nil
		}
	}()

	prompts, err := s.builder.Build(in.Brand)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return nil, err
		}
		return s.unexpected(ctx, err), nil
	}
	if s.guard != nil {
		if err := s.guard.Claim(ctx, in.ClientIP, in.Brand.Title); err != nil {
			return nil, err
		}
	}

	result = &domain.GenerationResult{
		StrategyFormat: s.strategies.Format(),
		Prompts:        prompts,
	}
	var diagnostics *multierror.Error

	if imgErr := s.resolveImage(ctx, in, prompts.ImagePrompt, result); imgErr != nil {
		diagnostics = multierror.Append(diagnostics, imgErr)
	}
	if txtErr := s.resolveStrategy(ctx, in, prompts.TextPrompt, result); txtErr != nil {
		diagnostics = multierror.Append(diagnostics, txtErr)
	}
	if diagnostics != nil {
		diagnostics.ErrorFormat = joinErrors
		result.Err = diagnostics.ErrorOrNil()
	}
	return result, nil
}

func (s *Service) resolveImage(ctx context.Context, in Input, imagePrompt string, result *domain.GenerationResult) error {
	var data []byte
	asset, genErr := s.images.Generate(ctx, image.GenerateRequest{
		Prompt:    imagePrompt,
		Size:      s.imageSize,
		RequestID: in.RequestID,
	})
	if genErr == nil && (asset == nil || len(asset.Data) == 0) {
		genErr = domain.NewProviderError(s.images.Name(), domain.ProviderKindMissingField, errors.New("image payload is empty"))
	}
	if genErr != nil {
		genErr = domain.ClassifyTransport(s.images.Name(), genErr)
	} else {
		data = asset.Data
	}

	blob, resolveErr := s.fallback.ResolveImage(ctx, data, genErr)
	switch {
	case genErr == nil:
		result.Image = blob
		result.ImageMIME = asset.Format
		result.ImageSource = domain.ImageSourceProvider
		return nil
	case resolveErr == nil:
		result.Image = blob
		result.ImageMIME = fallback.PlaceholderMIME
		result.ImageSource = domain.ImageSourcePlaceholder
	default:
		result.ImageSource = domain.ImageSourceNone
	}

	result.ImageError = genErr.Error()
	s.logger.Warn().
		Err(genErr).
		Str("request_id", in.RequestID).
		Str("provider", s.images.Name()).
		Str("reason", providerReason(genErr)).
		Msg("generation: image provider failed, using placeholder")

	if resolveErr != nil {
		s.logger.Error().Err(resolveErr).Str("request_id", in.RequestID).Msg("generation: placeholder unavailable")
		return fmt.Errorf("image generation failed: %w (placeholder unavailable: %v)", genErr, resolveErr)
	}
	return fmt.Errorf("image generation failed: %w", genErr)
}

func (s *Service) resolveStrategy(ctx context.Context, in Input, textPrompt string, result *domain.GenerationResult) error {
	answer, err := s.strategies.Generate(ctx, textPrompt)
	if err == nil {
		result.Strategy = answer.Strategy
		result.StrategyText = answer.Text
		return nil
	}

	err = domain.ClassifyTransport(s.strategies.Provider(), err)
	result.StrategyText = s.fallback.ResolveText("", err)
	result.StrategyError = err.Error()
	s.logger.Warn().
		Err(err).
		Str("request_id", in.RequestID).
		Str("provider", s.strategies.Provider()).
		Str("reason", providerReason(err)).
		Msg("generation: text provider failed, using fallback text")
	return fmt.Errorf("strategy generation failed: %w", err)
}

// unexpected builds the degraded result used when orchestration itself fails.
func (s *Service) unexpected(ctx context.Context, cause error) *domain.GenerationResult {
	result := &domain.GenerationResult{
		StrategyFormat: s.strategies.Format(),
		StrategyText:   fallback.TextFallback,
		ImageSource:    domain.ImageSourceNone,
		Err:            &domain.UnexpectedError{Cause: cause},
	}
	if blob, err := s.fallback.Placeholder(ctx); err == nil {
		result.Image = blob
		result.ImageMIME = fallback.PlaceholderMIME
		result.ImageSource = domain.ImageSourcePlaceholder
	}
	return result
}

func providerReason(err error) string {
	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		return "unknown"
	}
	if pe.Kind == domain.ProviderKindStatus {
		return fmt.Sprintf("http_%d", pe.Status)
	}
	return string(pe.Kind)
}

func joinErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
