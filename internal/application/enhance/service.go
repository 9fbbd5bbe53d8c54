// Package enhance orchestrates a single prompt enhancement: resolve config
// and credentials, ask the rate governor for admission, call the provider,
// persist the result.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptalchemy/alchemy-go/assets"
	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// systemPrompt frames every enhancement call.
const systemPrompt = "You are an expert at enhancing prompts for LLMs. " +
	"Transform the given prompt into a comprehensive, well-structured prompt " +
	"that will produce the best possible results."

// ErrRateLimited is reported when the provider's window is saturated and the
// caller did not ask to wait.
var ErrRateLimited = errors.New("rate limit reached")

// Deps are the collaborators the service orchestrates.
type Deps struct {
	Config   ports.ConfigStore
	Creds    ports.CredentialStore
	Limiter  ports.RateLimiter
	Factory  ports.ProviderFactory
	History  ports.HistoryRepository
	Projects ports.ProjectRepository
	Cloud    ports.CloudAuthChecker
	Logger   ports.Logger
}

// Service runs prompt enhancements. Safe for concurrent use; all shared
// state lives behind the injected collaborators.
type Service struct {
	deps Deps
}

// NewService creates the enhancement service.
func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// Enhance runs one enhancement end to end and returns the stored result.
func (s *Service) Enhance(req domain.EnhanceRequest) (domain.EnhanceResult, error) {
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := s.deps.Config.Load()
	if err != nil {
		return domain.EnhanceResult{}, fmt.Errorf("load config: %w", err)
	}

	provider := domain.NormalizeProviderID(req.Provider)
	if provider == "" {
		provider = domain.NormalizeProviderID(cfg.DefaultProvider)
	}
	model := req.Model
	if model == "" {
		model = cfg.DefaultModel
	}
	if model == "" {
		models := domain.ProviderModels(provider)
		if len(models) == 0 {
			return domain.EnhanceResult{}, fmt.Errorf("no model configured for provider %q", provider)
		}
		model = models[0]
	}

	if err := validateControlPanel(req); err != nil {
		return domain.EnhanceResult{}, err
	}
	settings := resolveSettings(req, cfg.EnhancementDefaults)
	prompt, err := buildPrompt(req, settings)
	if err != nil {
		return domain.EnhanceResult{}, err
	}

	apiKey, err := s.resolveAuth(ctx, cfg, provider)
	if err != nil {
		return domain.EnhanceResult{}, err
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = domain.DefaultTemperature
	}
	if strings.Contains(strings.ToLower(model), "gpt-5") {
		// GPT-5 models accept only the default temperature.
		s.logInfo("gpt-5 model detected, forcing temperature 1.0", nil)
		temperature = 1.0
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}

	if !s.deps.Limiter.Admit(ctx, provider, req.Wait) {
		count, reset := s.deps.Limiter.Remaining(provider)
		if ctx.Err() != nil {
			return domain.EnhanceResult{}, ctx.Err()
		}
		return domain.EnhanceResult{}, fmt.Errorf("%w for %s (remaining %d, retry in %s)",
			ErrRateLimited, provider, count, reset.Round(time.Second))
	}

	adapter, err := s.deps.Factory.ForProvider(provider, cfg.ProviderConfig(provider))
	if err != nil {
		return domain.EnhanceResult{}, err
	}

	start := time.Now()
	resp, err := adapter.Enhance(ctx, ports.ProviderRequest{
		Model:       model,
		System:      systemPrompt,
		Prompt:      prompt,
		APIKey:      apiKey,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return domain.EnhanceResult{}, fmt.Errorf("enhance with %s: %w", provider, err)
	}

	result := domain.EnhanceResult{
		ID:              uuid.NewString(),
		OriginalPrompt:  req.Prompt,
		EnhancedPrompt:  resp.Content,
		Provider:        provider,
		Model:           model,
		Settings:        settings,
		Timestamp:       time.Now().UTC().Format(domain.TimestampFormat),
		TokensUsed:      resp.TokensUsed,
		DurationSeconds: time.Since(start).Seconds(),
	}

	if err := s.deps.History.Save(result); err != nil {
		s.logWarn("failed to save history", map[string]interface{}{"error": err.Error()})
	}
	if req.Project != "" {
		if err := s.addToProject(req.Project, result); err != nil {
			s.logWarn("failed to record project prompt", map[string]interface{}{
				"project": req.Project,
				"error":   err.Error(),
			})
		}
	}
	return result, nil
}

// resolveAuth returns the API key for the call, empty for providers that
// need none or run in cloud auth mode.
func (s *Service) resolveAuth(ctx context.Context, cfg domain.Config, provider string) (string, error) {
	if domain.NormalizeAuthMode(cfg.AuthMode) == domain.AuthModeGcloud && domain.SupportsCloudAuth(provider) {
		authed, msg := s.deps.Cloud.Status(ctx)
		if !authed {
			return "", fmt.Errorf("google cloud authentication failed:\n%s", msg)
		}
		s.logInfo("using google cloud application default credentials", nil)
		return "", nil
	}

	key, ok := s.deps.Creds.Get(provider)
	if !ok && domain.RequiresAPIKey(provider) {
		return "", fmt.Errorf("API key for %s not configured (get one at %s)", provider, domain.KeyURL(provider))
	}
	return key, nil
}

func (s *Service) addToProject(name string, result domain.EnhanceResult) error {
	proj, ok := s.deps.Projects.Get(name)
	if !ok {
		var err error
		proj, err = s.deps.Projects.Create(name)
		if err != nil {
			return err
		}
	}
	return proj.AddPrompt(result)
}

// validateControlPanel rejects explicit overrides that are not in the
// supported option lists. Configured defaults are trusted as-is.
func validateControlPanel(req domain.EnhanceRequest) error {
	if req.Reasoning != "" && !containsFold(domain.ReasoningModes, req.Reasoning) {
		return fmt.Errorf("unknown reasoning mode %q (options: %s)",
			req.Reasoning, strings.Join(domain.ReasoningModes, ", "))
	}
	if req.Verbosity != "" && !containsFold(domain.VerbosityLevels, req.Verbosity) {
		return fmt.Errorf("unknown verbosity level %q (options: %s)",
			req.Verbosity, strings.Join(domain.VerbosityLevels, ", "))
	}
	for _, tool := range req.Tools {
		if !containsFold(domain.ToolOptions, tool) {
			return fmt.Errorf("unknown tool %q (options: %s)",
				tool, strings.Join(domain.ToolOptions, ", "))
		}
	}
	return nil
}

func containsFold(options []string, value string) bool {
	for _, opt := range options {
		if strings.EqualFold(opt, value) {
			return true
		}
	}
	return false
}

// resolveSettings merges per-call overrides over the configured defaults.
func resolveSettings(req domain.EnhanceRequest, defaults domain.EnhancementDefaults) domain.EnhancementSettings {
	settings := domain.EnhancementSettings{
		Role:        defaults.Role,
		Reasoning:   defaults.Reasoning,
		Verbosity:   defaults.Verbosity,
		Tools:       defaults.Tools,
		SelfReflect: defaults.SelfReflect,
		MetaFix:     defaults.MetaFix,
	}
	if req.Role != "" {
		settings.Role = req.Role
	}
	if req.Reasoning != "" {
		settings.Reasoning = req.Reasoning
	}
	if req.Verbosity != "" {
		settings.Verbosity = req.Verbosity
	}
	if len(req.Tools) > 0 {
		settings.Tools = req.Tools
	}
	if req.SelfReflect != nil {
		settings.SelfReflect = *req.SelfReflect
	}
	if req.MetaFix != nil {
		settings.MetaFix = *req.MetaFix
	}
	return settings
}

// buildPrompt renders the enhancement template with the resolved control
// panel and appends any attachment contents.
func buildPrompt(req domain.EnhanceRequest, settings domain.EnhancementSettings) (string, error) {
	inputs := ""
	if req.Inputs != "" {
		inputs = "\nInputs:\n" + req.Inputs
	}
	deliverables := ""
	if req.Deliverables != "" {
		deliverables = "\nDeliverables:\n" + req.Deliverables
	}

	replacer := strings.NewReplacer(
		"{role}", settings.Role,
		"{reasoning}", settings.Reasoning,
		"{verbosity}", settings.Verbosity,
		"{tools}", strings.Join(settings.Tools, ", "),
		"{self_reflect}", onOff(settings.SelfReflect),
		"{meta_fix}", onOff(settings.MetaFix),
		"{task}", req.Prompt,
		"{inputs}", inputs,
		"{deliverables}", deliverables,
	)
	prompt := replacer.Replace(assets.DefaultEnhancementTemplate)

	for _, path := range req.Attachments {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read attachment: %w", err)
		}
		prompt += fmt.Sprintf("\n\nAttached file (%s):\n%s", path, string(data))
	}
	return prompt, nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func (s *Service) logInfo(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, fields)
	}
}

func (s *Service) logWarn(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, fields)
	}
}
