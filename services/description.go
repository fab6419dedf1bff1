package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"

	"github.com/rpupo63/portfolio-backend/errs"
)

const descriptionPrompt = `You are a seasoned copywriter specializing in crafting compelling project descriptions for creative portfolios. Your goal is to create descriptions that are not only informative but also engaging and tailored to attract the target audience. Use the following details to create a project description:

Project Name: {{.projectName}}
Project Category: {{.projectCategory}}
Skills Used: {{.projectSkills}}
Project Details: {{.projectDescriptionDetails}}
Target Portfolio Audience: {{.targetAudience}}

Based on these details, decide whether to include specific keywords related to the project's category and the skills used. Highlight the project's unique aspects and the value it brought to the client or the user. Aim for a tone that reflects the project's style and the overall aesthetic of the portfolio (artsy but minimal). Focus on a concise and engaging narrative that captures the essence of the project. Reply with the description only.`

// Completer turns a prompt into model output.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMCompleter adapts any langchaingo model.
type LLMCompleter struct {
	model       llms.Model
	temperature float64
}

func NewOpenAICompleter(apiKey, model string) (*LLMCompleter, error) {
	opts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, errs.NewConfigError("OPENAI_API_KEY", err)
	}
	return &LLMCompleter{model: llm, temperature: 0.7}, nil
}

func (c *LLMCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithTemperature(c.temperature))
}

type DescriptionInput struct {
	ProjectName               string   `json:"projectName" validate:"required,min=2"`
	ProjectCategory           string   `json:"projectCategory" validate:"required,min=2"`
	ProjectSkills             []string `json:"projectSkills" validate:"min=1"`
	ProjectDescriptionDetails string   `json:"projectDescriptionDetails" validate:"required,min=10"`
	TargetAudience            string   `json:"targetAudience" validate:"required,min=2"`
}

// DescriptionGenerator drafts project copy for the admin form.
type DescriptionGenerator struct {
	completer Completer
	template  prompts.PromptTemplate
}

// NewDescriptionGenerator accepts a nil completer; Generate then reports the feature as disabled.
func NewDescriptionGenerator(completer Completer) *DescriptionGenerator {
	return &DescriptionGenerator{
		completer: completer,
		template: prompts.NewPromptTemplate(descriptionPrompt, []string{
			"projectName", "projectCategory", "projectSkills", "projectDescriptionDetails", "targetAudience",
		}),
	}
}

func (g *DescriptionGenerator) Generate(ctx context.Context, in DescriptionInput) (string, error) {
	if g.completer == nil {
		return "", errs.NewServiceDisabledError("description generator")
	}

	in.ProjectName = strings.TrimSpace(in.ProjectName)
	in.ProjectCategory = strings.TrimSpace(in.ProjectCategory)
	in.ProjectDescriptionDetails = strings.TrimSpace(in.ProjectDescriptionDetails)
	in.TargetAudience = strings.TrimSpace(in.TargetAudience)
	skills := make([]string, 0, len(in.ProjectSkills))
	for _, s := range in.ProjectSkills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	in.ProjectSkills = skills
	if err := errs.FromValidator(validate.Struct(&in)); err != nil {
		return "", err
	}

	prompt, err := g.template.Format(map[string]any{
		"projectName":               in.ProjectName,
		"projectCategory":           in.ProjectCategory,
		"projectSkills":             strings.Join(in.ProjectSkills, ", "),
		"projectDescriptionDetails": in.ProjectDescriptionDetails,
		"targetAudience":            in.TargetAudience,
	})
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to render description prompt", err)
	}

	out, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("project", in.ProjectName).Msg("description generation failed")
		return "", errs.NewServiceUnavailableError("description generator", err)
	}
	return strings.TrimSpace(out), nil
}
