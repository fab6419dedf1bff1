package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpupo63/portfolio-backend/errs"
)

type fakeCompleter struct {
	prompt string
	out    string
	err    error
}

func (c *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompt = prompt
	return c.out, c.err
}

func descriptionInput() DescriptionInput {
	return DescriptionInput{
		ProjectName:               "Night City",
		ProjectCategory:           "Photography",
		ProjectSkills:             []string{"Lightroom", " ", "Long exposure"},
		ProjectDescriptionDetails: "A series shot over three winter nights.",
		TargetAudience:            "Gallery curators",
	}
}

func TestGenerateDescription(t *testing.T) {
	completer := &fakeCompleter{out: "  A quiet city, lit from within.\n"}
	gen := NewDescriptionGenerator(completer)

	out, err := gen.Generate(context.Background(), descriptionInput())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "A quiet city, lit from within." {
		t.Errorf("out = %q", out)
	}

	for _, want := range []string{
		"Project Name: Night City",
		"Skills Used: Lightroom, Long exposure",
		"Target Portfolio Audience: Gallery curators",
	} {
		if !strings.Contains(completer.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, completer.prompt)
		}
	}
}

func TestGenerateDescriptionErrors(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		_, err := NewDescriptionGenerator(nil).Generate(context.Background(), descriptionInput())
		if !errs.IsServiceDisabledError(err) {
			t.Fatalf("err = %v, want service disabled", err)
		}
	})

	t.Run("no skills", func(t *testing.T) {
		in := descriptionInput()
		in.ProjectSkills = []string{" "}
		completer := &fakeCompleter{}
		_, err := NewDescriptionGenerator(completer).Generate(context.Background(), in)
		if !errs.IsMissingRequiredFieldError(err) {
			t.Fatalf("err = %v, want missing field", err)
		}
		if completer.prompt != "" {
			t.Error("completer called for invalid input")
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("rate limited")}
		_, err := NewDescriptionGenerator(completer).Generate(context.Background(), descriptionInput())
		if !errs.IsServiceUnavailableError(err) {
			t.Fatalf("err = %v, want service unavailable", err)
		}
	})
}
