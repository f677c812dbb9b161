package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sourcer/internal/config"
	"github.com/kailas-cloud/sourcer/internal/domain"
	logpkg "github.com/kailas-cloud/sourcer/internal/logger"
	"github.com/kailas-cloud/sourcer/internal/transport/provider"
	"github.com/kailas-cloud/sourcer/internal/version"
	sourcer "github.com/kailas-cloud/sourcer/pkg/sdk"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorError   = lipgloss.Color("#EF4444")

	titleStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	booleanStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

func main() {
	app := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "role",
			Aliases: []string{"r"},
			Usage:   "Role title, e.g. \"Software Engineer\"",
		},
		&cli.StringFlag{
			Name:    "skills",
			Aliases: []string{"s"},
			Usage:   "Comma-separated required skills",
		},
		&cli.StringFlag{
			Name:    "exclude",
			Aliases: []string{"x"},
			Usage:   "Comma-separated terms to exclude (added to the defaults)",
		},
		&cli.StringFlag{
			Name:    "location",
			Aliases: []string{"L"},
			Usage:   "Location; values with OR or | are used verbatim",
		},
		&cli.StringFlag{
			Name:    "platform",
			Aliases: []string{"p"},
			Usage:   "LinkedIn, GitHub, Google X-Ray or Generic",
			Value:   "LinkedIn",
		},
	}
}

func assistFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "assist",
			Usage: "Ask a language model instead of the local engine",
		},
		&cli.StringFlag{
			Name:    "provider",
			Usage:   "Assist provider: anthropic, openai or langchain",
			Value:   config.ProviderAnthropic,
			EnvVars: []string{"SOURCER_ASSIST_PROVIDER"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Assist provider API key",
			EnvVars: []string{"SOURCER_ASSIST_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "model",
			Usage:   "Assist model name (provider default when empty)",
			EnvVars: []string{"SOURCER_ASSIST_MODEL"},
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Assist provider base URL",
			EnvVars: []string{"SOURCER_ASSIST_BASE_URL"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Assist request timeout",
			Value: 60 * time.Second,
		},
	}
}

func newApp(out io.Writer) *cli.App {
	generateFlags := append(inputFlags(),
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the full result as JSON",
		},
		&cli.BoolFlag{
			Name:    "explain",
			Aliases: []string{"e"},
			Usage:   "Print the clause-by-clause explanation",
		},
	)
	generateFlags = append(generateFlags, assistFlags()...)

	return &cli.App{
		Name:      "boolgen",
		Usage:     "Build boolean candidate-search strings for recruiting",
		Version:   version.Version,
		Writer:    out,
		ErrWriter: out,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Set logging level (debug, info, warn, error)",
				Value: "warn",
			},
		}, generateFlags...),
		Before: setupLogger,
		Action: generateCommand,
		Commands: []*cli.Command{
			{
				Name:   "handoff",
				Usage:  "Print a PeopleGPT prompt and link for the same inputs",
				Flags:  inputFlags(),
				Action: handoffCommand,
			},
			{
				Name:   "platforms",
				Usage:  "List supported platforms and their prefixes",
				Action: platformsCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	logger, err := logpkg.NewLogger("local", c.String("log-level"))
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	c.Context = logpkg.ContextWithLogger(c.Context, logger)
	return nil
}

func requestFromFlags(c *cli.Context) sourcer.Request {
	return sourcer.Request{
		Role:     c.String("role"),
		Skills:   c.String("skills"),
		Exclude:  c.String("exclude"),
		Location: c.String("location"),
		Platform: c.String("platform"),
	}
}

func generateCommand(c *cli.Context) error {
	logger := logpkg.FromContext(c.Context)
	defer func() { _ = logger.Sync() }()

	if strings.TrimSpace(c.String("role")) == "" {
		return errors.New("--role is required")
	}

	var opts []sourcer.Option
	if c.Bool("assist") {
		completer, err := newCompleter(c)
		if err != nil {
			return err
		}
		opts = append(opts, sourcer.WithCompleter(completer), sourcer.WithProviderName(c.String("provider")))
	}

	client, err := sourcer.New(c.Context, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	req := requestFromFlags(c)
	start := time.Now()
	var res sourcer.Result
	if c.Bool("assist") {
		res, err = client.Assist(c.Context, req)
	} else {
		res, err = client.Generate(c.Context, req)
	}
	if err != nil {
		var pe *sourcer.ProviderError
		if errors.As(err, &pe) {
			logger.Error("Assist provider failed",
				zap.String("provider", pe.Provider),
				zap.Int("status", pe.StatusCode),
				zap.String("body", pe.Body),
			)
		}
		return err
	}
	logger.Debug("Boolean generated",
		zap.String("platform", req.Platform),
		zap.Bool("assist", c.Bool("assist")),
		zap.String("prompt_version", res.PromptVersion),
		zap.Duration("duration", time.Since(start)),
	)

	return printResult(c.App.Writer, res, c.Bool("json"), c.Bool("explain"))
}

func printResult(w io.Writer, res sourcer.Result, asJSON, explain bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return nil
	}

	fmt.Fprintln(w, booleanStyle.Render(res.Boolean))
	if explain {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Explanation"))
		fmt.Fprintln(w, res.Explanation)
		fmt.Fprintln(w, mutedStyle.Render("prompt version: "+res.PromptVersion))
	}
	return nil
}

func handoffCommand(c *cli.Context) error {
	client, err := sourcer.New(c.Context)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	h, err := client.Handoff(requestFromFlags(c))
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintln(w, titleStyle.Render("PeopleGPT prompt"))
	fmt.Fprintln(w, h.Prompt)
	fmt.Fprintln(w)
	fmt.Fprintln(w, mutedStyle.Render(h.Link))
	return nil
}

func platformsCommand(c *cli.Context) error {
	w := c.App.Writer
	for _, p := range sourcer.Platforms() {
		prefix := p.Prefix
		if prefix == "" {
			prefix = "(no prefix)"
		}
		fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(fmt.Sprintf("%-13s", p.Name)), mutedStyle.Render(prefix))
	}
	return nil
}

// newCompleter builds a provider completer from flags.
func newCompleter(c *cli.Context) (sourcer.Completer, error) {
	cfg := config.AssistConfig{
		Provider:   c.String("provider"),
		APIKey:     c.String("api-key"),
		BaseURL:    c.String("base-url"),
		Model:      c.String("model"),
		TimeoutSec: int(c.Duration("timeout").Seconds()),
	}
	inner, model, err := provider.New(cfg)
	if err != nil {
		return nil, err
	}
	logpkg.FromContext(c.Context).Debug("Assist provider ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", model),
	)
	return &completerAdapter{inner: inner}, nil
}

// completerAdapter exposes an internal provider completer through the SDK contract.
type completerAdapter struct {
	inner domain.Completer
}

func (a *completerAdapter) Complete(ctx context.Context, p sourcer.Prompt) (sourcer.Completion, error) {
	res, err := a.inner.Complete(ctx, domain.CompletionRequest{
		System:    p.System,
		User:      p.User,
		MaxTokens: p.MaxTokens,
	})
	if err != nil {
		return sourcer.Completion{}, err
	}
	return sourcer.Completion{
		Text:             res.Text,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
		TotalTokens:      res.TotalTokens,
	}, nil
}
