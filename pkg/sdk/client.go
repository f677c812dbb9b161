package sourcer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbBadger "github.com/kailas-cloud/sourcer/internal/db/badger"
	"github.com/kailas-cloud/sourcer/internal/domain"
	dombatch "github.com/kailas-cloud/sourcer/internal/domain/batch"
	"github.com/kailas-cloud/sourcer/internal/domain/handoff"
	"github.com/kailas-cloud/sourcer/internal/domain/query/platform"
	"github.com/kailas-cloud/sourcer/internal/domain/query/request"
	"github.com/kailas-cloud/sourcer/internal/domain/query/result"
	usagerepo "github.com/kailas-cloud/sourcer/internal/repository/usage"
	assistuc "github.com/kailas-cloud/sourcer/internal/usecase/assist"
	batchuc "github.com/kailas-cloud/sourcer/internal/usecase/batch"
	generateuc "github.com/kailas-cloud/sourcer/internal/usecase/generate"
	healthuc "github.com/kailas-cloud/sourcer/internal/usecase/health"
	usageuc "github.com/kailas-cloud/sourcer/internal/usecase/usage"
)

const (
	defaultProvider  = "custom"
	defaultKeyPrefix = "sourcer:"
)

// Internal interfaces, replaced by mocks in tests.
type generateUseCase interface {
	Local(ctx context.Context, req *request.Request) result.Bundle
	Assist(ctx context.Context, req *request.Request) (result.Bundle, error)
	AssistAvailable() bool
}

type batchUseCase interface {
	Generate(ctx context.Context, items []batchuc.Item, useAssist bool) ([]dombatch.Result, error)
	Close()
}

type closer interface {
	Close()
}

// Client is the sourcer SDK entry point. It is safe for concurrent use.
type Client struct {
	store     closer
	genSvc    generateUseCase
	batchSvc  batchUseCase
	usageSvc  usageUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. The provided context is used to load persisted usage counters.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		provider:     defaultProvider,
		maxTokens:    assistuc.DefaultMaxTokens,
		maxBatchSize: batchuc.MaxBatchSize,
		workers:      batchuc.DefaultWorkers,
		keyPrefix:    defaultKeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	nop := zap.NewNop()
	tracker := usageuc.NewTracker(cfg.keyPrefix, nop)

	var store *dbBadger.Store
	var pinger healthuc.StorePinger = noopPinger{}
	if cfg.badgerPath != "" {
		store, err = dbBadger.Open(dbBadger.Config{Path: cfg.badgerPath, Logger: nop})
		if err != nil {
			return nil, fmt.Errorf("sourcer: open usage store: %w", err)
		}
		tracker.WithStore(ctx, usagerepo.New(store, 48*time.Hour, 62*24*time.Hour))
		pinger = store
	}

	var assistSvc *assistuc.Service
	if cfg.completer != nil {
		adapter := &completerAdapter{inner: cfg.completer, provider: cfg.provider}
		instrumented := assistuc.NewInstrumentedCompleter(adapter, cfg.provider, "", tracker, nop)
		assistSvc = assistuc.New(instrumented, nop).WithMaxTokens(cfg.maxTokens)
	} else {
		assistSvc = assistuc.New(nil, nop)
	}

	genSvc := generateuc.New(assistSvc, tracker)
	batchSvc, err := batchuc.New(genSvc, cfg.workers)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("sourcer: %w", err)
	}
	batchSvc.WithMaxBatchSize(cfg.maxBatchSize)

	c := &Client{
		genSvc:    genSvc,
		batchSvc:  batchSvc,
		usageSvc:  usageuc.New(tracker),
		healthSvc: healthuc.New(pinger, nil),
		obs:       obs,
	}
	if store != nil {
		c.store = store
	}
	return c, nil
}

// Close releases the worker pool and the usage store.
func (c *Client) Close() {
	if c.batchSvc != nil {
		c.batchSvc.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// AssistAvailable reports whether a Completer is configured.
func (c *Client) AssistAvailable() bool {
	return c.genSvc.AssistAvailable()
}

// Generate builds the boolean with the deterministic local engine.
// The only possible error is ErrInvalidInput.
func (c *Client) Generate(ctx context.Context, req Request) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("generate", start, err, "platform", req.Platform) }()

	r, err := toDomainRequest(req)
	if err != nil {
		return Result{}, err
	}
	return fromBundle(c.genSvc.Local(ctx, &r)), nil
}

// Assist asks the configured Completer for an alternative boolean.
// Unparseable answers degrade to plain text and are not errors.
func (c *Client) Assist(ctx context.Context, req Request) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("assist", start, err, "platform", req.Platform) }()

	r, err := toDomainRequest(req)
	if err != nil {
		return Result{}, err
	}

	ctx, usage := domain.NewContextWithAssistUsage(ctx)
	b, err := c.genSvc.Assist(ctx, &r)
	c.obs.addAssistTokens(usage.TotalTokens)
	if err != nil {
		return Result{}, fmt.Errorf("assist: %w", err)
	}
	return fromBundle(b), nil
}

// Batch generates every request on the worker pool. Results keep input order;
// per-item failures are reported in BatchResult.Err. An oversized batch fails as a whole.
func (c *Client) Batch(ctx context.Context, reqs []Request, useAssist bool) (out []BatchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("batch", start, err, "items", len(reqs), "assist", useAssist) }()

	items := make([]batchuc.Item, len(reqs))
	for i, r := range reqs {
		items[i] = batchuc.Item{
			Role:     r.Role,
			Skills:   r.Skills,
			Exclude:  r.Exclude,
			Location: r.Location,
			Platform: r.Platform,
		}
	}

	results, err := c.batchSvc.Generate(ctx, items, useAssist)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	out = make([]BatchResult, len(results))
	for i, res := range results {
		out[i] = BatchResult{Index: res.Index(), Err: res.Err()}
		if res.Status() == dombatch.StatusOK {
			out[i].Result = fromBundle(res.Bundle())
		}
	}
	return out, nil
}

// Handoff builds the PeopleGPT prompt and deep link for the inputs.
func (c *Client) Handoff(req Request) (Handoff, error) {
	r, err := toDomainRequest(req)
	if err != nil {
		return Handoff{}, err
	}
	h := handoff.New(r.Role(), r.Skills(), r.Exclude(), r.Location())
	return Handoff{Prompt: h.Prompt, Link: h.Link}, nil
}

// Platforms lists the supported platforms in display order.
func Platforms() []Platform {
	all := platform.All()
	out := make([]Platform, len(all))
	for i, p := range all {
		out[i] = Platform{Name: p.String(), Prefix: p.Prefix()}
	}
	return out
}

func toDomainRequest(req Request) (request.Request, error) {
	r, err := request.New(req.Role, req.Skills, req.Exclude, req.Location, req.Platform)
	if err != nil {
		return request.Request{}, fmt.Errorf("sourcer: %w", err)
	}
	return r, nil
}

func fromBundle(b result.Bundle) Result {
	return Result{
		Boolean:       b.Boolean,
		Explanation:   b.Explanation,
		PromptVersion: b.PromptVersion,
	}
}

// completerAdapter wraps the public Completer to satisfy the internal contract.
type completerAdapter struct {
	inner    Completer
	provider string
}

func (a *completerAdapter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	res, err := a.inner.Complete(ctx, Prompt{
		System:    req.System,
		User:      req.User,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		// Foreign errors count as transport failures; context errors pass through.
		if errors.Is(err, domain.ErrAssistProviderError) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.Completion{}, err
		}
		return domain.Completion{}, domain.NewProviderError(a.provider, 0, err.Error())
	}
	return domain.Completion{
		Text:             res.Text,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
		TotalTokens:      res.TotalTokens,
	}, nil
}

// noopPinger reports the in-memory counter store as always available.
type noopPinger struct{}

func (noopPinger) Ping(context.Context) error { return nil }
