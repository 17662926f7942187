package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/conchis/internal/classification"
	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/credentials"
	"github.com/Veraticus/conchis/internal/model"
	"github.com/google/uuid"
)

// KeySource yields the API key for remote calls.
type KeySource interface {
	GetKey() (string, bool, error)
}

// StateStore persists the ledger and governor between processes.
type StateStore interface {
	LoadUsage(ctx context.Context) (*model.UsageSnapshot, error)
	SaveUsage(ctx context.Context, snapshot model.UsageSnapshot) error
	ClearUsage(ctx context.Context) error
}

// Call is one remote request as issued by a consumer of the service.
type Call struct {
	Operation   model.Operation
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ParsedReply is what a ReplyParser extracts from the reply text.
type ParsedReply struct {
	Category *model.Category
	Summary  string
}

// ReplyParser turns reply text into a ParsedReply. Errors are treated as
// malformed replies.
type ReplyParser func(text string) (ParsedReply, error)

// Service is the single entry point for remote calls. Every call passes the
// governor and is recorded in the ledger exactly once.
type Service struct {
	keys      KeySource
	store     StateStore
	client    Client
	factory   ClientFactory
	logger    *slog.Logger
	governor  *Governor
	ledger    *Ledger
	now       Clock
	clientKey string
	cfg       Config
	clientMu  sync.Mutex
	persistMu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock replaces the wall clock used by the governor, ledger and latency
// measurement.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithStateStore persists usage state after every completed call.
func WithStateStore(store StateStore) ServiceOption {
	return func(s *Service) {
		s.store = store
	}
}

// WithClientFactory replaces the provider client constructor.
func WithClientFactory(factory ClientFactory) ServiceOption {
	return func(s *Service) {
		if factory != nil {
			s.factory = factory
		}
	}
}

// NewService creates the remote entry point. When a state store is given,
// the persisted ledger and governor state is restored from it.
func NewService(ctx context.Context, cfg Config, keys KeySource, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cfg:     cfg,
		keys:    keys,
		logger:  logger,
		factory: NewClient,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.governor = NewGovernor(cfg.MinInterval, s.now)
	s.ledger = NewLedger(s.now)

	if s.store != nil {
		snapshot, err := s.store.LoadUsage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load usage state: %w", err)
		}
		if snapshot != nil {
			s.ledger.Restore(*snapshot)
			s.governor.Restore(snapshot.LastCallStart)
		}
	}

	return s, nil
}

// IsConfigured reports whether a plausible API key is available. No network
// validation is done.
func (s *Service) IsConfigured() bool {
	_, err := s.apiKey()
	return err == nil
}

// ClassifyWithLLM asks the remote model to classify content. It returns nil
// without attempting a call when no key is configured or the governor denies
// the call. Otherwise the result is always non-nil and failures are reported
// in it.
func (s *Service) ClassifyWithLLM(ctx context.Context, content string) *model.ClassificationResult {
	call := Call{
		Operation: model.OperationClassify,
		System:    classifySystemPrompt,
		Prompt:    BuildClassifyPrompt(content, classification.ClassifyLocally(content)),
	}
	return s.completeOptional(ctx, call, ParseClassificationReply)
}

// TestConnection sends a trivial prompt with the same bookkeeping as a
// classification. Any non-empty reply is a success.
func (s *Service) TestConnection(ctx context.Context) *model.ClassificationResult {
	call := Call{
		Operation: model.OperationTestConnection,
		Prompt:    connectionTestPrompt,
		MaxTokens: 5,
	}
	return s.completeOptional(ctx, call, parseConnectionReply)
}

func (s *Service) completeOptional(ctx context.Context, call Call, parse ReplyParser) *model.ClassificationResult {
	result, err := s.Complete(ctx, call, parse)
	if errors.Is(err, common.ErrNotConfigured) || errors.Is(err, common.ErrRateLimited) {
		return nil
	}
	return &result
}

// Complete performs one governed remote call. ErrNotConfigured and
// ErrRateLimited mean no call was attempted and nothing was recorded; the
// returned result is then zero. Any other error accompanies a failed result
// that has been recorded in the ledger.
func (s *Service) Complete(ctx context.Context, call Call, parse ReplyParser) (model.ClassificationResult, error) {
	key, err := s.apiKey()
	if err != nil {
		return model.ClassificationResult{}, err
	}

	client, err := s.clientFor(key)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("%w: %v", common.ErrNotConfigured, err)
	}

	if !s.governor.TryAcquire() {
		wait := s.governor.UntilNextRequest()
		s.logger.Debug("remote call rate limited",
			"operation", call.Operation,
			"retry_in", wait)
		return model.ClassificationResult{}, fmt.Errorf("%w: next request allowed in %s", common.ErrRateLimited, wait.Round(100*time.Millisecond))
	}

	requestID := uuid.NewString()
	start := s.now()

	reply, err := s.send(ctx, client, call)
	latency := s.now().Sub(start)
	if latency < 0 {
		latency = 0
	}

	var result model.ClassificationResult
	if err == nil {
		var parsed ParsedReply
		parsed, err = safeParse(parse, reply.Text)
		if err == nil {
			result = model.NewSuccessResult(call.Operation, parsed.Category, parsed.Summary, latency, replyCost(reply))
		}
	}
	if err != nil {
		result = model.NewFailureResult(call.Operation, err.Error(), latency)
	}
	result.RequestID = requestID

	s.ledger.RecordCompletion(result)
	s.persist(ctx)

	if result.Success {
		s.logger.Info("remote call completed",
			"operation", call.Operation,
			"request_id", requestID,
			"model", reply.Model,
			"latency", latency,
			"cost", result.EstimatedCost)
	} else {
		s.logger.Warn("remote call failed",
			"operation", call.Operation,
			"request_id", requestID,
			"latency", latency,
			"error", err)
	}

	return result, err
}

// send invokes the client, converting panics and unclassified errors into
// transport failures.
func (s *Service) send(ctx context.Context, client Client, call Call) (reply Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply = Reply{}
			err = fmt.Errorf("%w: client panic: %v", common.ErrTransport, r)
		}
	}()

	reply, err = client.Send(ctx, Request{
		System:      call.System,
		Prompt:      call.Prompt,
		MaxTokens:   call.MaxTokens,
		Temperature: call.Temperature,
	})
	if err != nil && !common.IsRemoteFailure(err) {
		err = fmt.Errorf("%w: %v", common.ErrTransport, err)
	}
	return reply, err
}

func safeParse(parse ReplyParser, text string) (parsed ParsedReply, err error) {
	defer func() {
		if r := recover(); r != nil {
			parsed = ParsedReply{}
			err = fmt.Errorf("%w: reply parser panic: %v", common.ErrMalformedReply, r)
		}
	}()

	parsed, err = parse(text)
	if err != nil && !errors.Is(err, common.ErrMalformedReply) {
		err = fmt.Errorf("%w: %v", common.ErrMalformedReply, err)
	}
	return parsed, err
}

func (s *Service) apiKey() (string, error) {
	if s.keys == nil {
		return "", common.ErrNotConfigured
	}

	key, ok, err := s.keys.GetKey()
	if err != nil {
		s.logger.Warn("failed to read API key", "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrNotConfigured, err)
	}
	if !ok || !credentials.IsPlausibleKey(key) {
		return "", common.ErrNotConfigured
	}
	return credentials.Normalize(key), nil
}

// clientFor returns a client for key, rebuilding it when the key changed.
func (s *Service) clientFor(key string) (Client, error) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()

	if s.client != nil && s.clientKey == key {
		return s.client, nil
	}

	cfg := s.cfg
	cfg.APIKey = key
	client, err := s.factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	s.client = client
	s.clientKey = key
	return client, nil
}

func (s *Service) snapshot() model.UsageSnapshot {
	snapshot := s.ledger.Snapshot()
	snapshot.LastCallStart = s.governor.State().LastRequest
	return snapshot
}

// persist saves usage state. A failed save is logged and otherwise ignored:
// the in-memory ledger stays authoritative for this process.
func (s *Service) persist(ctx context.Context) {
	if s.store == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.store.SaveUsage(context.WithoutCancel(ctx), s.snapshot()); err != nil {
		s.logger.Warn("failed to save usage state", "error", err)
	}
}

// Stats returns the current usage counters.
func (s *Service) Stats() model.UsageStats {
	return s.ledger.Stats()
}

// RateLimitState returns the governor state.
func (s *Service) RateLimitState() RateLimitState {
	return s.governor.State()
}

// IsRateLimited reports whether a call now would be denied.
func (s *Service) IsRateLimited() bool {
	return s.governor.IsRateLimited()
}

// UntilNextRequest returns how long until a call would be permitted.
func (s *Service) UntilNextRequest() time.Duration {
	return s.governor.UntilNextRequest()
}

// Reset clears usage counters and the governor, including persisted state.
// It is only ever invoked explicitly.
func (s *Service) Reset(ctx context.Context) error {
	s.ledger.Reset()
	s.governor.Reset()

	if s.store == nil {
		return nil
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.store.ClearUsage(ctx); err != nil {
		return fmt.Errorf("failed to clear usage state: %w", err)
	}
	return nil
}
