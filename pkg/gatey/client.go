// client.go provides the Client, the root interface of the SDK.

package gatey

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	auth      Auth
	transport Transport
	logger    *zap.Logger
	retry     RetryConfig
	queueSize int
	immediate bool

	globalCapture bool
	flushTimeout  time.Duration

	codeContext  bool
	sdkInfo      bool
	runtimeInfo  bool
	platformInfo bool
	fingerprint  bool
	extraTags    map[string]string
	scrubber     *Scrubber
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		auth:         AuthFromEnv(),
		retry:        defaultRetryConfig(),
		queueSize:    1000,
		flushTimeout: 2 * time.Second,
		codeContext:  true,
		sdkInfo:      true,
		runtimeInfo:  true,
		platformInfo: true,
		fingerprint:  true,
	}
}

// WithAuth sets the full project auth in one call.
func WithAuth(auth Auth) Option {
	return func(c *clientConfig) { c.auth = auth }
}

// WithProjectID sets the project ID from the Gatey dashboard.
func WithProjectID(id int64) Option {
	return func(c *clientConfig) { c.auth.ProjectID = id }
}

// WithServerSecret sets the server-side project secret.
func WithServerSecret(secret string) Option {
	return func(c *clientConfig) { c.auth.ServerSecret = secret }
}

// WithClientSecret sets the client-side project secret.
func WithClientSecret(secret string) Option {
	return func(c *clientConfig) { c.auth.ClientSecret = secret }
}

// WithTransport replaces the default HTTP transport. Clients with a
// custom transport skip the credential check.
func WithTransport(t Transport) Option {
	return func(c *clientConfig) { c.transport = t }
}

// WithLogger sets the logger for SDK-internal diagnostics. Defaults to
// a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// WithRetry overrides the delivery retry policy.
func WithRetry(cfg RetryConfig) Option {
	return func(c *clientConfig) { c.retry = cfg }
}

// WithQueueSize bounds the delivery queue (default 1000). When full,
// the oldest queued event is dropped.
func WithQueueSize(n int) Option {
	return func(c *clientConfig) { c.queueSize = n }
}

// WithImmediateDelivery makes capture calls send synchronously instead
// of enqueueing. Delivery failures are still swallowed and logged.
func WithImmediateDelivery() Option {
	return func(c *clientConfig) { c.immediate = true }
}

// WithGlobalPanicCapture installs the client as the process-wide panic
// handler used by Guard. The previous handler is chained and restored
// on Close.
func WithGlobalPanicCapture() Option {
	return func(c *clientConfig) { c.globalCapture = true }
}

// WithFlushTimeout sets the drain timeout used by Close and by the
// global panic handler (default 2s).
func WithFlushTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.flushTimeout = d }
}

// WithoutCodeContext disables capturing source lines around traceback
// frames.
func WithoutCodeContext() Option {
	return func(c *clientConfig) { c.codeContext = false }
}

// WithoutSDKInfo excludes SDK tags from the default tags context.
func WithoutSDKInfo() Option {
	return func(c *clientConfig) { c.sdkInfo = false }
}

// WithoutRuntimeInfo excludes runtime tags from the default tags context.
func WithoutRuntimeInfo() Option {
	return func(c *clientConfig) { c.runtimeInfo = false }
}

// WithoutPlatformInfo excludes platform tags from the default tags context.
func WithoutPlatformInfo() Option {
	return func(c *clientConfig) { c.platformInfo = false }
}

// WithDefaultTags adds tags to the default tags context of the client.
func WithDefaultTags(tags map[string]string) Option {
	return func(c *clientConfig) { c.extraTags = tags }
}

// WithoutFingerprint disables attaching the grouping fingerprint tag
// to exception events.
func WithoutFingerprint() Option {
	return func(c *clientConfig) { c.fingerprint = false }
}

// WithScrubber makes the client redact sensitive data from every event
// before it reaches the transport.
func WithScrubber(s *Scrubber) Option {
	return func(c *clientConfig) { c.scrubber = s }
}

// EventOption configures a single capture call.
type EventOption func(*eventConfig)

type eventConfig struct {
	level           Level
	tags            map[string]string
	skipDefaultTags bool
}

// WithLevel overrides the event level.
func WithLevel(level Level) EventOption {
	return func(c *eventConfig) { c.level = level }
}

// WithTags attaches tags to the event. Event tags win over the client
// default tags on conflict.
func WithTags(tags map[string]string) EventOption {
	return func(c *eventConfig) { c.tags = tags }
}

// WithoutDefaultTags excludes the client default tags context from the
// event.
func WithoutDefaultTags() EventOption {
	return func(c *eventConfig) { c.skipDefaultTags = true }
}

// Client is the root interface for capturing events. Create one per
// process and Close it at shutdown to drain buffered events.
type Client struct {
	cfg       clientConfig
	transport Transport
	queue     *queue
	logger    *zap.Logger

	tagsMu sync.Mutex
	tags   map[string]string

	installedHook bool
}

// NewClient creates a Client. Without an explicit transport the default
// HTTP transport is used, which requires a project ID and at least one
// secret; a missing credential fails fast with a *ConfigurationError.
func NewClient(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	transport := cfg.transport
	if transport == nil {
		if _, err := cfg.auth.Resolve(); err != nil {
			return nil, err
		}
		transport = NewHTTPTransport(cfg.auth, WithHTTPLogger(cfg.logger))
	}

	c := &Client{
		cfg:       cfg,
		transport: transport,
		logger:    cfg.logger,
		tags:      mergeTags(defaultTags(cfg.sdkInfo, cfg.runtimeInfo, cfg.platformInfo), cfg.extraTags),
	}
	if !cfg.immediate {
		c.queue = newQueue(transport, cfg.logger, cfg.retry, cfg.queueSize)
	}

	if cfg.globalCapture {
		InstallGlobalHandler(c.handlePanic)
		c.installedHook = true
	}
	return c, nil
}

// CaptureMessage captures a message event and returns its event ID.
// The default level is debug.
func (c *Client) CaptureMessage(message string, opts ...EventOption) string {
	cfg := eventConfig{level: LevelDebug}
	for _, o := range opts {
		o(&cfg)
	}
	return c.capture(Event{Message: message}, cfg)
}

// CaptureException captures an error with a traceback of the calling
// goroutine and returns the event ID. The default level is error.
// Never panics, whatever the error value.
func (c *Client) CaptureException(err error, opts ...EventOption) string {
	cfg := eventConfig{level: LevelError}
	for _, o := range opts {
		o(&cfg)
	}
	info := buildExceptionInfo(err, 1, c.cfg.codeContext)
	return c.capture(Event{Message: info.Description, Exception: info}, cfg)
}

// CapturePanic captures a recovered panic value with a traceback of
// the calling goroutine and returns the event ID. The default level is
// critical. Never panics itself.
func (c *Client) CapturePanic(recovered any, opts ...EventOption) string {
	cfg := eventConfig{level: LevelCritical}
	for _, o := range opts {
		o(&cfg)
	}
	info := buildPanicInfo(recovered, 1, c.cfg.codeContext)
	return c.capture(Event{Message: info.Description, Exception: info}, cfg)
}

// CaptureEvent captures a raw, caller-built event and returns its event
// ID. Prefer CaptureMessage and CaptureException; this is the low-level
// path shared by both.
func (c *Client) CaptureEvent(event Event) string {
	return c.capture(event, eventConfig{})
}

// capture finalizes an event (identity, timestamp, tags) and hands it
// to the delivery path. Failures never reach the caller.
func (c *Client) capture(event Event, cfg eventConfig) string {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if cfg.level != "" {
		event.Level = cfg.level
	}
	if event.Level == "" {
		event.Level = LevelInfo
	}
	event.ProjectID = c.cfg.auth.ProjectID

	if cfg.skipDefaultTags {
		event.Tags = mergeTags(nil, cfg.tags)
	} else {
		event.Tags = mergeTags(c.defaultTagsSnapshot(), mergeTags(cfg.tags, event.Tags))
	}

	if c.cfg.fingerprint && event.Exception != nil {
		if event.Tags == nil {
			event.Tags = make(map[string]string, 1)
		}
		if _, ok := event.Tags["fingerprint"]; !ok {
			event.Tags["fingerprint"] = Fingerprint(event)
		}
	}

	if c.cfg.scrubber != nil {
		event = c.cfg.scrubber.ScrubEvent(event)
	}

	if c.queue != nil {
		c.queue.Enqueue(event)
		return event.ID
	}

	if err := c.transport.SendEvent(context.Background(), event); err != nil {
		c.logger.Warn("immediate delivery failed, dropping event",
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
	return event.ID
}

// SetDefaultTag updates one tag in the client default tags context.
func (c *Client) SetDefaultTag(name, value string) {
	c.tagsMu.Lock()
	defer c.tagsMu.Unlock()
	if c.tags == nil {
		c.tags = make(map[string]string)
	}
	c.tags[name] = value
}

func (c *Client) defaultTagsSnapshot() map[string]string {
	c.tagsMu.Lock()
	defer c.tagsMu.Unlock()
	snapshot := make(map[string]string, len(c.tags))
	for k, v := range c.tags {
		snapshot[k] = v
	}
	return snapshot
}

// Flush blocks until buffered events are delivered or timeout elapses.
// On timeout the remaining queued events are dropped. Reports whether
// the queue fully drained. Immediate-mode clients always report true.
func (c *Client) Flush(timeout time.Duration) bool {
	if c.queue == nil {
		return true
	}
	return c.queue.Flush(timeout)
}

// Close drains the queue, stops the delivery worker, closes the
// transport and uninstalls the global panic handler if this client
// installed it.
func (c *Client) Close() error {
	if c.installedHook {
		UninstallGlobalHandler()
		c.installedHook = false
	}
	if c.queue != nil {
		return c.queue.Close(c.cfg.flushTimeout)
	}
	return c.transport.Close()
}

// handlePanic is the client's global panic handler: capture, then a
// bounded flush so the event is not lost when the process dies.
func (c *Client) handlePanic(recovered any) {
	c.CapturePanic(recovered)
	c.Flush(c.cfg.flushTimeout)
}
