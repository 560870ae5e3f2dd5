package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ragibmahsan/omop-healthcare-ui/internal/credentials"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/metrics"
	"github.com/ragibmahsan/omop-healthcare-ui/internal/nlsql"
)

// ApologyText is the fixed bot reply for any request failure. Credential,
// transport, and decode failures all collapse into this one message; the
// distinction only exists in the logs.
const ApologyText = "Sorry, I ran into a problem answering that. Please try again."

// Sentinel errors returned by Submit and SignIn. These are policy
// signals, not request failures: the transcript is untouched when they
// are returned.
var (
	// ErrEmptyQuestion rejects empty or whitespace-only input.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrEmptyCredentials rejects sign-in with a blank field.
	ErrEmptyCredentials = errors.New("access key and secret are required")

	// ErrSignedOut rejects a submit without installed credentials.
	ErrSignedOut = errors.New("not signed in")

	// ErrRequestInFlight rejects a second submit while one request is
	// outstanding. The UI disables the affordance; this enforces it.
	ErrRequestInFlight = errors.New("a request is already in flight")

	// ErrSignInUnsupported is returned by SignIn when the session's
	// credential provider has no manual key entry.
	ErrSignInUnsupported = errors.New("manual sign-in not supported by this credential provider")
)

// Querier asks the translation backend one question.
type Querier interface {
	Translate(ctx context.Context, question string) (nlsql.Result, error)
}

// keySetter is the extra capability of manual-entry credential providers.
type keySetter interface {
	SetKeys(accessKeyID, secretAccessKey string) error
}

// Session is the chat session controller. All state is in memory and is
// discarded when the process exits; SignOut is equivalent to a fresh
// session. Methods are safe for concurrent use, though under normal UI
// use only one goroutine drives a session.
type Session struct {
	id       uuid.UUID
	log      *slog.Logger
	querier  Querier
	creds    credentials.Provider
	stats    *metrics.Collector
	greeting string

	mu         sync.Mutex
	transcript []Message
	inFlight   bool
	signedIn   bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithGreeting overrides the seeded greeting message text.
func WithGreeting(text string) Option {
	return func(s *Session) { s.greeting = text }
}

// WithMetrics attaches a runtime stats collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) { s.stats = c }
}

// NewSession creates a session seeded with the greeting message. The
// session starts signed in when the provider already holds credentials
// (hosted variant) and signed out otherwise (manual variant).
func NewSession(querier Querier, creds credentials.Provider, opts ...Option) *Session {
	s := &Session{
		id:       uuid.New(),
		log:      slog.Default(),
		querier:  querier,
		creds:    creds,
		greeting: "Hi! Ask me a question.",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.With("session_id", s.id.String())
	s.transcript = []Message{{Text: s.greeting, Sender: SenderBot}}
	s.signedIn = creds.SignedIn()

	return s
}

// ID returns the session identifier used in log records.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// InFlight reports whether a request is outstanding.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// SignedIn reports whether the session holds usable credentials.
func (s *Session) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signedIn
}

// Stats returns a snapshot of runtime metrics, or a zero snapshot when no
// collector is attached.
func (s *Session) Stats() metrics.Snapshot {
	if s.stats == nil {
		return metrics.Snapshot{}
	}
	return s.stats.Snapshot()
}

// SignIn installs a manually entered key pair and marks the session
// signed in. No validation happens against AWS: a bad pair surfaces on
// the first question. Both strings must be non-empty.
func (s *Session) SignIn(accessKeyID, secretAccessKey string) error {
	if accessKeyID == "" || secretAccessKey == "" {
		return ErrEmptyCredentials
	}

	setter, ok := s.creds.(keySetter)
	if !ok {
		return ErrSignInUnsupported
	}
	if err := setter.SetKeys(accessKeyID, secretAccessKey); err != nil {
		return err
	}

	s.mu.Lock()
	s.signedIn = true
	s.mu.Unlock()

	s.log.Info("signed in")
	return nil
}

// SignOut discards credentials and resets the transcript to the seeded
// greeting. Irreversible for the current conversation.
func (s *Session) SignOut() {
	s.creds.SignOut()

	s.mu.Lock()
	s.transcript = []Message{{Text: s.greeting, Sender: SenderBot}}
	s.signedIn = s.creds.SignedIn()
	s.mu.Unlock()

	s.log.Info("signed out")
}

// Submit sends one question to the backend and appends the outcome to the
// transcript. It returns the messages appended by this call.
//
// Validation failures (empty question, signed out, request in flight)
// return a sentinel error and leave the transcript and flags untouched.
// Request failures never surface as an error: they become the single
// apology bot message. On success exactly two bot messages are appended,
// the SQL query then the summary.
func (s *Session) Submit(ctx context.Context, question string) ([]Message, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	userMsg := Message{Text: question, Sender: SenderUser}

	s.mu.Lock()
	if !s.signedIn {
		s.mu.Unlock()
		return nil, ErrSignedOut
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	s.inFlight = true
	s.transcript = append(s.transcript, userMsg)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	botMsgs := s.ask(ctx, question)

	s.mu.Lock()
	s.transcript = append(s.transcript, botMsgs...)
	s.mu.Unlock()

	return append([]Message{userMsg}, botMsgs...), nil
}

// ask acquires a credential, invokes the backend, and converts any
// failure into the apology message. All-or-nothing: a decode failure
// never yields a partial success pair.
func (s *Session) ask(ctx context.Context, question string) []Message {
	credStart := time.Now()
	_, err := s.creds.Retrieve(ctx)
	s.record(metrics.OpCredentials, credStart, err)
	if err != nil {
		s.log.Error("credential acquisition failed", "error", err)
		return []Message{{Text: ApologyText, Sender: SenderBot}}
	}

	invokeStart := time.Now()
	res, err := s.querier.Translate(ctx, question)
	s.record(metrics.OpInvoke, invokeStart, err)
	if err != nil {
		s.log.Error("translation request failed", "error", err)
		return []Message{{Text: ApologyText, Sender: SenderBot}}
	}

	return []Message{
		{Text: res.SQLQuery, Sender: SenderBot, Kind: KindSQL},
		{Text: res.Summary, Sender: SenderBot, Kind: KindSummary},
	}
}

func (s *Session) record(op string, start time.Time, err error) {
	if s.stats == nil {
		return
	}
	s.stats.Record(op, time.Since(start), err != nil)
}
