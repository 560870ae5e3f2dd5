// Package credentials abstracts how signing material for the IST2SQL
// invoke call is obtained: either looked up from the hosted AWS credential
// chain, or typed in manually and held in memory for the session.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
)

// ErrNoCredentials indicates no signing material is currently available.
var ErrNoCredentials = errors.New("no credentials available")

// Provider yields signing credentials for outbound invoke calls. It is the
// swappable strategy behind a chat session: hosted chain lookup or static
// manual entry. Retrieve makes Provider usable directly as an
// aws.CredentialsProvider in client options.
type Provider interface {
	aws.CredentialsProvider

	// SignedIn reports whether the provider currently holds usable
	// signing material. Advisory only; real verification is deferred to
	// the first request.
	SignedIn() bool

	// SignOut discards any held or cached credentials.
	SignOut()
}

// Static holds a manually entered access-key/secret pair in volatile
// memory. Keys are stored verbatim with no format validation; a bad pair
// surfaces as a failure on the first chat request.
type Static struct {
	mu       sync.RWMutex
	provider *awscreds.StaticCredentialsProvider
}

var _ Provider = (*Static)(nil)

// NewStatic creates an empty (signed-out) static provider.
func NewStatic() *Static {
	return &Static{}
}

// SetKeys installs an access-key/secret pair. Both must be non-empty.
func (s *Static) SetKeys(accessKeyID, secretAccessKey string) error {
	if accessKeyID == "" || secretAccessKey == "" {
		return fmt.Errorf("set keys: %w", ErrNoCredentials)
	}

	p := awscreds.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = &p
	return nil
}

// Retrieve implements aws.CredentialsProvider.
func (s *Static) Retrieve(ctx context.Context) (aws.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.provider == nil {
		return aws.Credentials{}, ErrNoCredentials
	}
	return s.provider.Retrieve(ctx)
}

// SignedIn reports whether a key pair is currently installed.
func (s *Static) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider != nil
}

// SignOut clears the held key pair.
func (s *Static) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = nil
}

// Hosted resolves short-lived credentials from the standard AWS chain
// (environment, shared config, SSO, instance metadata), cached between
// calls. Token refresh and expiry are the chain's concern, not ours.
type Hosted struct {
	cache *aws.CredentialsCache
}

var _ Provider = (*Hosted)(nil)

// NewHosted builds a hosted provider from the default AWS config chain.
// profile may be empty to use the default profile.
func NewHosted(ctx context.Context, region, profile string) (*Hosted, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Hosted{cache: aws.NewCredentialsCache(cfg.Credentials)}, nil
}

// Retrieve implements aws.CredentialsProvider.
func (h *Hosted) Retrieve(ctx context.Context) (aws.Credentials, error) {
	creds, err := h.cache.Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("retrieve credentials: %w", err)
	}
	return creds, nil
}

// SignedIn always reports true; the hosted chain decides lazily whether it
// can actually produce credentials.
func (h *Hosted) SignedIn() bool {
	return true
}

// SignOut invalidates the credential cache. The underlying identity (SSO
// session, instance role) is external and stays untouched.
func (h *Hosted) SignOut() {
	h.cache.Invalidate()
}
