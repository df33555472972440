package download

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
)

var errEmptySecret = errors.New("signing secret is empty")

type SignedOption func(*SignedExpiring)

// WithVerifierURL points links at the verifier endpoint instead of the file
// host.
func WithVerifierURL(u string) SignedOption {
	return func(s *SignedExpiring) {
		s.verifierURL = u
	}
}

func WithClock(now func() time.Time) SignedOption {
	return func(s *SignedExpiring) {
		s.now = now
	}
}

// SignedExpiring issues links carrying file, exp (unix ms) and
// sig = hex(HMAC-SHA256(secret, file:exp)).
type SignedExpiring struct {
	direct      *Direct
	secret      []byte
	ttl         time.Duration
	verifierURL string
	now         func() time.Time
}

func NewSignedExpiring(direct *Direct, secret string, ttl time.Duration, opts ...SignedOption) (*SignedExpiring, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	s := &SignedExpiring{
		direct: direct,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SignedExpiring) Link(name string) string {
	file := s.direct.FileName(name)
	exp := strconv.FormatInt(s.now().Add(s.ttl).UnixMilli(), 10)

	q := url.Values{}
	q.Set("file", file)
	q.Set("exp", exp)
	q.Set("sig", s.sign(file, exp))

	base := s.verifierURL
	if base == "" {
		base = s.direct.fileURL(file)
	}
	return base + "?" + q.Encode()
}

// Verify checks a presented link and returns the direct file URL to redirect
// to. A bad signature is reported before expiry.
func (s *SignedExpiring) Verify(file, exp, sig string) (string, error) {
	const op = "download.SignedExpiring.Verify"

	if file == "" || exp == "" || sig == "" {
		return "", fmt.Errorf("%s: %w", op, entity.ErrInvalidData)
	}

	provided, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(provided, s.mac(file, exp)) {
		return "", fmt.Errorf("%s: %w", op, entity.ErrLinkSignature)
	}

	expMs, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%s: exp: %w", op, entity.ErrInvalidData)
	}
	if s.now().UnixMilli() > expMs {
		return "", fmt.Errorf("%s: %w", op, entity.ErrLinkExpired)
	}

	return s.direct.fileURL(file), nil
}

func (s *SignedExpiring) sign(file, exp string) string {
	return hex.EncodeToString(s.mac(file, exp))
}

func (s *SignedExpiring) mac(file, exp string) []byte {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(file + ":" + exp))
	return m.Sum(nil)
}
