package auth

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/xy-planning-network/synkro"
)

// Service verifies and issues HS256 JWTs.
type Service struct {
	key    []byte
	issuer string
	parser *jwt.Parser
	now    func() time.Time
}

// A ServiceOptFn configures a Service when constructing one.
type ServiceOptFn func(*Service)

// WithIssuer requires tokens to carry iss and sets it on issued tokens.
func WithIssuer(iss string) ServiceOptFn {
	return func(s *Service) {
		s.issuer = iss
	}
}

// WithNow replaces time.Now when issuing and checking expiry.
func WithNow(now func() time.Time) ServiceOptFn {
	return func(s *Service) {
		s.now = now
	}
}

// NewService constructs a *Service signing with jwtKey.
func NewService(jwtKey string, opts ...ServiceOptFn) (*Service, error) {
	if jwtKey == "" {
		return nil, fmt.Errorf(`%w: jwt key cannot be ""`, synkro.ErrBadConfig)
	}

	s := &Service{
		key:    []byte(jwtKey),
		parser: &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

type appClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Verify checks token's signature and expiry and returns its subject.
func (s *Service) Verify(token string) (string, error) {
	c, err := s.Parse(token)
	if err != nil {
		return "", err
	}

	return c.CallerID, nil
}

// Parse checks token's signature and expiry and returns its Claims.
//
// A token without a subject is not valid.
func (s *Service) Parse(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrNoToken
	}

	claims := new(appClaims)
	_, err := s.parser.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %s", synkro.ErrNotValid, err)
	}

	now := s.now()
	if !claims.VerifyExpiresAt(now, false) {
		return Claims{}, fmt.Errorf("%w: token expired", synkro.ErrNotValid)
	}

	if !claims.VerifyNotBefore(now, false) {
		return Claims{}, fmt.Errorf("%w: token not valid yet", synkro.ErrNotValid)
	}

	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return Claims{}, fmt.Errorf("%w: unexpected issuer %q", synkro.ErrNotValid, claims.Issuer)
	}

	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: token has no subject", synkro.ErrNotValid)
	}

	c := Claims{CallerID: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		c.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}

	return c, nil
}

// AuthenticateJWT verifies the token set in the jwt query param.
// If no token is set in the params, AuthenticateJWT returns ErrNoToken.
func (s *Service) AuthenticateJWT(v url.Values) (Claims, error) {
	t, ok := FromQuery(v)
	if !ok {
		return Claims{}, fmt.Errorf("no jwt param set: %w", ErrNoToken)
	}

	return s.Parse(t)
}

// Issue signs a token for callerID valid for ttl.
// A zero ttl issues a token that never expires.
func (s *Service) Issue(callerID, email string, ttl time.Duration) (string, error) {
	if callerID == "" {
		return "", fmt.Errorf("%w: caller ID is required", synkro.ErrNotValid)
	}

	now := s.now()
	claims := appClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  callerID,
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Email: email,
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}
