// Package identity resolves the principal (the acting user id) of an HTTP
// request.  The services never read requests themselves; they receive the
// principal id from whichever Resolver the server was configured with.
package identity

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/iliyamo/seat-allocation/internal/apperror"
)

// Resolver returns the principal id for a request, or an Unauthorized
// apperror when the request carries none.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// Modes accepted by New.
const (
	ModeStatic = "static"
	ModeHeader = "header"
	ModeJWT    = "jwt"
)

// HeaderName is read by the Header resolver.
const HeaderName = "X-User-ID"

// DefaultPrincipal is the development stand-in used by Static.
const DefaultPrincipal = "dev-user-1"

// Static resolves every request to the same principal.  It stands in for a
// real identity provider during development and tests.
type Static string

func (s Static) Resolve(*http.Request) (string, error) {
	if s == "" {
		return DefaultPrincipal, nil
	}
	return string(s), nil
}

// Header trusts the X-User-ID header.  Use it only behind a gateway that
// authenticates callers and sets the header.
type Header struct{}

func (Header) Resolve(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderName))
	if id == "" {
		return "", apperror.Unauthorized("missing %s header", HeaderName)
	}
	return id, nil
}

// Options configures New.
type Options struct {
	Mode         string
	DevPrincipal string
	JWTSecret    string
}

// New returns the resolver selected by opts.Mode.
func New(opts Options) (Resolver, error) {
	switch strings.ToLower(opts.Mode) {
	case "", ModeStatic:
		return Static(opts.DevPrincipal), nil
	case ModeHeader:
		return Header{}, nil
	case ModeJWT:
		if opts.JWTSecret == "" {
			return nil, errors.New("identity: jwt mode requires JWT_SECRET")
		}
		return NewJWT(opts.JWTSecret), nil
	default:
		return nil, errors.Errorf("identity: unknown mode %q", opts.Mode)
	}
}
