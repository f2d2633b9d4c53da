// Package jaegerservice holds the business rules of the tracker: credential
// checks, owner-scoped application access, the nested ownership check for
// interview rounds and the status change that round creation triggers.
package jaegerservice

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

// TokenIssuer signs the token handed out on register and login.
type TokenIssuer interface {
	GenerateJWT(u jaegermodel.User) (token string, expiresAt time.Time, err error)
}

// Recorder observes domain events, typically to feed metrics.
type Recorder interface {
	UserRegistered()
	LoginAttempt(succeeded bool)
	StatusChanged(from, to jaegermodel.ApplicationStatus)
}

type nopRecorder struct{}

func (nopRecorder) UserRegistered()                                  {}
func (nopRecorder) LoginAttempt(bool)                                {}
func (nopRecorder) StatusChanged(_, _ jaegermodel.ApplicationStatus) {}

type Options struct {
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Recorder   Recorder
	// Now defaults to time.Now; timestamps are stored in UTC.
	Now func() time.Time
}

type Services struct {
	Auth         *AuthService
	Companies    *CompanyService
	Applications *ApplicationService
	Interviews   *InterviewService
}

func New(gw jaegerdb.Gateway, tokens TokenIssuer, opts Options, log *zap.Logger) *Services {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	clock := func() time.Time { return now().UTC() }

	return &Services{
		Auth: &AuthService{
			gw:     gw,
			tokens: tokens,
			cost:   opts.BcryptCost,
			rec:    opts.Recorder,
			now:    clock,
			log:    log,
		},
		Companies:    &CompanyService{gw: gw, now: clock},
		Applications: &ApplicationService{gw: gw, rec: opts.Recorder, now: clock},
		Interviews:   &InterviewService{gw: gw, rec: opts.Recorder, now: clock, log: log},
	}
}
