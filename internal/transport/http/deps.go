package http

import (
	"github.com/salu-0/rubbereco-api/internal/infrastructure/smtp"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/snapshot"
	"github.com/salu-0/rubbereco-api/internal/infrastructure/sns"

	jwtinfra "github.com/salu-0/rubbereco-api/internal/infrastructure/jwt"
)

// Deps holds all infrastructure dependencies for the router. The router owns
// the application wiring (store, bus, dispatcher); main owns the backends.
type Deps struct {
	Snapshots   snapshot.Store
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}
