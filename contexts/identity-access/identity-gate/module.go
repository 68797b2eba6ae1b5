package identitygate

import (
	"log/slog"

	httpadapter "encore/contexts/identity-access/identity-gate/adapters/http"
	"encore/contexts/identity-access/identity-gate/application"
	"encore/contexts/identity-access/identity-gate/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Tokens  application.Service
}

type Dependencies struct {
	Secret []byte
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	tokens := application.Service{
		Secret: deps.Secret,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Tokens: tokens},
		Tokens:  tokens,
	}
}
