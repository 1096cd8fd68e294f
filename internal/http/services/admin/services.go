// Package admin contiene la administración de usuarios y la consulta del log
// de actividad. Solo accesible para administrador.
package admin

import (
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/email"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/security/password"
)

type Deps struct {
	Users   repository.UserRepository
	Mailer  email.Sender
	Audit   *audit.Recorder
	Policy  password.Policy
	Hash    password.Params // cero = password.Default
	AppName string
}

type Services struct {
	Users UserService
	Logs  LogService
}

func NewServices(d Deps) Services {
	if d.Hash == (password.Params{}) {
		d.Hash = password.Default
	}
	if d.AppName == "" {
		d.AppName = "MundoComputo"
	}
	return Services{
		Users: &userService{deps: d},
		Logs:  &logService{audit: d.Audit},
	}
}
