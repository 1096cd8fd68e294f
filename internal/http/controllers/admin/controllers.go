// Package admin contiene los controllers de administración de usuarios y
// del log de actividad.
package admin

import svc "github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/admin"

type Controllers struct {
	Users *UsersController
	Logs  *LogsController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Users: NewUsersController(s.Users),
		Logs:  NewLogsController(s.Logs),
	}
}
