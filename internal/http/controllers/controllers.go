// Package controllers agrupa todos los controllers HTTP.
// Este es el "composition root" de controllers: cada dominio expone su
// aggregator (controllers/{dominio}/controllers.go) y este archivo los
// instancia a partir de services.Services.
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs)
//	router.New(router.Deps{Controllers: ctrls, ...})
package controllers

import (
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/admin"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/health"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/inventory"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/orders"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/controllers/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services"
)

// Controllers agrupa todos los controllers por dominio.
type Controllers struct {
	Auth      *auth.Controllers
	Access    *access.Controllers
	Orders    *orders.Controllers
	Inventory *inventory.Controllers
	Sales     *sales.Controllers
	Admin     *admin.Controllers
	Health    *health.Controllers
}

// New crea todos los controllers a partir de los services.
func New(s *services.Services) *Controllers {
	return &Controllers{
		Auth:      auth.NewControllers(s.Auth),
		Access:    access.NewControllers(s.Access),
		Orders:    orders.NewControllers(s.Orders),
		Inventory: inventory.NewControllers(s.Inventory),
		Sales:     sales.NewControllers(s.Sales),
		Admin:     admin.NewControllers(s.Admin),
		Health:    health.NewControllers(s.Health),
	}
}
