// Package services agrupa todos los services HTTP.
// Este es el "composition root" de services: cada dominio vive en su
// sub-paquete (services/{dominio}) con su propio Deps/Services/NewServices,
// y este archivo los instancia con las dependencias compartidas.
//
//	svcs := services.New(services.Deps{...})
//	// svcs.Auth.TwoFactor, svcs.Orders.Orders, svcs.Admin.Users, etc.
package services

import (
	"time"

	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/audit"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/domain/repository"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/email"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/access"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/admin"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/auth"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/health"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/inventory"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/orders"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/http/services/sales"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/money"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/security/password"
	"github.com/Breyner-sq/mundocomputo-access-hub-sub001/internal/session"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	// ─── Infraestructura ───
	Users      repository.UserRepository
	Challenges repository.ChallengeRepository // sobre el pool de servicio
	Orders     repository.OrderRepository
	Products   repository.ProductRepository
	Sales      repository.SaleRepository
	Sessions   *session.Manager
	Resolver   *session.Resolver
	Mailer     email.Sender
	Audit      *audit.Recorder

	// ─── Configuración ───
	AppName        string
	CodeTTL        time.Duration
	CodeDigits     int
	PasswordPolicy password.Policy
	Money          money.Formatter

	// ─── Health Check ───
	HealthDeps health.Deps
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Auth      auth.Services
	Access    access.Services
	Orders    orders.Services
	Inventory inventory.Services
	Sales     sales.Services
	Admin     admin.Services
	Health    health.Services
}

// New crea el agregador de services con todas las dependencias inyectadas.
func New(d Deps) *Services {
	return &Services{
		Auth: auth.NewServices(auth.Deps{
			FirstFactor: d.Sessions,
			Tokens:      d.Sessions,
			Users:       d.Users,
			Challenges:  d.Challenges,
			Mailer:      d.Mailer,
			Audit:       d.Audit,
			AppName:     d.AppName,
			CodeTTL:     d.CodeTTL,
			CodeDigits:  d.CodeDigits,
		}),
		Access: access.NewServices(access.Deps{
			Resolver: d.Resolver,
		}),
		Orders: orders.NewServices(orders.Deps{
			Orders: d.Orders,
			Users:  d.Users,
			Audit:  d.Audit,
			Money:  d.Money,
		}),
		Inventory: inventory.NewServices(inventory.Deps{
			Products: d.Products,
			Audit:    d.Audit,
			Money:    d.Money,
		}),
		Sales: sales.NewServices(sales.Deps{
			Sales:    d.Sales,
			Products: d.Products,
			Mailer:   d.Mailer,
			Audit:    d.Audit,
			Money:    d.Money,
			AppName:  d.AppName,
		}),
		Admin: admin.NewServices(admin.Deps{
			Users:   d.Users,
			Mailer:  d.Mailer,
			Audit:   d.Audit,
			Policy:  d.PasswordPolicy,
			AppName: d.AppName,
		}),
		Health: health.NewServices(d.HealthDeps),
	}
}
