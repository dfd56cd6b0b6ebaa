package services

import (
	"github.com/jeffgoval/arena-sub003/internal/core/ports"
	portsrepo "github.com/jeffgoval/arena-sub003/internal/core/ports/repositories"
	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"
	"github.com/jeffgoval/arena-sub003/internal/platform/config"
)

// NewServiceContainer wires the settlement services over the repositories
// and external adapters.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gateway ports.PaymentGateway, notifier ports.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first; every other service records through it.
	container.Audit = NewAuditService(repos.Audit)

	container.Credit = NewCreditLedgerService(repos.Credit, container.Audit)
	container.Rateio = NewRateioService(container.Audit)
	container.PreAuth = NewPreAuthService(repos.PreAuth, gateway, container.Audit, cfg.GatewayTimeout)
	container.Settlement = NewSettlementService(container.Credit, container.Rateio, container.PreAuth, notifier)

	return container
}
