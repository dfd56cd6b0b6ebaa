package services

// ServiceContainer bundles the settlement services handed to the HTTP layer
// and the sweep scheduler.
type ServiceContainer struct {
	Credit     CreditLedgerSvcFacade
	Rateio     RateioSvcFacade
	PreAuth    PreAuthSvcFacade
	Audit      AuditSvcFacade
	Settlement SettlementSvcFacade
}
