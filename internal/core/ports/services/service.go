package services

// ServiceContainer bundles every service facade handed to the HTTP layer and
// the scheduler.
type ServiceContainer struct {
	Instrument  InstrumentSvcFacade
	Transaction TransactionSvcFacade
	Projection  ProjectionSvcFacade
	User        UserSvcFacade
	Auth        AuthSvcFacade
}
