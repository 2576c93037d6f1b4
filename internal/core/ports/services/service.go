package services

// ServiceContainer holds instances of all the application services. This is
// the entry point for accessing service functionality, particularly in the
// handlers.
type ServiceContainer struct {
	Auth     AuthSvcFacade
	Sessions SessionSvcFacade
	User     UserSvcFacade
	Report   ReportSvcFacade
	Role     RoleSvcFacade
	Pivot    PivotSvcFacade
	Settings SettingsSvcFacade
}
