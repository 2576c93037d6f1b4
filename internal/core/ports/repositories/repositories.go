package repositories

// RepositoryProvider holds instances of every repository facade. Built once
// at startup and handed to the service layer.
type RepositoryProvider struct {
	UserRepo     UserRepositoryFacade
	ReportRepo   ReportRepositoryFacade
	RoleRepo     RoleRepositoryFacade
	PivotRepo    PivotRepositoryFacade
	SettingsRepo SettingsRepositoryFacade
}
