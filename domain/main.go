package domain

import (
	"github.com/akeren/wallet-waitlist/config"
	"github.com/akeren/wallet-waitlist/config/router"
	"github.com/akeren/wallet-waitlist/domain/monitoring"
	"github.com/akeren/wallet-waitlist/domain/waitlist"
)

// SetupCoreDomain mounts every domain controller on the application router.
func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	controllers := []*router.RESTController{
		monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, appConfig.Cache).CreateController(),
		waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, appConfig.Cache).CreateController(),
	}

	for _, controller := range controllers {
		appConfig.RouterService.MountController(controller)
	}
}
