package waitlist

import (
	"github.com/akeren/wallet-waitlist/config/router"
	"github.com/akeren/wallet-waitlist/internal/log"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateRepository() WaitlistRepository
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db     *gorm.DB
	logger *log.Logger
	cache  ControllerCache
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, cache ControllerCache) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:     db,
		logger: logger,
		cache:  cache,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateRepository() WaitlistRepository {
	return NewWaitlistRepository(f.db, f.logger)
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	return NewWaitlistService(f.logger, f.CreateRepository(), f.cache)
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.db, f.logger, f.cache)
}
