package mysql

import (
	"hrkernel/domain/shared"
	"hrkernel/infrastructure/persistence/retry"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UnitOfWorkFactory struct {
	db          *gorm.DB
	publisher   shared.EventPublisher
	retryConfig retry.Config
	logger      *zap.Logger
}

func NewUnitOfWorkFactory(db *gorm.DB, publisher shared.EventPublisher, retryConfig retry.Config, logger *zap.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		publisher:   publisher,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db, f.publisher, f.logger)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
