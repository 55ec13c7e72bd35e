package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/akeren/wallet-waitlist/internal/log"
	"github.com/akeren/wallet-waitlist/internal/models"
	apperrors "github.com/akeren/wallet-waitlist/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

type WaitlistRepository interface {
	// Insert persists a new entry and returns it with the store-assigned id and created_at.
	Insert(ctx context.Context, twitterUsername, walletAddress string) (*models.WaitlistEntry, error)
	// Count returns the number of entries, or 0 when the store cannot be queried.
	Count(ctx context.Context) int64
	// CountEntries returns the number of entries and surfaces storage errors.
	CountEntries(ctx context.Context) (int64, error)
	// FindEntryByID retrieves a waitlist entry by its unique ID.
	FindEntryByID(ctx context.Context, id uint) (*models.WaitlistEntry, error)
	// Initialize creates the table and its indexes when they do not exist yet.
	Initialize(ctx context.Context) error
}

type waitlistRepository struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewWaitlistRepository(db *gorm.DB, logger *log.Logger) WaitlistRepository {
	return &waitlistRepository{db: db, logger: logger}
}

const tableName = models.WaitlistEntryTableName

func (wr *waitlistRepository) Insert(ctx context.Context, twitterUsername, walletAddress string) (_ *models.WaitlistEntry, err error) {
	ctx, span := wr.startSpan(ctx, "Insert")
	defer func() { endSpan(span, err) }()

	entry := &models.WaitlistEntry{
		TwitterUsername: twitterUsername,
		WalletAddress:   walletAddress,
	}

	// created_at comes from the column default, so it is returned by the insert itself.
	returning := clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "created_at"}}}
	if createErr := wr.db.WithContext(ctx).Clauses(returning).Create(entry).Error; createErr != nil {
		return nil, translateInsertError(createErr)
	}

	return entry, nil
}

func (wr *waitlistRepository) Count(ctx context.Context) int64 {
	count, err := wr.CountEntries(ctx)
	if err != nil {
		logger := log.GetLoggerInstanceFromContext(ctx, wr.logger)
		logger.Error("Error getting waitlist count", "error", err)
		return 0
	}

	return count
}

func (wr *waitlistRepository) CountEntries(ctx context.Context) (_ int64, err error) {
	ctx, span := wr.startSpan(ctx, "Count")
	defer func() { endSpan(span, err) }()

	var count int64

	if countErr := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&count).Error; countErr != nil {
		return 0, apperrors.NewDatabaseError("unable to count waitlist entries", countErr)
	}

	return count, nil
}

func (wr *waitlistRepository) FindEntryByID(ctx context.Context, id uint) (_ *models.WaitlistEntry, err error) {
	ctx, span := wr.startSpan(ctx, "FindEntryByID")
	defer func() { endSpan(span, err) }()

	var entry models.WaitlistEntry

	if findErr := wr.db.WithContext(ctx).First(&entry, id).Error; findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("waitlist entry not found", findErr)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch waitlist entry", findErr)
	}

	return &entry, nil
}

func (wr *waitlistRepository) Initialize(ctx context.Context) (err error) {
	ctx, span := wr.startSpan(ctx, "Initialize")
	defer func() { endSpan(span, err) }()

	db := wr.db.WithContext(ctx)

	for _, statement := range schemaStatements(db.Dialector.Name()) {
		if execErr := db.Exec(statement).Error; execErr != nil {
			return fmt.Errorf("initialize %s: %w", tableName, execErr)
		}
	}

	return nil
}
