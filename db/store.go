package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/termfx/gold/models"
)

// Store keeps the run history of module roots.
type Store struct {
	db        *gorm.DB
	retention int
}

// NewStore wraps db. retention is the number of runs kept per root; 0 keeps all.
func NewStore(db *gorm.DB, retention int) *Store {
	return &Store{db: db, retention: retention}
}

// Open connects to dsn and returns a store over it.
func Open(dsn string, opts Options, retention int) (*Store, error) {
	db, err := Connect(dsn, opts)
	if err != nil {
		return nil, err
	}
	return NewStore(db, retention), nil
}

// Record saves run with its findings and prunes runs of the same root beyond the
// retention limit.
func (s *Store) Record(ctx context.Context, run *models.Run) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		return s.prune(tx, run.Root)
	})
}

func (s *Store) prune(tx *gorm.DB, root string) error {
	if s.retention <= 0 {
		return nil
	}

	var ids []string
	err := tx.Model(&models.Run{}).
		Where("root = ?", root).
		Order("finished_at DESC").
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(ids) <= s.retention {
		return nil
	}
	stale := ids[s.retention:]

	if err := tx.Where("run_id IN ?", stale).Delete(&models.Finding{}).Error; err != nil {
		return fmt.Errorf("pruning findings: %w", err)
	}
	if err := tx.Where("id IN ?", stale).Delete(&models.Run{}).Error; err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	return nil
}

// Latest returns the most recent run of root with its findings.
func (s *Store) Latest(ctx context.Context, root string) (*models.Run, error) {
	var run models.Run
	err := s.db.WithContext(ctx).
		Preload("Findings").
		Where("root = ?", root).
		Order("finished_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Previous returns the fingerprints the latest run of root reported. Fixed findings
// are not part of the baseline. A root without history has an empty baseline.
func (s *Store) Previous(ctx context.Context, root string) (map[string]bool, error) {
	run, err := s.Latest(ctx, root)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest run: %w", err)
	}

	previous := make(map[string]bool, len(run.Findings))
	for _, f := range run.Findings {
		if !f.Fixed {
			previous[f.Fingerprint] = true
		}
	}
	return previous, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
