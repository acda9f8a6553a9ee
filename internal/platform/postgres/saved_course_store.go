package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/platform/logger"
	"github.com/autoscheduler/autoscheduler/internal/store"
)

// PostgresSavedCourseStore implements store.SavedCourseStore. Cards are
// stored as one JSONB document per session and term.
type PostgresSavedCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSavedCourseStore creates a saved course store on db, which may
// be a connection pool or a transaction.
func NewPostgresSavedCourseStore(db store.DBTX, logger *slog.Logger) *PostgresSavedCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSavedCourseStore{
		db:     db,
		logger: logger.With(slog.String("component", "saved_course_store")),
	}
}

var _ store.SavedCourseStore = (*PostgresSavedCourseStore)(nil)

// Save implements store.SavedCourseStore.Save.
func (s *PostgresSavedCourseStore) Save(
	ctx context.Context,
	sessionID, term string,
	cards []domain.SerializedCourseCardOptions,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("term", term))

	if len(cards) == 0 {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM saved_course_cards WHERE session_id = $1 AND term = $2`,
			sessionID, term,
		); err != nil {
			return MapError(err)
		}
		log.Debug("cleared saved course cards")
		return nil
	}

	doc, err := json.Marshal(cards)
	if err != nil {
		return store.NewStoreError("saved_course_cards", "save", "encoding cards", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_course_cards (session_id, term, cards, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, term)
		DO UPDATE SET cards = EXCLUDED.cards, updated_at = EXCLUDED.updated_at`,
		sessionID, term, doc,
	); err != nil {
		log.Error("failed to save course cards", slog.Any("error", err))
		return MapError(err)
	}

	log.Debug("saved course cards", slog.Int("count", len(cards)))
	return nil
}

// Get implements store.SavedCourseStore.Get.
func (s *PostgresSavedCourseStore) Get(
	ctx context.Context,
	sessionID, term string,
) ([]domain.SerializedCourseCardOptions, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT cards FROM saved_course_cards WHERE session_id = $1 AND term = $2`,
		sessionID, term,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSavedCoursesNotFound
	}
	if err != nil {
		return nil, MapError(err)
	}

	var cards []domain.SerializedCourseCardOptions
	if err := json.Unmarshal(doc, &cards); err != nil {
		return nil, fmt.Errorf("%w: saved course cards: %v", domain.ErrInvalidFormat, err)
	}
	return cards, nil
}
