package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/autoscheduler/autoscheduler/internal/catalog"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/platform/logger"
	"github.com/autoscheduler/autoscheduler/internal/store"
	"github.com/autoscheduler/autoscheduler/internal/term"
)

const sectionColumns = `s.id, s.crn, s.subject, s.course_num, s.section_num,
	s.min_credits, s.max_credits, s.current_enrollment, s.max_enrollment,
	s.instructor_name, s.honors, s.remote, s.asynchronous,
	s.instructional_method, s.grades`

const meetingColumns = `m.id, m.section_id, m.building, m.days,
	m.start_time, m.end_time, m.meeting_type`

// PostgresCatalogStore implements store.CatalogStore.
type PostgresCatalogStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCatalogStore creates a catalog store on db.
// If logger is nil, a default logger will be used.
func NewPostgresCatalogStore(db *sql.DB, logger *slog.Logger) *PostgresCatalogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCatalogStore{
		db:     db,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

var _ store.CatalogStore = (*PostgresCatalogStore)(nil)

// FetchTerms implements store.CatalogStore.FetchTerms. Terms imported
// without a description are listed under their decoded name.
func (s *PostgresCatalogStore) FetchTerms(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, description FROM terms ORDER BY code DESC`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	terms := make(map[string]string)
	for rows.Next() {
		var code, description string
		if err := rows.Scan(&code, &description); err != nil {
			return nil, MapError(err)
		}
		if description == "" {
			description = term.Describe(code)
		}
		terms[description] = code
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return terms, nil
}

// sectionFilter builds the WHERE clause shared by the section and meeting
// queries.
func sectionFilter(subject, courseNum, termCode string, filters domain.SectionFilters) (string, []any) {
	args := []any{termCode, subject, courseNum}
	clauses := []string{"s.term = $1", "s.subject = $2", "s.course_num = $3"}

	flag := func(column string, f domain.SectionFilter) {
		switch f {
		case domain.SectionFilterOnly:
			args = append(args, true)
		case domain.SectionFilterExclude:
			args = append(args, false)
		default:
			return
		}
		clauses = append(clauses, "s."+column+" = $"+strconv.Itoa(len(args)))
	}
	flag("honors", filters.Honors)
	flag("remote", filters.Remote)
	flag("asynchronous", filters.Asynchronous)

	if !filters.IncludeFull {
		clauses = append(clauses, "s.current_enrollment < s.max_enrollment")
	}
	return strings.Join(clauses, " AND "), args
}

// FetchSections implements store.CatalogStore.FetchSections and, through
// it, coursecard.SectionFetcher.
func (s *PostgresCatalogStore) FetchSections(
	ctx context.Context,
	course, termCode string,
	filters domain.SectionFilters,
) ([]catalog.RawSection, error) {
	subject, courseNum, err := catalog.SplitCourse(course)
	if err != nil {
		return nil, err
	}
	where, args := sectionFilter(subject, courseNum, termCode, filters)

	sections, index, err := s.querySections(ctx, where, args)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return sections, nil
	}
	if err := s.queryMeetings(ctx, where, args, sections, index); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("fetched sections from catalog",
		slog.String("course", course),
		slog.String("term", termCode),
		slog.Int("count", len(sections)))
	return sections, nil
}

func (s *PostgresCatalogStore) querySections(
	ctx context.Context,
	where string,
	args []any,
) ([]catalog.RawSection, map[int]int, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections s WHERE ` + where + ` ORDER BY s.section_num, s.id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	sections := make([]catalog.RawSection, 0)
	index := make(map[int]int)
	for rows.Next() {
		var r catalog.RawSection
		var grades []byte
		if err := rows.Scan(
			&r.ID, &r.CRN, &r.Subject, &r.CourseNum, &r.SectionNum,
			&r.MinCredits, &r.MaxCredits, &r.CurrentEnrollment, &r.MaxEnrollment,
			&r.InstructorName, &r.Honors, &r.Remote, &r.Asynchronous,
			&r.InstructionalMethod, &grades,
		); err != nil {
			return nil, nil, MapError(err)
		}
		if grades != nil {
			r.Grades = &catalog.RawGrades{}
			if err := json.Unmarshal(grades, r.Grades); err != nil {
				return nil, nil, fmt.Errorf("%w: grades of section %d: %v", domain.ErrInvalidFormat, *r.ID, err)
			}
		}
		r.Meetings = []catalog.RawMeeting{}
		index[*r.ID] = len(sections)
		sections = append(sections, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, MapError(err)
	}
	return sections, index, nil
}

func (s *PostgresCatalogStore) queryMeetings(
	ctx context.Context,
	where string,
	args []any,
	sections []catalog.RawSection,
	index map[int]int,
) error {
	query := `SELECT ` + meetingColumns + ` FROM meetings m JOIN sections s ON s.id = m.section_id WHERE ` +
		where + ` ORDER BY m.section_id, m.id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var m catalog.RawMeeting
		var sectionID int
		var days int16
		if err := rows.Scan(&m.ID, &sectionID, &m.Building, &days, &m.StartTime, &m.EndTime, &m.Type); err != nil {
			return MapError(err)
		}
		m.Days = decodeDays(days)
		i, ok := index[sectionID]
		if !ok {
			continue
		}
		sections[i].Meetings = append(sections[i].Meetings, m)
	}
	return MapError(rows.Err())
}

// ImportSections implements store.CatalogStore.ImportSections. The term
// row is created if missing and its previous sections are replaced in a
// single transaction.
func (s *PostgresCatalogStore) ImportSections(ctx context.Context, termCode string, sections []catalog.RawSection) error {
	if _, err := term.Parse(termCode); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if _, err := catalog.ParseSectionSelected(sections); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO terms (code, description) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`,
			termCode, term.Describe(termCode),
		); err != nil {
			return MapError(err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE term = $1`, termCode); err != nil {
			return MapError(err)
		}
		for i := range sections {
			if err := insertSection(ctx, tx, termCode, &sections[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to import sections",
			slog.String("term", termCode),
			slog.Int("count", len(sections)),
			slog.Any("error", err))
		return err
	}

	log.Info("imported sections", slog.String("term", termCode), slog.Int("count", len(sections)))
	return nil
}

func insertSection(ctx context.Context, tx *sql.Tx, termCode string, r *catalog.RawSection) error {
	var grades any
	if r.Grades != nil {
		encoded, err := json.Marshal(r.Grades)
		if err != nil {
			return fmt.Errorf("encoding grades of section %d: %w", *r.ID, err)
		}
		grades = encoded
	}

	_, err := tx.ExecContext(ctx, `INSERT INTO sections (
		id, term, crn, subject, course_num, section_num,
		min_credits, max_credits, current_enrollment, max_enrollment,
		instructor_name, honors, remote, asynchronous, instructional_method, grades
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		r.ID, termCode, r.CRN, r.Subject, r.CourseNum, r.SectionNum,
		r.MinCredits, r.MaxCredits, r.CurrentEnrollment, r.MaxEnrollment,
		r.InstructorName, r.Honors, r.Remote, r.Asynchronous, r.InstructionalMethod, grades,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.NewStoreError("section", "import",
				fmt.Sprintf("section %d duplicates an existing id or crn", *r.ID), MapError(err))
		}
		return MapError(err)
	}

	for _, m := range r.Meetings {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meetings (
			id, section_id, building, days, start_time, end_time, meeting_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			m.ID, r.ID, m.Building, encodeDays(m.Days), m.StartTime, m.EndTime, m.Type,
		); err != nil {
			return MapError(err)
		}
	}
	return nil
}

// encodeDays packs Sunday..Saturday into bits 0..6.
func encodeDays(days []bool) int16 {
	var mask int16
	for i, on := range days {
		if on && i < 7 {
			mask |= 1 << i
		}
	}
	return mask
}

func decodeDays(mask int16) []bool {
	days := make([]bool, 7)
	for i := range days {
		days[i] = mask&(1<<i) != 0
	}
	return days
}
