package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial tasks table
const currentSchemaVersion = 1

// TasksFile is the database file name inside the data directory.
const TasksFile = "tasks.db"

const taskColumns = `id, uuid, title, is_completed, start_time, end_time, reminder,
	is_repeat, repeat_weekdays, pomodoro_minutes, date, category, priority`

// TaskStore is the durable task record store, backed by SQLite.
// It is safe for concurrent use; SQLite serializes writers, so concurrent
// updates of the same task resolve as last write wins.
type TaskStore struct {
	db      *sql.DB
	changes *broker
	now     func() time.Time // injectable clock for deterministic tests
	logger  *slog.Logger
}

// OpenTaskStore creates or opens the task database at path and applies the
// schema. It is idempotent.
func OpenTaskStore(path string) (*TaskStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open task database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to task database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &TaskStore{
		db:      db,
		changes: newBroker(),
		now:     time.Now,
		logger:  slog.Default(),
	}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *TaskStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetNowFunc overrides the clock used to decide what "today" is.
// Passing nil resets it to time.Now.
func (s *TaskStore) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// SetLogger replaces the logger used by live streams.
func (s *TaskStore) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// GetByID returns the task with the given id or ErrNotFound.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Insert stores a new task and returns it with ID (and UUID, if it was
// empty) filled in. A non-zero ID on the input is ignored.
func (s *TaskStore) Insert(ctx context.Context, t Task) (Task, error) {
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	if t.Date == "" {
		t.Date = FormatDate(s.now())
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks (uuid, title, is_completed, start_time,
		end_time, reminder, is_repeat, repeat_weekdays, pomodoro_minutes, date, category, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UUID, t.Title, t.Completed, int(t.StartTime), int(t.EndTime), t.Reminder, t.Repeat,
		encodeWeekdays(t.RepeatWeekdays), t.PomodoroMinutes, t.Date, t.Category, int(t.Priority))
	if err != nil {
		return Task{}, fmt.Errorf("insert task %q: %w", t.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("insert task %q: %w", t.Title, err)
	}
	t.ID = id

	s.changes.publish()
	return t, nil
}

// Update overwrites the task identified by t.ID. The uuid assigned at insert
// is kept; t.UUID is ignored.
func (s *TaskStore) Update(ctx context.Context, t Task) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, is_completed = ?,
		start_time = ?, end_time = ?, reminder = ?, is_repeat = ?, repeat_weekdays = ?,
		pomodoro_minutes = ?, date = ?, category = ?, priority = ? WHERE id = ?`,
		t.Title, t.Completed, int(t.StartTime), int(t.EndTime), t.Reminder, t.Repeat,
		encodeWeekdays(t.RepeatWeekdays), t.PomodoroMinutes, t.Date, t.Category, int(t.Priority), t.ID)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update task: %w: %d", ErrNotFound, t.ID)
	}

	s.changes.publish()
	return nil
}

// Delete removes the task identified by t.ID.
func (s *TaskStore) Delete(ctx context.Context, t Task) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, t.ID)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", t.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete task: %w: %d", ErrNotFound, t.ID)
	}

	s.changes.publish()
	return nil
}

// List returns every task ordered by id.
func (s *TaskStore) List(ctx context.Context) ([]Task, error) {
	return s.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id ASC`)
}

// ListToday returns the tasks that belong on the given day's list: tasks
// dated that day plus repeat tasks due on that weekday.
func (s *TaskStore) ListToday(ctx context.Context, day time.Time) ([]Task, error) {
	date := FormatDate(day)
	all, err := s.query(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE date = ? OR is_repeat = 1 ORDER BY id ASC`, date)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(all))
	for _, t := range all {
		if t.Date == date || t.RepeatsOn(day.Weekday()) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// ObserveToday returns a live stream of today's task list. The current
// snapshot is sent first, then a fresh one after every write. The channel is
// closed when ctx is done. Each call starts an independent stream.
func (s *TaskStore) ObserveToday(ctx context.Context) <-chan []Task {
	out := make(chan []Task)
	wake := s.changes.subscribe()

	go func() {
		defer close(out)
		defer s.changes.unsubscribe(wake)

		for {
			tasks, err := s.ListToday(ctx, s.now())
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("today stream query failed", "error", err)
			} else {
				select {
				case out <- tasks:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-wake:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *TaskStore) query(ctx context.Context, q string, args ...any) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (Task, error) {
	var (
		t                Task
		start, end, prio int
		weekdays         string
	)
	err := row.Scan(&t.ID, &t.UUID, &t.Title, &t.Completed, &start, &end, &t.Reminder,
		&t.Repeat, &weekdays, &t.PomodoroMinutes, &t.Date, &t.Category, &prio)
	if err != nil {
		return Task{}, err
	}
	t.StartTime = TimeOfDay(start)
	t.EndTime = TimeOfDay(end)
	t.Priority = Priority(prio)
	t.RepeatWeekdays = decodeWeekdays(weekdays)
	return t, nil
}

func encodeWeekdays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(s string) []time.Weekday {
	if s == "" {
		return nil
	}
	var days []time.Weekday
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
