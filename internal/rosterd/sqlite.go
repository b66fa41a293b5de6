package rosterd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/rosterboard/internal/log"
	"github.com/zjrosen/rosterboard/internal/roster"
)

const schema = `
CREATE TABLE IF NOT EXISTS activities (
	name TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	schedule TEXT NOT NULL DEFAULT '',
	max_participants INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS participants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	activity TEXT NOT NULL,
	email TEXT NOT NULL,
	UNIQUE (activity, email),
	FOREIGN KEY (activity) REFERENCES activities(name)
);
`

// schemaVersion is stored in PRAGMA user_version once the database has
// been created and seeded.
const schemaVersion = 1

// SQLiteStore persists activities in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path. A new
// database is filled with seed; an existing one is left as it is, even
// when it holds no activities.
func OpenSQLite(ctx context.Context, path string, seed []roster.Entry) (*SQLiteStore, error) {
	log.Debug(log.CatStore, "Opening database", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		log.ErrorErr(log.CatStore, "Failed to open database", err, "path", path)
		return nil, err
	}
	// One writer at a time; SQLite would serialize anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		log.ErrorErr(log.CatStore, "Failed to ping database", err, "path", path)
		return nil, err
	}
	// user_version is 0 only in a database this store has never set up.
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reading schema version: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("counting activities: %w", err)
	}
	if version < schemaVersion {
		if n == 0 {
			if err := s.Replace(ctx, seed); err != nil {
				_ = db.Close()
				return nil, err
			}
			n = len(seed)
			log.Info(log.CatStore, "Seeded new database", "path", path, "activities", n)
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting schema version: %w", err)
		}
	}
	log.Info(log.CatStore, "Connected to database", "path", path, "activities", n)
	return s, nil
}

// Snapshot returns every activity ordered by position, rosters in signup order.
func (s *SQLiteStore) Snapshot(ctx context.Context) (roster.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, schedule, max_participants
		FROM activities
		ORDER BY position`)
	if err != nil {
		return roster.Snapshot{}, fmt.Errorf("querying activities: %w", err)
	}

	var entries []roster.Entry
	index := map[string]int{}
	for rows.Next() {
		var e roster.Entry
		if err := rows.Scan(&e.Name, &e.Record.Description, &e.Record.Schedule, &e.Record.MaxParticipants); err != nil {
			_ = rows.Close()
			return roster.Snapshot{}, fmt.Errorf("scanning activity: %w", err)
		}
		e.Record.Participants = []string{}
		index[e.Name] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Close(); err != nil {
		return roster.Snapshot{}, err
	}
	if err := rows.Err(); err != nil {
		return roster.Snapshot{}, err
	}

	prows, err := s.db.QueryContext(ctx, `SELECT activity, email FROM participants ORDER BY id`)
	if err != nil {
		return roster.Snapshot{}, fmt.Errorf("querying participants: %w", err)
	}
	defer func() { _ = prows.Close() }()
	for prows.Next() {
		var activity, email string
		if err := prows.Scan(&activity, &email); err != nil {
			return roster.Snapshot{}, fmt.Errorf("scanning participant: %w", err)
		}
		if i, ok := index[activity]; ok {
			entries[i].Record.Participants = append(entries[i].Record.Participants, email)
		}
	}
	if err := prows.Err(); err != nil {
		return roster.Snapshot{}, err
	}

	return roster.NewSnapshot(entries...), nil
}

// Signup adds email to the activity's roster.
func (s *SQLiteStore) Signup(ctx context.Context, activity, email string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireActivity(ctx, tx, activity); err != nil {
			return err
		}
		enrolled, err := isEnrolled(ctx, tx, activity, email)
		if err != nil {
			return err
		}
		if enrolled {
			return ErrAlreadySignedUp
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO participants (activity, email) VALUES (?, ?)`, activity, email)
		return err
	})
}

// Unregister removes email from the activity's roster.
func (s *SQLiteStore) Unregister(ctx context.Context, activity, email string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireActivity(ctx, tx, activity); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE activity = ? AND email = ?`, activity, email)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotSignedUp
		}
		return nil
	})
}

// Replace swaps every activity and roster for entries.
func (s *SQLiteStore) Replace(ctx context.Context, entries []roster.Entry) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM participants`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
			return err
		}
		for pos, e := range entries {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO activities (name, position, description, schedule, max_participants)
				VALUES (?, ?, ?, ?, ?)`,
				e.Name, pos, e.Record.Description, e.Record.Schedule, e.Record.MaxParticipants,
			); err != nil {
				return fmt.Errorf("inserting activity %q: %w", e.Name, err)
			}
			for _, email := range e.Record.Participants {
				if _, err := tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO participants (activity, email) VALUES (?, ?)`, e.Name, email,
				); err != nil {
					return fmt.Errorf("inserting participant %q: %w", email, err)
				}
			}
		}
		return nil
	})
	if err == nil {
		log.Info(log.CatStore, "replaced activities", "count", len(entries), "path", s.path)
	}
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func requireActivity(ctx context.Context, tx *sql.Tx, activity string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM activities WHERE name = ?`, activity).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrActivityNotFound
	}
	return err
}

func isEnrolled(ctx context.Context, tx *sql.Tx, activity, email string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM participants WHERE activity = ? AND email = ?`, activity, email,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
