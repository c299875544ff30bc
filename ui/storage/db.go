package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the metadata database next to the executable.
const DefaultDBPath = "./Yaffe.db"

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// column is one declared column of a table.
type column struct {
	name string
	typ  string // TEXT or INTEGER
}

type table struct {
	name string
	cols []column
}

// Declared schema. Open adds missing columns and drops undeclared ones.
var (
	platformsTable = table{name: "Platforms", cols: []column{
		{"id", "INTEGER"},
		{"name", "TEXT"},
		{"path", "TEXT"},
		{"args", "TEXT"},
		{"folder", "TEXT"},
		{"scraper_id", "INTEGER"},
	}}
	gamesTable = table{name: "Games", cols: []column{
		{"id", "INTEGER"},
		{"platform", "INTEGER"},
		{"name", "TEXT"},
		{"overview", "TEXT"},
		{"players", "INTEGER"},
		{"rating", "INTEGER"},
		{"released", "TEXT"},
		{"file", "TEXT"},
		{"boxart", "TEXT"},
		{"last_run", "INTEGER"},
	}}
)

// DB is the SQLite metadata store.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the database at path and migrates its schema.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single connection; SQLite allows one writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	for _, t := range []table{platformsTable, gamesTable} {
		if err := migrate(db, t); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate %s: %w", t.name, err)
		}
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

func migrate(db *sql.DB, t table) error {
	defs := make([]string, len(t.cols))
	for i, c := range t.cols {
		defs[i] = c.name + " " + c.typ
		if c.name == "id" {
			defs[i] += " PRIMARY KEY AUTOINCREMENT"
		}
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.name, strings.Join(defs, ", "))
	if _, err := db.Exec(create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	existing, err := tableColumns(db, t.name)
	if err != nil {
		return err
	}

	declared := make(map[string]bool, len(t.cols))
	for _, c := range t.cols {
		declared[c.name] = true
		if existing[c.name] {
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", t.name, c.name, c.typ)); err != nil {
			return fmt.Errorf("add %s.%s: %w", t.name, c.name, err)
		}
		log.Printf("Added column %s.%s", t.name, c.name)
	}
	for name := range existing {
		if declared[name] {
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", t.name, name)); err != nil {
			return fmt.Errorf("drop %s.%s: %w", t.name, name, err)
		}
		log.Printf("Dropped column %s.%s", t.name, name)
	}
	return nil
}

func tableColumns(db *sql.DB, name string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", name))
	if err != nil {
		return nil, fmt.Errorf("%s pragma: %w", name, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var cid int
		var col, ctype string
		var notNull int
		var dflt any
		var pk int
		if err := rows.Scan(&cid, &col, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan %s pragma: %w", name, err)
		}
		cols[strings.ToLower(col)] = true
	}
	return cols, rows.Err()
}

const platformColumns = "id, name, path, args, folder, scraper_id"

type scanner interface {
	Scan(dest ...any) error
}

func scanPlatform(s scanner) (Platform, error) {
	var p Platform
	var name, path, args, folder sql.NullString
	var scraper sql.NullInt64
	if err := s.Scan(&p.ID, &name, &path, &args, &folder, &scraper); err != nil {
		return Platform{}, err
	}
	p.Name, p.Path, p.Args, p.Folder = name.String, path.String, args.String, folder.String
	p.ScraperID = scraper.Int64
	return p, nil
}

// Platforms returns every platform ordered by name.
func (d *DB) Platforms() ([]Platform, error) {
	rows, err := d.db.Query("SELECT " + platformColumns + " FROM Platforms ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("failed to query platforms: %w", err)
	}
	defer rows.Close()

	var out []Platform
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Platform returns one platform.
func (d *DB) Platform(id int64) (Platform, error) {
	p, err := scanPlatform(d.db.QueryRow("SELECT "+platformColumns+" FROM Platforms WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Platform{}, ErrNotFound
	}
	if err != nil {
		return Platform{}, fmt.Errorf("failed to query platform: %w", err)
	}
	return p, nil
}

// InsertPlatform adds p and returns its new id.
func (d *DB) InsertPlatform(p Platform) (int64, error) {
	res, err := d.db.Exec("INSERT INTO Platforms (name, path, args, folder, scraper_id) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.Path, p.Args, p.Folder, p.ScraperID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert platform: %w", err)
	}
	return res.LastInsertId()
}

// UpdatePlatform rewrites p by id.
func (d *DB) UpdatePlatform(p Platform) error {
	res, err := d.db.Exec("UPDATE Platforms SET name = ?, path = ?, args = ?, folder = ?, scraper_id = ? WHERE id = ?",
		p.Name, p.Path, p.Args, p.Folder, p.ScraperID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update platform: %w", err)
	}
	return requireRow(res)
}

// DeletePlatform removes a platform and its games.
func (d *DB) DeletePlatform(id int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM Games WHERE platform = ?", id); err != nil {
		return fmt.Errorf("failed to delete games: %w", err)
	}
	res, err := tx.Exec("DELETE FROM Platforms WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete platform: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

const gameColumns = "id, platform, name, overview, players, rating, released, file, boxart, last_run"

func scanGame(s scanner) (Game, error) {
	var g Game
	var name, overview, released, file, boxart sql.NullString
	var platform, players, rating, lastRun sql.NullInt64
	if err := s.Scan(&g.ID, &platform, &name, &overview, &players, &rating, &released, &file, &boxart, &lastRun); err != nil {
		return Game{}, err
	}
	g.Name, g.Overview, g.Released, g.File, g.Boxart = name.String, overview.String, released.String, file.String, boxart.String
	g.PlatformID = platform.Int64
	g.Players, g.Rating, g.LastRun = players.Int64, Rating(rating.Int64), lastRun.Int64
	return g, nil
}

func (d *DB) queryGames(query string, args ...any) ([]Game, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var out []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Games returns the games of a platform.
func (d *DB) Games(platformID int64) ([]Game, error) {
	return d.queryGames("SELECT "+gameColumns+" FROM Games WHERE platform = ?", platformID)
}

// RecentGames returns the n most recently launched games across platforms.
func (d *DB) RecentGames(n int) ([]Game, error) {
	return d.queryGames("SELECT "+gameColumns+" FROM Games WHERE last_run > 0 ORDER BY last_run DESC, id LIMIT ?", n)
}

// Game returns one game.
func (d *DB) Game(id int64) (Game, error) {
	g, err := scanGame(d.db.QueryRow("SELECT "+gameColumns+" FROM Games WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, ErrNotFound
	}
	if err != nil {
		return Game{}, fmt.Errorf("failed to query game: %w", err)
	}
	return g, nil
}

// HasGame reports whether a platform already has a game for file.
func (d *DB) HasGame(platformID int64, file string) (bool, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM Games WHERE platform = ? AND file = ?", platformID, file).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query game: %w", err)
	}
	return n > 0, nil
}

// InsertGames adds games in one transaction.
func (d *DB) InsertGames(games []Game) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO Games (platform, name, overview, players, rating, released, file, boxart, last_run) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range games {
		if _, err := stmt.Exec(g.PlatformID, g.Name, g.Overview, g.Players, int64(g.Rating), g.Released, g.File, g.Boxart, g.LastRun); err != nil {
			return fmt.Errorf("failed to insert game %s: %w", g.Name, err)
		}
	}
	return tx.Commit()
}

// UpdateLastRun records a launch.
func (d *DB) UpdateLastRun(gameID int64, at time.Time) error {
	res, err := d.db.Exec("UPDATE Games SET last_run = ? WHERE id = ?", at.Unix(), gameID)
	if err != nil {
		return fmt.Errorf("failed to update last run: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
