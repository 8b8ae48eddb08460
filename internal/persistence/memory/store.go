// Package memory persists what the agent learns across sessions: named
// waypoints and the outcome of past goals. Writes funnel through a single
// writer goroutine so the tick loop never blocks on disk.
package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB

	ch   chan writeReq
	wg   sync.WaitGroup
	once sync.Once
}

type writeKind int

const (
	reqWaypoint writeKind = iota + 1
	reqGoalStart
	reqGoalEnd
)

type writeReq struct {
	kind writeKind

	name string
	x    int
	y    int
	z    int
	tick uint64

	goal   string
	status string

	done chan struct{}
}

// Waypoint is a remembered named position.
type Waypoint struct {
	Name        string
	X, Y, Z     int
	CreatedTick uint64
}

// GoalRecord is one entry of the goal history.
type GoalRecord struct {
	ID          int64
	Goal        string
	Status      string // "RUNNING","DONE","FAILED","DROPPED"
	StartedTick uint64
	EndedTick   uint64
}

const schema = `
CREATE TABLE IF NOT EXISTS waypoints (
  name TEXT PRIMARY KEY,
  x INTEGER NOT NULL,
  y INTEGER NOT NULL,
  z INTEGER NOT NULL,
  created_tick INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS goal_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  goal TEXT NOT NULL,
  status TEXT NOT NULL,
  started_tick INTEGER NOT NULL,
  ended_tick INTEGER NOT NULL DEFAULT 0
);
`

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("memory schema: %w", err)
	}
	s := &Store{db: db, ch: make(chan writeReq, 256)}
	s.wg.Add(1)
	go s.writer()
	return s, nil
}

func (s *Store) Close() error {
	s.once.Do(func() { close(s.ch) })
	s.wg.Wait()
	return s.db.Close()
}

func (s *Store) writer() {
	defer s.wg.Done()
	for r := range s.ch {
		switch r.kind {
		case reqWaypoint:
			_, _ = s.db.Exec(`INSERT INTO waypoints(name,x,y,z,created_tick) VALUES(?,?,?,?,?)
				ON CONFLICT(name) DO UPDATE SET x=excluded.x,y=excluded.y,z=excluded.z,created_tick=excluded.created_tick`,
				r.name, r.x, r.y, r.z, r.tick)
		case reqGoalStart:
			_, _ = s.db.Exec(`INSERT INTO goal_history(goal,status,started_tick) VALUES(?,?,?)`,
				r.goal, "RUNNING", r.tick)
		case reqGoalEnd:
			_, _ = s.db.Exec(`UPDATE goal_history SET status=?, ended_tick=?
				WHERE id = (SELECT id FROM goal_history WHERE goal=? AND status='RUNNING' ORDER BY id DESC LIMIT 1)`,
				r.status, r.tick, r.goal)
		}
		if r.done != nil {
			close(r.done)
		}
	}
}

// SaveWaypoint records or overwrites a named position. Asynchronous.
func (s *Store) SaveWaypoint(name string, x, y, z int, tick uint64) {
	s.ch <- writeReq{kind: reqWaypoint, name: name, x: x, y: y, z: z, tick: tick}
}

// RecordGoalStart appends a RUNNING goal entry. Asynchronous.
func (s *Store) RecordGoalStart(goal string, tick uint64) {
	s.ch <- writeReq{kind: reqGoalStart, goal: goal, tick: tick}
}

// RecordGoalEnd closes the latest RUNNING entry for goal. Asynchronous.
func (s *Store) RecordGoalEnd(goal, status string, tick uint64) {
	s.ch <- writeReq{kind: reqGoalEnd, goal: goal, status: status, tick: tick}
}

// Flush blocks until previously queued writes have been applied. The writer
// drains in FIFO order, so a marker request suffices.
func (s *Store) Flush() {
	done := make(chan struct{})
	s.ch <- writeReq{done: done}
	<-done
}

// Waypoint looks a waypoint up by name.
func (s *Store) Waypoint(name string) (Waypoint, bool, error) {
	var w Waypoint
	err := s.db.QueryRow(`SELECT name,x,y,z,created_tick FROM waypoints WHERE name=?`, name).
		Scan(&w.Name, &w.X, &w.Y, &w.Z, &w.CreatedTick)
	if err == sql.ErrNoRows {
		return Waypoint{}, false, nil
	}
	if err != nil {
		return Waypoint{}, false, err
	}
	return w, true, nil
}

// RecentGoals returns up to limit history entries, newest first.
func (s *Store) RecentGoals(limit int) ([]GoalRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT id,goal,status,started_tick,ended_tick FROM goal_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GoalRecord
	for rows.Next() {
		var g GoalRecord
		if err := rows.Scan(&g.ID, &g.Goal, &g.Status, &g.StartedTick, &g.EndedTick); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
