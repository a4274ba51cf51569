package persist

import "context"

// MatchRecord is one finished room, appended for audit/analytics purposes.
// Rooms themselves stay volatile in memory (spec §6: "Persisted state: none
// owned by the core"); this is a side-channel log, not room storage.
type MatchRecord struct {
	RoomID       string
	RoomName     string
	PlayerCount  int
	FinalTick    uint64
	DurationSecs float64
}

// MatchHistoryRepo appends finished-room records to Postgres.
type MatchHistoryRepo struct {
	db *DB
}

func NewMatchHistoryRepo(db *DB) *MatchHistoryRepo {
	return &MatchHistoryRepo{db: db}
}

func (r *MatchHistoryRepo) Record(ctx context.Context, m MatchRecord) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO match_history (room_id, room_name, player_count, final_tick, duration_secs)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.RoomID, m.RoomName, m.PlayerCount, m.FinalTick, m.DurationSecs,
	)
	return err
}
