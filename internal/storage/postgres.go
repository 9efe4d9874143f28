package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nrasaily/SleepSentinelPro/internal"
)

// PostgresStorage persists the snapshot across two tables:
// night_summaries (one row per night) and sync_meta (a single row
// holding the anchor, flags and settings).
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// nightRow mirrors one night_summaries row. The night column is a DATE
// and travels as time.Time; durations travel as seconds.
type nightRow struct {
	ID            string
	Night         time.Time
	InBedSeconds  float64
	AsleepSeconds float64
	Bedtime       *time.Time
	Wake          *time.Time
	Midpoint      *time.Time
	Efficiency    *float64
}

func rowFromSummary(n internal.NightSummary) nightRow {
	return nightRow{
		ID:            n.ID,
		Night:         nightDate(n.Night),
		InBedSeconds:  n.InBed.Seconds(),
		AsleepSeconds: n.Asleep.Seconds(),
		Bedtime:       n.Bedtime,
		Wake:          n.Wake,
		Midpoint:      n.Midpoint,
		Efficiency:    n.Efficiency,
	}
}

func (r nightRow) summary() internal.NightSummary {
	return internal.NightSummary{
		ID:         r.ID,
		Night:      nightKeyOf(r.Night),
		InBed:      time.Duration(r.InBedSeconds * float64(time.Second)),
		Asleep:     time.Duration(r.AsleepSeconds * float64(time.Second)),
		Bedtime:    r.Bedtime,
		Wake:       r.Wake,
		Midpoint:   r.Midpoint,
		Efficiency: r.Efficiency,
	}
}

// nightDate renders a key as midnight UTC for the DATE column.
func nightDate(k internal.NightKey) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
}

func nightKeyOf(t time.Time) internal.NightKey {
	year, month, day := t.Date()
	return internal.NightKey{Year: year, Month: month, Day: day}
}

func (p *PostgresStorage) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		p.logger.Errorf("failed to begin snapshot tx: %v", err)
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM night_summaries`); err != nil {
		p.logger.Errorf("failed to clear night summaries: %v", err)
		return err
	}
	for _, n := range snap.Nights {
		r := rowFromSummary(n)
		_, err := tx.Exec(ctx, `INSERT INTO night_summaries
			(id, night, in_bed_seconds, asleep_seconds, bedtime, wake, midpoint, efficiency)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			r.ID, r.Night, r.InBedSeconds, r.AsleepSeconds,
			r.Bedtime, r.Wake, r.Midpoint, r.Efficiency)
		if err != nil {
			p.logger.Errorf("failed to insert night summary: %v", err)
			return err
		}
	}

	_, err = tx.Exec(ctx, `INSERT INTO sync_meta
		(id, anchor, authorized, using_demo, last_update, target_bedtime, target_wake,
		 midpoint_tolerance_minutes, reminders_enabled, saved_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
		 anchor = EXCLUDED.anchor, authorized = EXCLUDED.authorized,
		 using_demo = EXCLUDED.using_demo, last_update = EXCLUDED.last_update,
		 target_bedtime = EXCLUDED.target_bedtime, target_wake = EXCLUDED.target_wake,
		 midpoint_tolerance_minutes = EXCLUDED.midpoint_tolerance_minutes,
		 reminders_enabled = EXCLUDED.reminders_enabled, saved_at = EXCLUDED.saved_at`,
		snap.State.Anchor, snap.State.Authorized, snap.UsingDemo, snap.LastUpdate,
		snap.Settings.TargetBedtime, snap.Settings.TargetWake,
		snap.Settings.MidpointToleranceMinutes, snap.Settings.RemindersEnabled,
		time.Now())
	if err != nil {
		p.logger.Errorf("failed to upsert sync meta: %v", err)
		return err
	}

	return tx.Commit(ctx)
}

func (p *PostgresStorage) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Settings: internal.DefaultSettings()}

	row := p.pool.QueryRow(ctx, `SELECT anchor, authorized, using_demo, last_update,
		target_bedtime, target_wake, midpoint_tolerance_minutes, reminders_enabled, saved_at
		FROM sync_meta WHERE id = 1`)
	err := row.Scan(&snap.State.Anchor, &snap.State.Authorized, &snap.UsingDemo,
		&snap.LastUpdate, &snap.Settings.TargetBedtime, &snap.Settings.TargetWake,
		&snap.Settings.MidpointToleranceMinutes, &snap.Settings.RemindersEnabled,
		&snap.SavedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		p.logger.Errorf("failed to load sync meta: %v", err)
		return nil, err
	}

	rows, err := p.pool.Query(ctx, `SELECT id, night, in_bed_seconds, asleep_seconds,
		bedtime, wake, midpoint, efficiency FROM night_summaries ORDER BY night DESC`)
	if err != nil {
		p.logger.Errorf("failed to query night summaries: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r nightRow
		if err := rows.Scan(&r.ID, &r.Night, &r.InBedSeconds, &r.AsleepSeconds,
			&r.Bedtime, &r.Wake, &r.Midpoint, &r.Efficiency); err != nil {
			p.logger.Errorf("failed to scan night summary: %v", err)
			return nil, err
		}
		snap.Nights = append(snap.Nights, r.summary())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

var _ SnapshotRepository = (*PostgresStorage)(nil)
