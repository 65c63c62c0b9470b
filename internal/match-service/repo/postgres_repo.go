package repo

import (
	"context"
	"database/sql"

	"github.com/vportela/bet-wallet-platform-poc/pkg/contracts/events"
)

// PostgresRepo persiste o estado corrente e o histórico das partidas.
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// UpsertCurrent insere ou atualiza o snapshot corrente em match_current.
// ON CONFLICT garante uma linha por partida.
func (r *PostgresRepo) UpsertCurrent(ctx context.Context, e events.MatchUpdated) error {
	const q = `
		INSERT INTO match_current
		  (match_id, sport, league, home_team, away_team, status, clock,
		   score_home, score_away, home_odd, draw_odd, away_odd, version, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (match_id) DO UPDATE SET
		  sport      = EXCLUDED.sport,
		  league     = EXCLUDED.league,
		  home_team  = EXCLUDED.home_team,
		  away_team  = EXCLUDED.away_team,
		  status     = EXCLUDED.status,
		  clock      = EXCLUDED.clock,
		  score_home = EXCLUDED.score_home,
		  score_away = EXCLUDED.score_away,
		  home_odd   = EXCLUDED.home_odd,
		  draw_odd   = EXCLUDED.draw_odd,
		  away_odd   = EXCLUDED.away_odd,
		  version    = EXCLUDED.version,
		  updated_at = EXCLUDED.updated_at
	`
	scoreHome, scoreAway := sql.NullInt64{}, sql.NullInt64{}
	if e.Score != nil {
		scoreHome = sql.NullInt64{Int64: int64(e.Score.Home), Valid: true}
		scoreAway = sql.NullInt64{Int64: int64(e.Score.Away), Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, q,
		e.MatchID, e.Sport, e.League, e.HomeTeam, e.AwayTeam, e.Status, e.Clock,
		scoreHome, scoreAway, e.Odds.Home, e.Odds.Draw, e.Odds.Away,
		e.Version, e.UpdatedAt,
	)
	return err
}

// InsertHistory grava a evolução de odds e placar em match_history
func (r *PostgresRepo) InsertHistory(ctx context.Context, e events.MatchUpdated) error {
	const q = `
		INSERT INTO match_history
		  (match_id, score_home, score_away, home_odd, draw_odd, away_odd, version, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	scoreHome, scoreAway := sql.NullInt64{}, sql.NullInt64{}
	if e.Score != nil {
		scoreHome = sql.NullInt64{Int64: int64(e.Score.Home), Valid: true}
		scoreAway = sql.NullInt64{Int64: int64(e.Score.Away), Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, q,
		e.MatchID, scoreHome, scoreAway,
		e.Odds.Home, e.Odds.Draw, e.Odds.Away, e.Version, e.UpdatedAt,
	)
	return err
}

// ListMatches devolve o estado corrente de todas as partidas conhecidas
func (r *PostgresRepo) ListMatches(ctx context.Context) ([]events.MatchUpdated, error) {
	const q = `
		SELECT match_id, sport, league, home_team, away_team, status, clock,
		       score_home, score_away, home_odd, draw_odd, away_odd, version, updated_at
		FROM match_current
		ORDER BY match_id
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.MatchUpdated
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMatch devolve o estado corrente de uma partida; sql.ErrNoRows se não existe
func (r *PostgresRepo) GetMatch(ctx context.Context, matchID string) (events.MatchUpdated, error) {
	const q = `
		SELECT match_id, sport, league, home_team, away_team, status, clock,
		       score_home, score_away, home_odd, draw_odd, away_odd, version, updated_at
		FROM match_current
		WHERE match_id = $1
	`
	row := r.DB.QueryRowContext(ctx, q, matchID)
	return scanMatch(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(s scanner) (events.MatchUpdated, error) {
	var m events.MatchUpdated
	var scoreHome, scoreAway sql.NullInt64
	err := s.Scan(
		&m.MatchID, &m.Sport, &m.League, &m.HomeTeam, &m.AwayTeam, &m.Status, &m.Clock,
		&scoreHome, &scoreAway, &m.Odds.Home, &m.Odds.Draw, &m.Odds.Away,
		&m.Version, &m.UpdatedAt,
	)
	if err != nil {
		return events.MatchUpdated{}, err
	}
	if scoreHome.Valid {
		m.Score = &events.Score{Home: int(scoreHome.Int64), Away: int(scoreAway.Int64)}
	}
	return m, nil
}
