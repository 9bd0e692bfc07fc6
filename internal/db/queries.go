package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const upsertChampion = `
INSERT INTO champions (name, riot_id, icon, version, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (name) DO UPDATE SET
    riot_id = excluded.riot_id,
    icon = excluded.icon,
    version = excluded.version,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertChampionParams struct {
	Name    string
	RiotID  string
	Icon    string
	Version string
}

func (q *Queries) UpsertChampion(ctx context.Context, arg UpsertChampionParams) error {
	_, err := q.db.ExecContext(ctx, upsertChampion,
		arg.Name,
		arg.RiotID,
		arg.Icon,
		arg.Version,
	)
	return err
}

const getChampion = `
SELECT name, riot_id, icon, version, updated_at FROM champions
WHERE name = ? COLLATE NOCASE
`

func (q *Queries) GetChampion(ctx context.Context, name string) (Champion, error) {
	row := q.db.QueryRowContext(ctx, getChampion, name)
	var i Champion
	err := row.Scan(
		&i.Name,
		&i.RiotID,
		&i.Icon,
		&i.Version,
		&i.UpdatedAt,
	)
	return i, err
}

const listChampions = `
SELECT name, riot_id, icon, version, updated_at FROM champions
ORDER BY name
`

func (q *Queries) ListChampions(ctx context.Context) ([]Champion, error) {
	rows, err := q.db.QueryContext(ctx, listChampions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Champion
	for rows.Next() {
		var i Champion
		if err := rows.Scan(
			&i.Name,
			&i.RiotID,
			&i.Icon,
			&i.Version,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createQuote = `
INSERT INTO quotes (champion, position, text, text_hash)
VALUES (?, ?, ?, ?)
`

type CreateQuoteParams struct {
	Champion string
	Position int64
	Text     string
	TextHash string
}

func (q *Queries) CreateQuote(ctx context.Context, arg CreateQuoteParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createQuote,
		arg.Champion,
		arg.Position,
		arg.Text,
		arg.TextHash,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const updateQuoteText = `
UPDATE quotes SET text = ?, text_hash = ?
WHERE id = ?
`

type UpdateQuoteTextParams struct {
	Text     string
	TextHash string
	ID       int64
}

func (q *Queries) UpdateQuoteText(ctx context.Context, arg UpdateQuoteTextParams) error {
	_, err := q.db.ExecContext(ctx, updateQuoteText, arg.Text, arg.TextHash, arg.ID)
	return err
}

const deleteQuotesFromPosition = `
DELETE FROM quotes WHERE champion = ? AND position >= ?
`

type DeleteQuotesFromPositionParams struct {
	Champion string
	Position int64
}

func (q *Queries) DeleteQuotesFromPosition(ctx context.Context, arg DeleteQuotesFromPositionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteQuotesFromPosition, arg.Champion, arg.Position)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listQuoteHashes = `
SELECT id, position, text_hash FROM quotes
WHERE champion = ?
ORDER BY position
`

type ListQuoteHashesRow struct {
	ID       int64
	Position int64
	TextHash string
}

func (q *Queries) ListQuoteHashes(ctx context.Context, champion string) ([]ListQuoteHashesRow, error) {
	rows, err := q.db.QueryContext(ctx, listQuoteHashes, champion)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListQuoteHashesRow
	for rows.Next() {
		var i ListQuoteHashesRow
		if err := rows.Scan(&i.ID, &i.Position, &i.TextHash); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getQuote = `
SELECT id, champion, position, text, text_hash, created_at FROM quotes
WHERE id = ?
`

func (q *Queries) GetQuote(ctx context.Context, id int64) (Quote, error) {
	row := q.db.QueryRowContext(ctx, getQuote, id)
	var i Quote
	err := row.Scan(
		&i.ID,
		&i.Champion,
		&i.Position,
		&i.Text,
		&i.TextHash,
		&i.CreatedAt,
	)
	return i, err
}

const listQuotesByChampion = `
SELECT id, champion, position, text, text_hash, created_at FROM quotes
WHERE champion = ?
ORDER BY position
`

func (q *Queries) ListQuotesByChampion(ctx context.Context, champion string) ([]Quote, error) {
	return q.listQuotes(ctx, listQuotesByChampion, champion)
}

const listQuotes = `
SELECT id, champion, position, text, text_hash, created_at FROM quotes
ORDER BY champion, position
LIMIT ? OFFSET ?
`

type ListQuotesParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListQuotes(ctx context.Context, arg ListQuotesParams) ([]Quote, error) {
	return q.listQuotes(ctx, listQuotes, arg.Limit, arg.Offset)
}

func (q *Queries) listQuotes(ctx context.Context, query string, args ...interface{}) ([]Quote, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Quote
	for rows.Next() {
		var i Quote
		if err := rows.Scan(
			&i.ID,
			&i.Champion,
			&i.Position,
			&i.Text,
			&i.TextHash,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const randomQuote = `
SELECT id, champion, position, text, text_hash, created_at FROM quotes
WHERE champion = ?
ORDER BY RANDOM()
LIMIT 1
`

func (q *Queries) RandomQuote(ctx context.Context, champion string) (Quote, error) {
	row := q.db.QueryRowContext(ctx, randomQuote, champion)
	var i Quote
	err := row.Scan(
		&i.ID,
		&i.Champion,
		&i.Position,
		&i.Text,
		&i.TextHash,
		&i.CreatedAt,
	)
	return i, err
}

const countQuotes = `
SELECT COUNT(*) FROM quotes
`

func (q *Queries) CountQuotes(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countQuotes)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countQuotesByChampion = `
SELECT c.name, COUNT(q.id) AS count
FROM champions c
LEFT JOIN quotes q ON q.champion = c.name
GROUP BY c.name
ORDER BY c.name
`

type CountQuotesByChampionRow struct {
	Champion string
	Count    int64
}

func (q *Queries) CountQuotesByChampion(ctx context.Context) ([]CountQuotesByChampionRow, error) {
	rows, err := q.db.QueryContext(ctx, countQuotesByChampion)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountQuotesByChampionRow
	for rows.Next() {
		var i CountQuotesByChampionRow
		if err := rows.Scan(&i.Champion, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createRefreshRun = `
INSERT INTO refresh_runs (id, status, champions_total)
VALUES (?, 'running', ?)
`

type CreateRefreshRunParams struct {
	ID             string
	ChampionsTotal int64
}

func (q *Queries) CreateRefreshRun(ctx context.Context, arg CreateRefreshRunParams) error {
	_, err := q.db.ExecContext(ctx, createRefreshRun, arg.ID, arg.ChampionsTotal)
	return err
}

const finishRefreshRun = `
UPDATE refresh_runs
SET status = ?, champions_failed = ?, quotes_total = ?, error_message = ?, finished_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type FinishRefreshRunParams struct {
	Status          string
	ChampionsFailed int64
	QuotesTotal     int64
	ErrorMessage    sql.NullString
	ID              string
}

func (q *Queries) FinishRefreshRun(ctx context.Context, arg FinishRefreshRunParams) error {
	_, err := q.db.ExecContext(ctx, finishRefreshRun,
		arg.Status,
		arg.ChampionsFailed,
		arg.QuotesTotal,
		arg.ErrorMessage,
		arg.ID,
	)
	return err
}

const getRefreshRun = `
SELECT id, status, champions_total, champions_failed, quotes_total, error_message, started_at, finished_at
FROM refresh_runs
WHERE id = ?
`

func (q *Queries) GetRefreshRun(ctx context.Context, id string) (RefreshRun, error) {
	return scanRefreshRun(q.db.QueryRowContext(ctx, getRefreshRun, id))
}

const latestRefreshRun = `
SELECT id, status, champions_total, champions_failed, quotes_total, error_message, started_at, finished_at
FROM refresh_runs
ORDER BY started_at DESC, rowid DESC
LIMIT 1
`

func (q *Queries) LatestRefreshRun(ctx context.Context) (RefreshRun, error) {
	return scanRefreshRun(q.db.QueryRowContext(ctx, latestRefreshRun))
}

func scanRefreshRun(row *sql.Row) (RefreshRun, error) {
	var i RefreshRun
	err := row.Scan(
		&i.ID,
		&i.Status,
		&i.ChampionsTotal,
		&i.ChampionsFailed,
		&i.QuotesTotal,
		&i.ErrorMessage,
		&i.StartedAt,
		&i.FinishedAt,
	)
	return i, err
}

const getUser = `
SELECT id, champion, rate, created_at, updated_at FROM users
WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Champion,
		&i.Rate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `
INSERT INTO users (id, champion, rate)
VALUES (?, ?, ?)
ON CONFLICT (id) DO NOTHING
`

type CreateUserParams struct {
	ID       int64
	Champion string
	Rate     int64
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.ExecContext(ctx, createUser, arg.ID, arg.Champion, arg.Rate)
	return err
}

const setUserChampion = `
INSERT INTO users (id, champion, rate)
VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    champion = excluded.champion,
    updated_at = CURRENT_TIMESTAMP
`

type SetUserChampionParams struct {
	ID       int64
	Champion string
	Rate     int64 // Used only when the user is new
}

func (q *Queries) SetUserChampion(ctx context.Context, arg SetUserChampionParams) error {
	_, err := q.db.ExecContext(ctx, setUserChampion, arg.ID, arg.Champion, arg.Rate)
	return err
}

const setUserRate = `
INSERT INTO users (id, champion, rate)
VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    rate = excluded.rate,
    updated_at = CURRENT_TIMESTAMP
`

type SetUserRateParams struct {
	ID       int64
	Champion string // Used only when the user is new
	Rate     int64
}

func (q *Queries) SetUserRate(ctx context.Context, arg SetUserRateParams) error {
	_, err := q.db.ExecContext(ctx, setUserRate, arg.ID, arg.Champion, arg.Rate)
	return err
}
