package claims

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"violationrate/codes"
	"violationrate/db"
)

// Reader fetches claim lines from the claims store. Every Fetch opens its own
// connection and closes it once the rows are in memory.
type Reader struct {
	connStr string
	log     zerolog.Logger
}

// NewReader returns a Reader for the PostgreSQL database at connStr.
func NewReader(connStr string, log zerolog.Logger) *Reader {
	return &Reader{connStr: connStr, log: log}
}

// Fetch returns every service line, joined with its encounter header, whose
// procedure is a screening or resection code. Code values travel as query
// parameters only.
func (r *Reader) Fetch(ctx context.Context, procs codes.ProcedureCodes) ([]ClaimLine, error) {
	start := time.Now()

	conn, err := pgx.Connect(ctx, r.connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to claims store: %w", err)
	}

	rows, err := db.New(conn).ListClaimLines(ctx, db.ListClaimLinesParams{
		ScreeningCodes: procs.Screening.Codes(),
		ResectionCodes: procs.Resection.Codes(),
	})
	conn.Close(ctx)
	if err != nil {
		return nil, fmt.Errorf("query claim lines: %w", classify(err))
	}

	lines := make([]ClaimLine, 0, len(rows))
	for _, row := range rows {
		line, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("read claim lines: %w", err)
		}
		lines = append(lines, line)
	}

	r.log.Info().
		Int("lines", len(lines)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched claim lines")
	return lines, nil
}
