package claims

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"violationrate/db"
)

// ErrMissingEncounterKey rejects extract rows that cannot be joined.
var ErrMissingEncounterKey = errors.New("record has no encounter_key")

// LoadStats summarizes one Load run.
type LoadStats struct {
	Records int64
	Headers int64
	Lines   int64
}

// recordSource is satisfied by *parquet.GenericReader[ClaimRecord] and
// *CSVRecordReader.
type recordSource interface {
	Read(buf []ClaimRecord) (int, error)
	Close() error
}

type parquetSource struct {
	*parquet.GenericReader[ClaimRecord]
	file *os.File
}

func (p *parquetSource) Close() error {
	p.GenericReader.Close()
	return p.file.Close()
}

// openSource picks a reader by extension: .csv extracts are parsed as CSV,
// everything else as Parquet. rows is -1 when the count isn't known upfront.
func openSource(path string) (src recordSource, rows int64, format string, err error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		r, err := NewCSVRecordReader(path)
		if err != nil {
			return nil, 0, "", err
		}
		return r, -1, "csv", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, "", fmt.Errorf("open parquet: %w", err)
	}
	reader := parquet.NewGenericReader[ClaimRecord](f)
	return &parquetSource{GenericReader: reader, file: f}, reader.NumRows(), "parquet", nil
}

// Load copies a claims extract (Parquet or CSV) into the claims store inside
// a single transaction. Headers already present are left untouched.
func Load(ctx context.Context, path, connStr string, batchSize int, log zerolog.Logger) (LoadStats, error) {
	var stats LoadStats
	start := time.Now()

	if batchSize <= 0 {
		batchSize = 5000
	}

	src, rows, format, err := openSource(path)
	if err != nil {
		return stats, err
	}
	defer src.Close()

	log.Info().
		Str("file", path).
		Str("format", format).
		Int64("rows", rows).
		Msg("loading claims extract")

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return stats, fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return stats, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return stats, fmt.Errorf("ping: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return stats, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	q := db.New(pool).WithTx(tx)
	if err := loadRecords(ctx, q, src, batchSize, &stats); err != nil {
		return stats, err
	}

	if err := tx.Commit(ctx); err != nil {
		return stats, fmt.Errorf("commit: %w", err)
	}

	log.Info().
		Int64("records", stats.Records).
		Int64("headers", stats.Headers).
		Int64("lines", stats.Lines).
		Dur("elapsed", time.Since(start)).
		Msg("claims extract loaded")
	return stats, nil
}

func loadRecords(ctx context.Context, q *db.Queries, src recordSource, batchSize int, stats *LoadStats) error {
	const readBatch = 8192
	buf := make([]ClaimRecord, readBatch)

	seen := make(map[string]bool)
	headers := make([]db.InsertHeaderParams, 0, batchSize)
	lines := make([]db.InsertServiceLinesParams, 0, batchSize)

	// Headers go first so a batch never holds lines for an encounter whose
	// header is still pending.
	flush := func() error {
		n, err := q.InsertHeaders(ctx, headers)
		if err != nil {
			return fmt.Errorf("insert headers: %w", err)
		}
		stats.Headers += n

		if len(lines) > 0 {
			copied, err := q.InsertServiceLines(ctx, lines)
			if err != nil {
				return fmt.Errorf("copy service lines: %w", err)
			}
			stats.Lines += copied
		}
		headers = headers[:0]
		lines = lines[:0]
		return nil
	}

	for {
		n, readErr := src.Read(buf)

		for i := 0; i < n; i++ {
			rec := &buf[i]
			stats.Records++

			if rec.EncounterKey == "" {
				return fmt.Errorf("record %d: %w", stats.Records, ErrMissingEncounterKey)
			}
			if !seen[rec.EncounterKey] {
				seen[rec.EncounterKey] = true
				headers = append(headers, rec.header())
			}
			lines = append(lines, rec.serviceLine())

			if len(lines) >= batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return fmt.Errorf("read extract: %w", readErr)
		}
	}

	return flush()
}

// beginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InitSchema creates the claims tables on a fresh database.
func InitSchema(ctx context.Context, connStr string) error {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return fmt.Errorf("connect to claims store: %w", err)
	}
	defer conn.Close(ctx)

	return withTx(ctx, conn, func(q *db.Queries) error {
		return q.InitSchema(ctx)
	})
}

func withTx(ctx context.Context, b beginner, fn func(q *db.Queries) error) error {
	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(db.New(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
