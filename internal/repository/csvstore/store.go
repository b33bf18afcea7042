// Package csvstore keeps the ledger tables as one CSV file per kind.
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// Store implements ledger.Store on a local directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// New builds a CSV store rooted at dir. The directory is created on first save.
func New(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

// Path returns the file backing the given kind.
func (s *Store) Path(kind models.Kind) string {
	return filepath.Join(s.dir, kind.FileName())
}

// Load reads one table. A missing file yields an empty table with the kind's
// schema; an unreadable file or a header mismatch is a CorruptSourceError.
func (s *Store) Load(ctx context.Context, kind models.Kind) (models.Table, error) {
	if err := ctx.Err(); err != nil {
		return models.Table{}, err
	}

	path := s.Path(kind)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("table source absent, starting empty", zap.String("kind", string(kind)), zap.String("path", path))
		return models.EmptyTable(kind), nil
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := ReadTable(f, kind)
	if err != nil {
		return models.Table{}, &CorruptSourceError{Kind: kind, Source: path, Err: err}
	}
	return table, nil
}

// LoadLedger loads and decodes all three tables.
func (s *Store) LoadLedger(ctx context.Context) (*models.Ledger, error) {
	ledger := &models.Ledger{}
	for _, kind := range models.Kinds {
		table, err := s.Load(ctx, kind)
		if err != nil {
			return nil, err
		}
		if err := ledger.SetTable(table); err != nil {
			return nil, &CorruptSourceError{Kind: kind, Source: s.Path(kind), Err: err}
		}
	}
	return ledger, nil
}

// Save overwrites all three files with the contents of ledger. Each file is
// replaced by rename so a reader never sees a half-written table. ctx is
// only checked before the first write; once a file is replaced the rest
// follow.
func (s *Store) Save(ctx context.Context, ledger *models.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	for _, kind := range models.Kinds {
		if err := s.writeFile(kind, ledger.Table(kind)); err != nil {
			return err
		}
	}

	s.logger.Debug("ledger saved", zap.String("dir", s.dir))
	return nil
}

func (s *Store) writeFile(kind models.Kind, table models.Table) error {
	var buf bytes.Buffer
	if err := WriteTable(&buf, table); err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+kind.FileName()+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", kind, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", kind, err)
	}
	if err := os.Rename(tmpName, s.Path(kind)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.Path(kind), err)
	}
	return nil
}

// ReadTable parses a CSV stream whose first record is the kind's header.
// An empty stream is treated as corrupt: an existing file always has a header.
func ReadTable(r io.Reader, kind models.Kind) (models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.Table{}, errors.New("missing header row")
	}
	if err != nil {
		return models.Table{}, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if !kind.HasSchema(header) {
		return models.Table{}, fmt.Errorf("header %v does not match %v", header, kind.Columns())
	}

	table := models.EmptyTable(kind)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.Table{}, err
		}
		line, _ := reader.FieldPos(0)
		table.Rows = append(table.Rows, row)
		table.Lines = append(table.Lines, line)
	}
	return table, nil
}

// WriteTable writes the header followed by every row.
func WriteTable(w io.Writer, table models.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return err
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return err
	}
	return writer.Error()
}
