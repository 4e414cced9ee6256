// Package importer turns uploaded CSV or XLSX files into validated rows.
// A batch either yields every row or fails as a whole.
package importer

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Validator inspects the whole batch before any row is transformed
type Validator func(rows []Row) error

// Shape describes one importable entity
type Shape[T any] struct {
	Name            string
	RequiredColumns []string
	OptionalColumns []string
	// Validate is optional; it sees every row before Transform runs
	Validate Validator
	// Transform builds an uncommitted entity from a row
	Transform func(row Row) (T, error)
}

// Columns returns required then optional columns, the template header order
func (s Shape[T]) Columns() []string {
	columns := make([]string, 0, len(s.RequiredColumns)+len(s.OptionalColumns))
	columns = append(columns, s.RequiredColumns...)
	return append(columns, s.OptionalColumns...)
}

// Importer holds the shared decoding and validation machinery
type Importer struct {
	log      *zap.Logger
	validate *validator.Validate
}

// New creates an Importer
func New(log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{log: log, validate: newValidator()}
}

// Run parses raw and transforms every row with shape.
// The first row failure, whatever its cause, rejects the batch as an import
// failure naming the row.
func Run[T any](imp *Importer, raw []byte, format Format, shape Shape[T]) ([]T, error) {
	table, err := Parse(raw, format)
	if err != nil {
		return nil, err
	}

	if len(table.Rows) == 0 {
		return nil, apierrors.NewValidation("empty file")
	}

	var missing []string
	for _, column := range shape.RequiredColumns {
		if !table.HasColumn(column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, apierrors.NewValidation("missing required columns: %s", strings.Join(missing, ", "))
	}

	if shape.Validate != nil {
		if err := shape.Validate(table.Rows); err != nil {
			findings := messages(err)
			imp.log.Warn("import batch rejected",
				zap.String("entity", shape.Name),
				zap.Strings("findings", findings),
			)
			return nil, apierrors.NewImportFailed(
				fmt.Sprintf("import validation failed: %s", strings.Join(findings, "; ")),
				findings,
			)
		}
	}

	items := make([]T, 0, len(table.Rows))
	for _, row := range table.Rows {
		item, err := shape.Transform(row)
		if err != nil {
			imp.log.Warn("import row rejected",
				zap.String("entity", shape.Name),
				zap.Int("line", row.Line),
				zap.Error(err),
			)
			msg := rowError(row, err)
			return nil, apierrors.NewImportFailed(msg, []string{msg})
		}
		items = append(items, item)
	}

	imp.log.Info("import rows decoded",
		zap.String("entity", shape.Name),
		zap.Int("rows", len(items)),
		zap.String("encoding", string(table.Encoding)),
	)
	return items, nil
}

// UniqueColumn reports every value of column that appears in more than one row.
// Blank values are ignored.
func UniqueColumn(column string) Validator {
	return func(rows []Row) error {
		seen := make(map[string]int, len(rows))
		var err error
		for _, row := range rows {
			value := row.Get(column)
			if value == "" {
				continue
			}
			if first, ok := seen[value]; ok {
				err = multierr.Append(err, fmt.Errorf("duplicate %s %q in rows %d and %d", column, value, first, row.Line))
				continue
			}
			seen[value] = row.Line
		}
		return err
	}
}

// All runs every validator and combines their findings
func All(validators ...Validator) Validator {
	return func(rows []Row) error {
		var err error
		for _, v := range validators {
			err = multierr.Append(err, v(rows))
		}
		return err
	}
}

func messages(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
