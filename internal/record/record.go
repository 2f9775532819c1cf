// Package record is the external-collaborator boundary: it turns the
// comma-separated input stream into model.Operation values, and turns
// finalized model.AccountSnapshot values back into comma-separated output
// rows. Neither type is known to internal/account, internal/shard,
// internal/router, or internal/pipeline, which only ever see the narrow
// OperationSource / SnapshotSink interfaces those types happen to satisfy.
package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luxfi/paybatch/internal/model"
	"github.com/luxfi/paybatch/internal/money"
)

// ParseError reports a malformed input record, with the 1-based line
// number (counting the header as line 1) it was found on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var wantHeader = []string{"type", "client", "tx", "amount"}

// Reader parses the fixed-schema `type, client, tx, amount` record
// stream. Field and header whitespace is tolerated; amounts are parsed
// with internal/money so no binary float ever represents a balance.
type Reader struct {
	csv  *csv.Reader
	line int
}

// NewReader validates the header row and returns a Reader positioned at
// the first data row.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("reading header: %w", err)}
	}
	for i, h := range header {
		if i >= len(wantHeader) || strings.TrimSpace(h) != wantHeader[i] {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("unexpected header %q", header)}
		}
	}
	return &Reader{csv: cr, line: 1}, nil
}

// Next returns the next parsed Operation, or io.EOF once the stream is
// exhausted. A malformed row is reported as a *ParseError; the caller
// decides (per the configured policy) whether to abort or skip and
// continue.
func (r *Reader) Next() (model.Operation, error) {
	fields, err := r.csv.Read()
	r.line++
	if err != nil {
		return model.Operation{}, err // io.EOF propagates as-is
	}
	op, err := parseRecord(fields)
	if err != nil {
		return model.Operation{}, &ParseError{Line: r.line, Err: err}
	}
	return op, nil
}

func parseRecord(fields []string) (model.Operation, error) {
	if len(fields) < 3 {
		return model.Operation{}, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}
	kind, err := parseKind(strings.TrimSpace(fields[0]))
	if err != nil {
		return model.Operation{}, err
	}
	client, err := parseUint(strings.TrimSpace(fields[1]), 16)
	if err != nil {
		return model.Operation{}, fmt.Errorf("client: %w", err)
	}
	tx, err := parseUint(strings.TrimSpace(fields[2]), 32)
	if err != nil {
		return model.Operation{}, fmt.Errorf("tx: %w", err)
	}

	op := model.Operation{
		Kind:   kind,
		Client: model.ClientId(client),
		Tx:     model.TxId(tx),
	}

	amountField := ""
	if len(fields) >= 4 {
		amountField = strings.TrimSpace(fields[3])
	}
	switch {
	case kind.HasAmount() && amountField == "":
		return model.Operation{}, fmt.Errorf("%s requires an amount", kind)
	case !kind.HasAmount() && amountField != "":
		return model.Operation{}, fmt.Errorf("%s must not carry an amount", kind)
	case kind.HasAmount():
		amt, err := money.Parse(amountField)
		if err != nil {
			return model.Operation{}, err
		}
		if !amt.IsPositive() {
			return model.Operation{}, fmt.Errorf("%s amount must be > 0, got %s", kind, amountField)
		}
		op.Amount = amt
	}
	return op, nil
}

func parseKind(s string) (model.OpKind, error) {
	switch s {
	case "deposit":
		return model.Deposit, nil
	case "withdrawal":
		return model.Withdrawal, nil
	case "dispute":
		return model.Dispute, nil
	case "resolve":
		return model.Resolve, nil
	case "chargeback":
		return model.Chargeback, nil
	default:
		return 0, fmt.Errorf("unknown operation type %q", s)
	}
}

func parseUint(s string, bits int) (uint64, error) {
	return strconv.ParseUint(s, 10, bits)
}

// Writer renders AccountSnapshot values as `client,available,held,total,locked`
// rows, trimming trailing fractional zeros per the output contract.
type Writer struct {
	csv *csv.Writer
}

// NewWriter returns a Writer and writes the header row.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return nil, err
	}
	return &Writer{csv: cw}, nil
}

// WriteSnapshot appends one account row.
func (w *Writer) WriteSnapshot(s model.AccountSnapshot) error {
	return w.csv.Write([]string{
		strconv.FormatUint(uint64(s.Client), 10),
		s.Available.String(),
		s.Held.String(),
		s.Total.String(),
		strconv.FormatBool(s.Locked),
	})
}

// Flush flushes any buffered rows and returns the first write error, if any.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
