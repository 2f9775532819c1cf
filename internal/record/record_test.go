package record

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/paybatch/internal/model"
	"github.com/luxfi/paybatch/internal/money"
)

func TestReaderParsesBasicScenario(t *testing.T) {
	input := `type, client, tx, amount
deposit, 1, 1, 42.0
withdrawal, 2, 2, 10
deposit, 2, 3, 10
withdrawal, 1, 4, 10.5
withdrawal, 2, 5, 6.75
dispute, 1, 1
`
	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	var ops []model.Operation
	for {
		op, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ops = append(ops, op)
	}
	require.Len(t, ops, 6)
	require.Equal(t, model.Deposit, ops[0].Kind)
	require.Equal(t, model.ClientId(1), ops[0].Client)
	require.Equal(t, model.TxId(1), ops[0].Tx)
	require.Equal(t, "42", ops[0].Amount.String())
	require.Equal(t, model.Dispute, ops[5].Kind)
}

func TestReaderRejectsBadHeader(t *testing.T) {
	_, err := NewReader(strings.NewReader("foo,bar,baz\n"))
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestReaderRejectsDepositWithoutAmount(t *testing.T) {
	r, err := NewReader(strings.NewReader("type, client, tx, amount\ndeposit, 1, 1\n"))
	require.NoError(t, err)
	_, err = r.Next()
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 2, pe.Line)
}

func TestReaderRejectsDisputeWithAmount(t *testing.T) {
	r, err := NewReader(strings.NewReader("type, client, tx, amount\ndispute, 1, 1, 5\n"))
	require.NoError(t, err)
	_, err = r.Next()
	require.Error(t, err)
}

func TestReaderRejectsNonPositiveAmount(t *testing.T) {
	r, err := NewReader(strings.NewReader("type, client, tx, amount\ndeposit, 1, 1, 0\n"))
	require.NoError(t, err)
	_, err = r.Next()
	require.Error(t, err)
}

func TestReaderRejectsUnknownKind(t *testing.T) {
	r, err := NewReader(strings.NewReader("type, client, tx, amount\ntransfer, 1, 1, 5\n"))
	require.NoError(t, err)
	_, err = r.Next()
	require.Error(t, err)
}

func TestWriterFormatsSnapshots(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	avail, err := money.Parse("31.5")
	require.NoError(t, err)

	require.NoError(t, w.WriteSnapshot(model.AccountSnapshot{
		Client: 1, Available: avail, Held: money.Zero, Total: avail, Locked: false,
	}))
	require.NoError(t, w.Flush())

	want := "client,available,held,total,locked\n1,31.5,0,31.5,false\n"
	require.Equal(t, want, buf.String())
}
