package iso8583

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBatch(t *testing.T, n int) [][]byte {
	t.Helper()
	var stan TraceNumber
	batch := make([][]byte, n)
	for i := range batch {
		m, err := NewBuilder().
			MTI("0200").
			PAN("4111111111111111").
			ProcessingCode("000000").
			Amount(int64(100 * (i + 1))).
			STAN(stan.Next()).
			Build()
		require.NoError(t, err)
		batch[i], err = m.Pack()
		require.NoError(t, err)
	}
	return batch
}

func TestProcessorProcess(t *testing.T) {
	p := NewProcessor()
	wire := testBatch(t, 1)[0]

	m, err := p.Process(wire)
	require.NoError(t, err)
	assert.Equal(t, "0200", m.MTI().String())

	_, err = p.Process(wire[:10])
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestProcessBatchKeepsOrder(t *testing.T) {
	batch := testBatch(t, 50)
	batch[7] = []byte("garbage")
	batch[31] = append(append([]byte{}, batch[31]...), 'X')

	var failures atomic.Int32
	var logs bytes.Buffer
	p := NewProcessor(
		WithConcurrency(3),
		WithErrorHandler(func(error) { failures.Add(1) }),
		WithProcessorLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)

	msgs, errs, err := p.ProcessBatch(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, msgs, len(batch))
	require.Len(t, errs, len(batch))

	for i := range batch {
		switch i {
		case 7:
			assert.Nil(t, msgs[i])
			assert.ErrorIs(t, errs[i], ErrInvalidMTI)
		case 31:
			assert.Nil(t, msgs[i])
			assert.ErrorIs(t, errs[i], ErrTrailingData)
		default:
			require.NoError(t, errs[i], "item %d", i)
			stan, err := msgs[i].GetInt(11)
			require.NoError(t, err)
			assert.Equal(t, i+1, stan)
			amount, err := msgs[i].GetInt(4)
			require.NoError(t, err)
			assert.Equal(t, 100*(i+1), amount)
		}
	}
	assert.Equal(t, int32(2), failures.Load())
	assert.Contains(t, logs.String(), "kind=invalid_mti")
	assert.Contains(t, logs.String(), "kind=trailing_data")
}

func TestProcessBatchWithParseOptions(t *testing.T) {
	batch := testBatch(t, 2)
	batch[1] = append(append([]byte{}, batch[1]...), "tail"...)

	p := NewProcessor(WithParseOptions(WithTrailingData()))
	_, errs, err := p.ProcessBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
}

func TestProcessBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	msgs, errs, err := NewProcessor().ProcessBatch(ctx, testBatch(t, 5))
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, msgs, 5)
	assert.Len(t, errs, 5)
	for i := range msgs {
		assert.Nil(t, msgs[i])
		assert.NoError(t, errs[i])
	}
}

func TestProcessStream(t *testing.T) {
	batch := testBatch(t, 20)
	batch[4] = []byte("0100")

	input := make(chan []byte)
	output := make(chan *Message, len(batch))

	var failures atomic.Int32
	p := NewProcessor(WithConcurrency(4), WithErrorHandler(func(error) { failures.Add(1) }))

	var wg sync.WaitGroup
	wg.Add(1)
	var streamErr error
	go func() {
		defer wg.Done()
		streamErr = p.ProcessStream(context.Background(), input, output)
	}()

	for _, data := range batch {
		input <- data
	}
	close(input)
	wg.Wait()
	close(output)

	require.NoError(t, streamErr)
	seen := map[int]bool{}
	for m := range output {
		stan, err := m.GetInt(11)
		require.NoError(t, err)
		seen[stan] = true
	}
	assert.Len(t, seen, len(batch)-1)
	assert.False(t, seen[5])
	assert.Equal(t, int32(1), failures.Load())
}

func TestProcessStreamCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	input := make(chan []byte)
	output := make(chan *Message)

	done := make(chan error, 1)
	go func() {
		done <- NewProcessor().ProcessStream(ctx, input, output)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("ProcessStream did not return after cancel")
	}
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "field_too_long", ErrorKind(&FieldLengthError{Field: 2}))
	assert.Equal(t, "undefined_field", ErrorKind(&FieldError{Field: 9, Err: ErrUndefinedField}))
	assert.Equal(t, "invalid_tlv", ErrorKind(ErrInvalidTLV))
	assert.Equal(t, "unknown", ErrorKind(context.Canceled))
}
