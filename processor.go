package iso8583

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Processor unpacks raw messages concurrently. Every worker owns the Message
// it produces; the only shared state is the read-only Packager.
type Processor struct {
	concurrency  int
	parseOpts    []Option
	logger       *slog.Logger
	errorHandler func(error)
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithConcurrency bounds the number of messages unpacked at once. Values
// below 1 are ignored.
func WithConcurrency(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithProcessorLogger sets the logger parse failures are reported to.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithErrorHandler sets a callback invoked for every parse failure in
// ProcessBatch and ProcessStream. It may be called from several goroutines.
func WithErrorHandler(handler func(error)) ProcessorOption {
	return func(p *Processor) {
		p.errorHandler = handler
	}
}

// WithParseOptions sets the options passed to Unpack.
func WithParseOptions(opts ...Option) ProcessorOption {
	return func(p *Processor) {
		p.parseOpts = append([]Option(nil), opts...)
	}
}

// NewProcessor returns a Processor. By default it runs four workers and logs
// to slog.Default().
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process unpacks a single message.
func (p *Processor) Process(data []byte) (*Message, error) {
	return Unpack(data, p.parseOpts...)
}

func (p *Processor) unpack(ctx context.Context, data []byte) (*Message, error) {
	msg, err := Unpack(data, p.parseOpts...)
	if err != nil {
		p.logger.LogAttrs(ctx, slog.LevelDebug, "unpack failed",
			slog.String("kind", ErrorKind(err)),
			slog.Int("size", len(data)),
			slog.Any("error", err),
		)
		if p.errorHandler != nil {
			p.errorHandler(err)
		}
		return nil, err
	}
	return msg, nil
}

// ProcessBatch unpacks every buffer of batch. The returned slices are index
// aligned with batch: for each input either the message or the error is set.
// When ctx is cancelled no new work is started, running work is waited for,
// and ctx.Err() is returned with the results gathered so far.
func (p *Processor) ProcessBatch(ctx context.Context, batch [][]byte) ([]*Message, []error, error) {
	results := make([]*Message, len(batch))
	errs := make([]error, len(batch))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.concurrency)

	for i, data := range batch {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return results, errs, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return results, errs, ctx.Err()
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, msgData []byte) {
			defer wg.Done()
			defer func() { <-semaphore }()
			results[idx], errs[idx] = p.unpack(ctx, msgData)
		}(i, data)
	}

	wg.Wait()
	return results, errs, nil
}

// ProcessStream unpacks messages from input and sends them to output until
// input is closed or ctx is cancelled. Messages that fail to parse are
// reported to the error handler and dropped. Output order is not preserved.
func (p *Processor) ProcessStream(ctx context.Context, input <-chan []byte, output chan<- *Message) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	semaphore := make(chan struct{}, p.concurrency)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case data, ok := <-input:
			if !ok {
				return nil
			}

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}

			wg.Add(1)
			go func(msgData []byte) {
				defer wg.Done()
				defer func() { <-semaphore }()

				msg, err := p.unpack(ctx, msgData)
				if err != nil {
					return
				}
				select {
				case output <- msg:
				case <-ctx.Done():
				}
			}(data)
		}
	}
}

var errorKinds = []struct {
	err  error
	name string
}{
	{ErrInvalidMTI, "invalid_mti"},
	{ErrTruncatedBitmap, "truncated_bitmap"},
	{ErrMessageTooShort, "message_too_short"},
	{ErrTruncatedField, "truncated_field"},
	{ErrInvalidLengthPrefix, "invalid_length_prefix"},
	{ErrFieldTooLong, "field_too_long"},
	{ErrFieldTypeMismatch, "field_type_mismatch"},
	{ErrUndefinedField, "undefined_field"},
	{ErrTrailingData, "trailing_data"},
	{ErrOutOfRange, "out_of_range"},
	{ErrUnsupportedValue, "unsupported_value"},
	{ErrInvalidPackager, "invalid_packager"},
	{ErrValidationFailed, "validation_failed"},
	{ErrMissingField, "missing_field"},
	{ErrInvalidLength, "invalid_length"},
	{ErrBufferTooSmall, "buffer_too_small"},
	{ErrInvalidTLV, "invalid_tlv"},
}

// ErrorKind names the error kind of err for logs and metrics labels, or
// returns "unknown".
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}
