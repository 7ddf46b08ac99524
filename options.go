package iso8583

// Option configures Unpack and NewBuilder.
type Option func(*options)

type options struct {
	packager      *Packager
	allowTrailing bool
}

func newOptions(opts []Option) options {
	o := options{packager: defaultPackager}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithPackager sets the field table used to encode and decode fields.
// A nil packager selects the default table.
func WithPackager(packager *Packager) Option {
	return func(o *options) {
		if packager == nil {
			packager = defaultPackager
		}
		o.packager = packager
	}
}

// WithTrailingData makes Unpack ignore bytes left after the last field.
func WithTrailingData() Option {
	return func(o *options) {
		o.allowTrailing = true
	}
}

// WithStrictTrailing rejects bytes left after the last field. This is the
// default; the option exists to override an earlier WithTrailingData.
func WithStrictTrailing() Option {
	return func(o *options) {
		o.allowTrailing = false
	}
}
