package httpx

// Option настраивает LoggingRoundTripper.
type Option func(*LoggingRoundTripper)

// WithProvider подписывает записи лога именем внешнего сервиса.
func WithProvider(name string) Option {
	return func(rt *LoggingRoundTripper) {
		rt.provider = name
	}
}

// WithLogFieldMaxLen ограничивает длину дампов; 0 - без ограничения.
func WithLogFieldMaxLen(n int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = n
	}
}

func WithSensitiveDataMasker(masker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.masker = masker
	}
}
