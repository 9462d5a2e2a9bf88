package publisher

// Publisher announces newly persisted articles to downstream consumers
// (translation workers, notification bots). Failures here never fail a
// crawl; the article is already stored.
type Publisher interface {
	// Publish publishes a message under the given source key
	Publish(source string, message []byte) error

	// Trim trims the stream to the configured maximum length
	Trim() error

	// Close closes the publisher connection
	Close() error
}
