package ports

// Normalizer defines the interface for turning raw text into an identifier token.
type Normalizer interface {
	Normalize(text string) string
}
