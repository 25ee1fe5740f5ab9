package normalizer

import "github.com/baditaflorin/go_heading_command/internal/ports"

// NormalizerFactory creates the appropriate normalizer for a configuration
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// NormalizerType selects the normalizer to create
type NormalizerType int

const (
	// DefaultNormalizerType reproduces the editor's observed token output
	DefaultNormalizerType NormalizerType = iota
	// ComposingNormalizerType NFC-composes input before normalizing
	ComposingNormalizerType
)

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case ComposingNormalizerType:
		return NewComposingNormalizer()
	default:
		return NewHeadingNormalizer()
	}
}
