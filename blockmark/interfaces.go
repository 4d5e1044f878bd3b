package blockmark

// Marshaler is the interface implemented by types that can render themselves
// as blockmark text. Implementations receive the codec so that manifest-aware
// rendering (container detection, declared regions) stays consistent with
// plain block trees.
type Marshaler interface {
	MarshalBlockmark(c *Codec) (string, error)
}

// Unmarshaler is the interface implemented by types that can populate
// themselves from blockmark text.
type Unmarshaler interface {
	UnmarshalBlockmark(c *Codec, text string) error
}
