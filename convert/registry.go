package convert

import "sync"

// Registry manages the available output codecs
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec // key can be either name or extension
}

var defaultRegistry = &Registry{
	codecs: make(map[string]Codec),
}

// Register registers a codec in the default registry
func Register(codec Codec) {
	defaultRegistry.Register(codec)
}

// Lookup retrieves a codec by name or extension from the default registry
func Lookup(nameOrExt string) (Codec, error) {
	return defaultRegistry.Lookup(nameOrExt)
}

// Codecs returns all codecs registered in the default registry
func Codecs() []Codec {
	return defaultRegistry.Codecs()
}

// Register registers a codec using both its name and extension
func (r *Registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[codec.Name()] = codec
	r.codecs[codec.Extension()] = codec
}

// Lookup retrieves a codec by name or extension
func (r *Registry) Lookup(nameOrExt string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.codecs[nameOrExt]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return codec, nil
}

// Codecs returns all registered codecs (deduplicated)
func (r *Registry) Codecs() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Codec]bool)
	codecs := make([]Codec, 0)

	for _, codec := range r.codecs {
		if !seen[codec] {
			seen[codec] = true
			codecs = append(codecs, codec)
		}
	}

	return codecs
}
