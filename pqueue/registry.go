package pqueue

import "sync"

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Codec)
)

// RegisterType makes elementType available to PQueue.Init, the
// Go-native replacement for PQueue.h's DynamicLoader-based
// ClassName_serialize symbol lookup (spec's BBDM naming-convention
// dynamic dispatch design note): a type registers its own Codec once,
// typically from its package's init().
func RegisterType(elementType string, codec Codec) {
	if codec.Encode == nil || codec.Decode == nil {
		panic("pqueue: codec missing Encode/Decode for type " + elementType)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[elementType]; ok {
		panic("pqueue: type already registered: " + elementType)
	}
	registry[elementType] = codec
}

// FindType returns the Codec registered under elementType, if any.
func FindType(elementType string) (Codec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[elementType]
	return c, ok
}
