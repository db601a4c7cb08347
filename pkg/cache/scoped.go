package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI uses it for the
// [cache] namespace setting.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) HierarchyKey(base string, opts HierarchyKeyOpts) string {
	return k.prefix + k.inner.HierarchyKey(base, opts)
}

func (k *ScopedKeyer) SceneKey(hierarchyHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(hierarchyHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
