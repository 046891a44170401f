package store

// buildKey constructs a database key from prefix and suffix. Keys are freshly
// allocated: badger retains key slices passed to Set/Delete until the
// transaction commits, so they must never be reused.
func buildKey(prefix, suffix string) []byte {
	return []byte(prefix + suffix)
}

// buildIndexKey constructs a secondary index key from an index prefix, owner
// id, and entity id.
func buildIndexKey(prefix, owner, entityID string) []byte {
	return []byte(prefix + owner + ":" + entityID)
}
