package cache

import bolt "go.etcd.io/bbolt"

// PutRaw stores bytes under the snapshot key without encoding them.
func PutRaw(s *BoltStore, raw []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(snapshotKey, raw)
	})
}
