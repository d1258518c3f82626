// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter wraps methods for getting kvs.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool
}

// Putter wraps methods for putting kvs.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// GetPutter wraps methods for getting/putting kvs.
type GetPutter interface {
	Getter
	Putter
}

// Store is a key-value store that can write atomic batches.
type Store interface {
	GetPutter
	NewBatch() Batch
	Close() error
}

// Batch defines batch of putting ops.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Bucket prefixes every key with a fixed namespace.
type Bucket string

// Get reads the value of key inside the bucket.
func (b Bucket) Get(src Getter, key []byte) ([]byte, error) {
	return src.Get(b.key(key))
}

// Put writes the value of key inside the bucket.
func (b Bucket) Put(dst Putter, key, value []byte) error {
	return dst.Put(b.key(key), value)
}

// Delete removes key from the bucket.
func (b Bucket) Delete(dst Putter, key []byte) error {
	return dst.Delete(b.key(key))
}

// Has returns whether key exists inside the bucket.
func (b Bucket) Has(src Getter, key []byte) (bool, error) {
	return src.Has(b.key(key))
}

func (b Bucket) key(key []byte) []byte {
	return append([]byte(b), key...)
}
