// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(k)), b...), k...)
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{b, src}
}

type bucketStore struct {
	bucket Bucket
	src    Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.bucket.key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.bucket.key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, value []byte) error    { return s.src.Put(s.bucket.key(key), value) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.bucket.key(key)) }
func (s *bucketStore) NewBatch() Batch                { return &bucketBatch{s.bucket, s.src.NewBatch()} }

func (s *bucketStore) NewIterator(r Range) Iterator {
	rng := Range{From: s.bucket.key(r.From)}
	if len(r.To) == 0 {
		rng.To = prefixLimit([]byte(s.bucket))
	} else {
		rng.To = s.bucket.key(r.To)
	}
	return &bucketIterator{s.src.NewIterator(rng), len(s.bucket)}
}

type bucketBatch struct {
	bucket Bucket
	Batch
}

func (b *bucketBatch) Put(key, value []byte) error { return b.Batch.Put(b.bucket.key(key), value) }
func (b *bucketBatch) Delete(key []byte) error     { return b.Batch.Delete(b.bucket.key(key)) }

type bucketIterator struct {
	Iterator
	prefixLen int
}

func (i *bucketIterator) Key() []byte { return i.Iterator.Key()[i.prefixLen:] }

// prefixLimit returns the smallest key greater than every key with the given prefix.
func prefixLimit(prefix []byte) []byte {
	limit := make([]byte, len(prefix))
	copy(limit, prefix)
	for i := len(limit) - 1; i >= 0; i-- {
		if limit[i] < 0xff {
			limit[i]++
			return limit[:i+1]
		}
	}
	return nil
}
