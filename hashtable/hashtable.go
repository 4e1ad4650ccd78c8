package hashtable

import (
	"sync"
)

// a bucketed hash table keyed by small integer ids (pids). lookups,
// inserts, and deletes from different buckets do not contend.

type elem_t struct {
	key   int
	value interface{}
	next  *elem_t
}

type bucket_t struct {
	sync.Mutex
	first *elem_t
}

type Hashtable_t struct {
	table []*bucket_t
}

func MkHash(size int) *Hashtable_t {
	ht := &Hashtable_t{}
	ht.table = make([]*bucket_t, size)
	for i := range ht.table {
		ht.table[i] = &bucket_t{}
	}
	return ht
}

func (ht *Hashtable_t) bucket(key int) *bucket_t {
	h := uint(key) * 2654435761
	return ht.table[h%uint(len(ht.table))]
}

func (ht *Hashtable_t) Get(key int) (interface{}, bool) {
	b := ht.bucket(key)
	b.Lock()
	defer b.Unlock()
	for e := b.first; e != nil; e = e.next {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

func (ht *Hashtable_t) Set(key int, value interface{}) {
	b := ht.bucket(key)
	b.Lock()
	defer b.Unlock()
	for e := b.first; e != nil; e = e.next {
		if e.key == key {
			e.value = value
			return
		}
	}
	b.first = &elem_t{key: key, value: value, next: b.first}
}

func (ht *Hashtable_t) Del(key int) {
	b := ht.bucket(key)
	b.Lock()
	defer b.Unlock()
	var prev *elem_t
	for e := b.first; e != nil; e = e.next {
		if e.key == key {
			if prev != nil {
				prev.next = e.next
			} else {
				b.first = e.next
			}
			return
		}
		prev = e
	}
}

// Iter may execute concurrently with lookups, inserts, and deletes in
// other buckets.
func (ht *Hashtable_t) Iter(f func(int, interface{}) bool) {
	for _, b := range ht.table {
		b.Lock()
		for e := b.first; e != nil; e = e.next {
			if !f(e.key, e.value) {
				b.Unlock()
				return
			}
		}
		b.Unlock()
	}
}
