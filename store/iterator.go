package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendBtree collects all items of the btree within [start, end) in
// ascending order. A nil boundary is open.
func ascendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendBtree collects all items of the btree within [start, end) in
// descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	items := ascendBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// mergedIterator joins the cached items with those of the parent store,
// taking into consideration overwrites and deletes.
type mergedIterator struct {
	items     []btree.Item
	idx       int
	parent    Iterator
	ascending bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(items []btree.Item, parentIter Iterator, ascending bool) (Iterator, error) {
	iter := &mergedIterator{
		items:     items,
		parent:    parentIter,
		ascending: ascending,
	}
	if err := iter.skipDeleted(); err != nil {
		iter.Close()
		return nil, err
	}
	return iter, nil
}

// Valid implements Iterator and returns true iff it can be read
func (i *mergedIterator) Valid() bool {
	return i.current() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *mergedIterator) Next() error {
	switch i.current() {
	case us:
		i.idx++
	case both:
		i.idx++
		if err := i.parent.Next(); err != nil {
			return err
		}
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		panic("advanced past the end")
	}
	return i.skipDeleted()
}

// Key returns the key of the cursor.
func (i *mergedIterator) Key() []byte {
	switch i.current() {
	case us, both:
		return i.items[i.idx].(keyer).Key()
	case parent:
		return i.parent.Key()
	default:
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (i *mergedIterator) Value() []byte {
	switch i.current() {
	case us, both:
		return i.items[i.idx].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (i *mergedIterator) Close() {
	i.parent.Close()
	i.items = nil
}

// skipDeleted fast forwards over all deleted items, together with the
// parent entries they shadow.
func (i *mergedIterator) skipDeleted() error {
	for {
		src := i.current()
		if src != us && src != both {
			return nil
		}
		if _, ok := i.items[i.idx].(deletedItem); !ok {
			return nil
		}
		i.idx++
		if src == both {
			if err := i.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// current selects the iterator holding the next key in the iteration
// order, if any.
func (i *mergedIterator) current() source {
	usValid := i.idx < len(i.items)
	parentValid := i.parent != nil && i.parent.Valid()
	switch {
	case !usValid && !parentValid:
		return none
	case !parentValid:
		return us
	case !usValid:
		return parent
	}

	cmp := bytes.Compare(i.items[i.idx].(keyer).Key(), i.parent.Key())
	if !i.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return us
	case cmp > 0:
		return parent
	default:
		return both
	}
}
