package buckethash

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

type Table interface {
	// 获取指定索引位置的Bucket
	Bucket(index uint) *Bucket
	BucketNum() uint
	BucketCapacity() uint
	// 以文本形式输出所有bucket
	Encode(io.Writer) error
	// 存活记录数量
	IncrCount()
	DecrCount()
	Count() uint
	// 清空数据
	Truncate() error
	io.Closer
}

type MemTable struct {
	buckets   []Bucket
	bucketNum uint
	capacity  uint
	count     uint
}

func NewMemTable(bucketNum uint, capacity uint) *MemTable {
	t := &MemTable{bucketNum: bucketNum, capacity: capacity}
	t.buckets = make([]Bucket, bucketNum)
	for i := range t.buckets {
		t.buckets[i] = newBucket(capacity)
	}
	return t
}

// Truncate 清空所有bucket, 容量不变
func (t *MemTable) Truncate() error {
	for i := range t.buckets {
		t.buckets[i].truncate()
	}
	t.count = 0
	return nil
}

func (t *MemTable) Bucket(index uint) *Bucket {
	return &t.buckets[index]
}

func (t *MemTable) BucketNum() uint {
	return t.bucketNum
}

func (t *MemTable) BucketCapacity() uint {
	return t.capacity
}

func (t *MemTable) IncrCount() {
	t.count++
}

func (t *MemTable) DecrCount() {
	t.count--
}

func (t *MemTable) Count() uint {
	return t.count
}

// Close 释放所有bucket, 之后BucketNum()为0
func (t *MemTable) Close() error {
	t.buckets = []Bucket{}
	t.bucketNum = 0
	t.capacity = 0
	t.count = 0
	return nil
}

// Encode 每个bucket一行, 已删除的槽输出DELETED, 空bucket输出EMPTY
func (t *MemTable) Encode(writer io.Writer) error {
	w := bufio.NewWriter(writer)
	for i := range t.buckets {
		if err := encodeBucket(w, &t.buckets[i]); err != nil {
			return errors.Wrapf(err, "encode bucket %d failed", i)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "encode failed")
	}
	return nil
}

func encodeBucket(w *bufio.Writer, b *Bucket) error {
	if b.Size() == 0 {
		_, err := w.WriteString("EMPTY\n")
		return err
	}
	for j := uint(0); j < b.Size(); j++ {
		if j > 0 {
			if _, err := w.WriteString(" | "); err != nil {
				return err
			}
		}
		var err error
		if r, ok := b.Record(j); ok {
			_, err = w.WriteString(r.String())
		} else {
			_, err = w.WriteString("DELETED")
		}
		if err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
