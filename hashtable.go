package buckethash

import (
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// MaxBits bucket数量上限为1<<MaxBits
const MaxBits = 30

var ErrFull = errors.New("探测序列上没有空槽")
var ErrExist = errors.New("相同记录已存在")
var ErrNotExist = errors.New("未找到记录")
var ErrInvalidCapacity = errors.New("bucket容量必须大于0")
var ErrInvalidBits = errors.Errorf("bit数必须在0到%d之间", MaxBits)
var ErrClosed = errors.New("散列表已关闭")

// HashTable 分桶散列表, 主地址为key%bucketNum, 冲突时交给ProbeFunction探测其他bucket
// 非并发安全, 需要时使用SyncTable
type HashTable struct {
	table Table
	probe ProbeFunction
}

// New 创建1<<bits个容量为bucketCapacity的bucket
// probe为nil时只使用主地址
func New(bucketCapacity int, bits int, probe ProbeFunction) (*HashTable, error) {
	if bucketCapacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "bucketCapacity=%d", bucketCapacity)
	}
	if bits < 0 || bits > MaxBits {
		return nil, errors.Wrapf(ErrInvalidBits, "bits=%d", bits)
	}
	return NewWithTable(NewMemTable(uint(1)<<uint(bits), uint(bucketCapacity)), probe)
}

// NewWithTable bucket数量必须是2的幂, 容量大于0
func NewWithTable(table Table, probe ProbeFunction) (*HashTable, error) {
	num := table.BucketNum()
	if num == 0 || num&(num-1) != 0 || num > 1<<MaxBits {
		return nil, errors.Wrapf(ErrInvalidBits, "bucketNum=%d", num)
	}
	if table.BucketCapacity() == 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "bucketCapacity=%d", table.BucketCapacity())
	}
	return &HashTable{table: table, probe: probe}, nil
}

// Close 之后Insert返回ErrClosed, 查找均失败
func (h *HashTable) Close() error {
	return h.table.Close()
}

func (h *HashTable) closed() bool {
	return h.table.BucketNum() == 0
}

func (h *HashTable) hash(key Key) uint {
	return uint(key) % h.table.BucketNum()
}

// address 第attempt次探测的bucket
func (h *HashTable) address(key Key, primary uint, attempt uint) uint {
	num := h.table.BucketNum()
	return h.probe.Address(key, primary, attempt, num) % num
}

// Find 返回记录的视图, 在下一次修改操作前有效
func (h *HashTable) Find(key Key) (*Record, bool) {
	r, _, _ := h.find(key)
	return r, r != nil
}

func (h *HashTable) find(key Key) (*Record, uint, uint) {
	if h.closed() {
		return nil, 0, 0
	}
	primary := h.hash(key)
	if i, ok := h.table.Bucket(primary).IndexKey(key); ok {
		r, _ := h.table.Bucket(primary).Record(i)
		return r, primary, i
	}
	if h.probe == nil {
		return nil, 0, 0
	}
	num := h.table.BucketNum()
	address := primary
	// 遇到从未写过的bucket即停止, 插入时探测路径上的bucket一定先被填满
	for attempt := uint(1); h.table.Bucket(address).Size() != 0 && attempt <= num; attempt++ {
		address = h.address(key, primary, attempt)
		bucket := h.table.Bucket(address)
		if i, ok := bucket.IndexKey(key); ok {
			r, _ := bucket.Record(i)
			return r, address, i
		}
	}
	return nil, 0, 0
}

func (h *HashTable) insert(index uint, r Record) bool {
	bucket := h.table.Bucket(index)
	if slot, ok := bucket.IndexFree(); ok {
		bucket.set(slot, r)
		h.table.IncrCount()
		return true
	}
	return false
}

// Insert 保存record的深拷贝, 记录的Key以参数key为准
func (h *HashTable) Insert(key Key, record Record) error {
	if h.closed() {
		return ErrClosed
	}
	if _, ok := h.Find(key); ok {
		return ErrExist
	}
	r := record.Clone()
	r.Key = key

	primary := h.hash(key)
	if h.insert(primary, r) {
		return nil
	}
	if h.probe == nil {
		return ErrFull
	}
	num := h.table.BucketNum()
	for attempt := uint(1); attempt <= num; attempt++ {
		if h.insert(h.address(key, primary, attempt), r) {
			return nil
		}
	}
	return ErrFull
}

// Delete 只标记槽为已删除, bucket大小不变, 槽可被之后的Insert复用
func (h *HashTable) Delete(key Key) error {
	r, index, slot := h.find(key)
	if r == nil {
		return ErrNotExist
	}
	h.table.Bucket(index).remove(slot)
	h.table.DecrCount()
	return nil
}

func (h *HashTable) AddSubject(key Key, subject string) error {
	r, ok := h.Find(key)
	if !ok {
		return ErrNotExist
	}
	r.addSubject(subject)
	return nil
}

// RemoveSubject 删除该记录中所有等于subject的项, 返回删除数量
func (h *HashTable) RemoveSubject(key Key, subject string) (int, error) {
	r, ok := h.Find(key)
	if !ok {
		return 0, ErrNotExist
	}
	return r.removeSubject(subject), nil
}

func (h *HashTable) Clear() error {
	if err := h.table.Truncate(); err != nil {
		return errors.Wrap(err, "clear failed")
	}
	return nil
}

func (h *HashTable) KeyCount() int {
	return int(h.table.Count())
}

func (h *HashTable) TableSize() int {
	return int(h.table.BucketNum())
}

func (h *HashTable) BucketCapacity() int {
	return int(h.table.BucketCapacity())
}

// FillRatio 存活记录占总槽数的比例, 已删除的槽不计入
func (h *HashTable) FillRatio() float64 {
	if h.closed() {
		return 0
	}
	return float64(h.table.Count()) / float64(h.table.BucketNum()*h.table.BucketCapacity())
}

// Range 按bucket顺序遍历存活记录, fn返回false时停止
func (h *HashTable) Range(fn func(r *Record) bool) {
	for i := uint(0); i < h.table.BucketNum(); i++ {
		bucket := h.table.Bucket(i)
		for j := uint(0); j < bucket.Size(); j++ {
			if r, ok := bucket.Record(j); ok && !fn(r) {
				return
			}
		}
	}
}

func (h *HashTable) Dump(w io.Writer) error {
	return h.table.Encode(w)
}

// Digest 存活记录及其位置的xxhash
func (h *HashTable) Digest() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for i := uint(0); i < h.table.BucketNum(); i++ {
		bucket := h.table.Bucket(i)
		for j := uint(0); j < bucket.Size(); j++ {
			r, ok := bucket.Record(j)
			if !ok {
				continue
			}
			binary.LittleEndian.PutUint32(buf[:4], uint32(i))
			binary.LittleEndian.PutUint32(buf[4:], uint32(r.Key))
			_, _ = d.Write(buf[:])
			_, _ = d.WriteString(r.Name)
			for _, s := range r.Subjects {
				_, _ = d.Write([]byte{0})
				_, _ = d.WriteString(s)
			}
			_, _ = d.Write([]byte{'\n'})
		}
	}
	return d.Sum64()
}
