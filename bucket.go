package buckethash

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotDeleted
)

type slot struct {
	state  slotState
	record Record
}

// Bucket 固定容量的槽数组, 只有下标小于Size()的槽被写过
// 删除只修改槽状态, Size()不会减小
type Bucket struct {
	slots    []slot
	capacity uint
}

func newBucket(capacity uint) Bucket {
	return Bucket{capacity: capacity}
}

func (b *Bucket) Size() uint {
	return uint(len(b.slots))
}

func (b *Bucket) Capacity() uint {
	return b.capacity
}

// IndexKey 查找存活记录所在的槽
func (b *Bucket) IndexKey(key Key) (uint, bool) {
	for i := range b.slots {
		if b.slots[i].state == slotOccupied && b.slots[i].record.Key == key {
			return uint(i), true
		}
	}
	return 0, false
}

// IndexFree 优先复用已删除的槽, 其次追加到末尾
func (b *Bucket) IndexFree() (uint, bool) {
	for i := range b.slots {
		if b.slots[i].state == slotDeleted {
			return uint(i), true
		}
	}
	if b.Size() < b.capacity {
		return b.Size(), true
	}
	return 0, false
}

// Record 返回存活记录, 已删除或未写过的槽返回false
func (b *Bucket) Record(index uint) (*Record, bool) {
	if index >= b.Size() || b.slots[index].state != slotOccupied {
		return nil, false
	}
	return &b.slots[index].record, true
}

func (b *Bucket) Deleted(index uint) bool {
	return index < b.Size() && b.slots[index].state == slotDeleted
}

// set 写入index处的槽, index只能是已写过的槽或Size()
func (b *Bucket) set(index uint, r Record) {
	if index == b.Size() {
		b.slots = append(b.slots, slot{})
	}
	b.slots[index] = slot{state: slotOccupied, record: r}
}

// remove 标记为已删除, 记录内容保留到槽被复用或清空
func (b *Bucket) remove(index uint) {
	b.slots[index].state = slotDeleted
}

func (b *Bucket) truncate() {
	b.slots = nil
}
