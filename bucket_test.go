package buckethash

import "testing"

func TestBucket_IndexFree(t *testing.T) {
	b := newBucket(2)
	if i, ok := b.IndexFree(); !ok || i != 0 {
		t.Fatalf("空bucket应返回槽0, i=%d, ok=%v", i, ok)
	}
	b.set(0, NewRecord(1, "a"))
	b.set(1, NewRecord(2, "b"))
	if _, ok := b.IndexFree(); ok {
		t.Errorf("满bucket不应有空槽")
	}
	b.remove(1)
	if b.Size() != 2 {
		t.Errorf("删除后Size()=%d!=2", b.Size())
	}
	if i, ok := b.IndexFree(); !ok || i != 1 {
		t.Errorf("应复用已删除的槽1, i=%d, ok=%v", i, ok)
	}
}

func TestBucket_IndexKey(t *testing.T) {
	b := newBucket(3)
	b.set(0, NewRecord(7, "a"))
	b.set(1, NewRecord(9, "b"))
	if i, ok := b.IndexKey(9); !ok || i != 1 {
		t.Errorf("IndexKey(9)应为1, i=%d, ok=%v", i, ok)
	}
	b.remove(0)
	if _, ok := b.IndexKey(7); ok {
		t.Errorf("已删除的记录不应匹配")
	}
	if _, ok := b.Record(0); ok {
		t.Errorf("Record(0)应返回false")
	}
	if !b.Deleted(0) || b.Deleted(1) || b.Deleted(2) {
		t.Errorf("Deleted状态不匹配")
	}
	// 已删除槽的内容保留
	if b.slots[0].record.Key != 7 {
		t.Errorf("删除不应清除槽内容")
	}
	if _, ok := b.Record(2); ok {
		t.Errorf("未写过的槽不可见")
	}
	// 复用后覆盖
	b.set(0, NewRecord(11, "c"))
	if r, ok := b.Record(0); !ok || r.Key != 11 || b.Size() != 2 {
		t.Errorf("复用槽0失败")
	}
}
