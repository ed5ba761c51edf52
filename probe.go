package buckethash

import (
	"encoding/binary"

	"github.com/dgryski/go-metro"
)

// ProbeFunction 计算第attempt次探测的候选地址, 结果由调用方对tableSize取模
// attempt从1开始, 0次探测即主地址
type ProbeFunction interface {
	Address(key Key, primary uint, attempt uint, tableSize uint) uint
}

// ProbeFunc 让普通函数满足ProbeFunction
type ProbeFunc func(key Key, primary uint, attempt uint, tableSize uint) uint

func (f ProbeFunc) Address(key Key, primary uint, attempt uint, tableSize uint) uint {
	return f(key, primary, attempt, tableSize)
}

// DoubleHashing 双重散列: primary + attempt*(q + key%p)
// p最好与tableSize互质(tableSize为2的幂, 即p取奇数), 否则探测序列覆盖不到所有bucket
type DoubleHashing struct {
	p uint
	q uint
}

func NewDoubleHashing(p, q uint) *DoubleHashing {
	return &DoubleHashing{p: p, q: q}
}

func (d *DoubleHashing) SetP(p uint) { d.p = p }
func (d *DoubleHashing) SetQ(q uint) { d.q = q }
func (d *DoubleHashing) P() uint     { return d.p }
func (d *DoubleHashing) Q() uint     { return d.q }

func (d *DoubleHashing) Address(key Key, primary uint, attempt uint, _ uint) uint {
	return primary + attempt*d.step(key)
}

// p为0时不参与计算, 步长退化为q
func (d *DoubleHashing) step(key Key) uint {
	if d.p == 0 {
		return d.q
	}
	return d.q + uint(key)%d.p
}

// LinearProbing 线性探测, 步长固定为1
type LinearProbing struct{}

func (LinearProbing) Address(_ Key, primary uint, attempt uint, _ uint) uint {
	return primary + attempt
}

// QuadraticProbing 三角数步长: primary + attempt*(attempt+1)/2
// tableSize为2的幂时可遍历全部bucket
type QuadraticProbing struct{}

func (QuadraticProbing) Address(_ Key, primary uint, attempt uint, _ uint) uint {
	return primary + attempt*(attempt+1)/2
}

// MetroProbing 以key的metro hash作为步长
type MetroProbing struct {
	Seed uint64
}

func (m MetroProbing) Address(key Key, primary uint, attempt uint, _ uint) uint {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(key))
	// 奇数步长与2的幂互质
	step := uint(metro.Hash64(buf[:], m.Seed)) | 1
	return primary + attempt*step
}
