package buckethash

import (
	"math"
	"strconv"
	"strings"
)

type Key uint32

// MaxKey 不再作为删除标记保留, 槽位状态单独记录
const MaxKey Key = math.MaxUint32

// Record 学生记录
type Record struct {
	Key      Key
	Name     string
	Subjects []string
}

func NewRecord(key Key, name string, subjects ...string) Record {
	return Record{Key: key, Name: name, Subjects: subjects}
}

// Clone 深拷贝, 包括Subjects
func (r *Record) Clone() Record {
	c := Record{Key: r.Key, Name: r.Name}
	if r.Subjects != nil {
		c.Subjects = make([]string, len(r.Subjects))
		copy(c.Subjects, r.Subjects)
	}
	return c
}

func (r *Record) Equal(o *Record) bool {
	if r.Key != o.Key || r.Name != o.Name || len(r.Subjects) != len(o.Subjects) {
		return false
	}
	for i := range r.Subjects {
		if r.Subjects[i] != o.Subjects[i] {
			return false
		}
	}
	return true
}

func (r *Record) addSubject(subject string) {
	r.Subjects = append(r.Subjects, subject)
}

// removeSubject 删除所有等于subject的项, 其余保持原顺序
func (r *Record) removeSubject(subject string) int {
	w := 0
	for _, s := range r.Subjects {
		if s != subject {
			r.Subjects[w] = s
			w++
		}
	}
	removed := len(r.Subjects) - w
	for i := w; i < len(r.Subjects); i++ {
		r.Subjects[i] = ""
	}
	r.Subjects = r.Subjects[:w]
	return removed
}

func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(r.Key), 10))
	sb.WriteString(", ")
	sb.WriteString(r.Name)
	sb.WriteString(",")
	for _, s := range r.Subjects {
		sb.WriteByte(' ')
		sb.WriteString(s)
	}
	return sb.String()
}
