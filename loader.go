package buckethash

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

var ErrMalformedLine = errors.New("格式错误的记录行")

const maxLineSize = 1 << 20

// LoadStats 批量导入结果, 单行失败不会中断导入
type LoadStats struct {
	Inserted   int
	Duplicates int
	Full       int
	Malformed  int
}

// ParseLine 解析 "<key>,<name>,<subject1> <subject2> ..."
// 缺少第二个逗号时没有课程
func ParseLine(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	keyField, rest, ok := strings.Cut(line, ",")
	if !ok {
		return Record{}, errors.Wrapf(ErrMalformedLine, "缺少逗号: %q", line)
	}
	key, err := strconv.ParseUint(strings.TrimSpace(keyField), 10, 32)
	if err != nil {
		return Record{}, errors.Wrapf(ErrMalformedLine, "key无效: %q", keyField)
	}
	name, subjects, _ := strings.Cut(rest, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, errors.Wrapf(ErrMalformedLine, "姓名为空: %q", line)
	}
	return NewRecord(Key(key), name, strings.Fields(subjects)...), nil
}

// FillTable 第一行为表头, 跳过
func (h *HashTable) FillTable(reader io.Reader) (LoadStats, error) {
	var stats LoadStats
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := ParseLine(line)
		if err != nil {
			stats.Malformed++
			continue
		}
		switch err := h.Insert(r.Key, r); err {
		case nil:
			stats.Inserted++
		case ErrExist:
			stats.Duplicates++
		case ErrFull:
			stats.Full++
		default:
			return stats, err
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, errors.Wrap(err, "read failed")
	}
	return stats, nil
}

// LoadFile 以只读mmap方式读取文件后导入
func (h *HashTable) LoadFile(filename string) (stats LoadStats, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return LoadStats{}, errors.Wrap(err, "open file failed")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return LoadStats{}, errors.Wrap(err, "stat file failed")
	}
	// 空文件无法mmap
	if info.Size() == 0 {
		return LoadStats{}, nil
	}
	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return LoadStats{}, errors.Wrap(err, "mmap file failed")
	}
	defer func() {
		if uerr := m.Unmap(); uerr != nil && err == nil {
			err = errors.Wrap(uerr, "unmap failed")
		}
	}()
	return h.FillTable(bytes.NewReader(m))
}
