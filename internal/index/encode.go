package index

import (
	"bytes"
	"encoding/binary"
)

// key = invTime(8) + 0x00 + slug; newest first, ties by slug. The sign bit is
// flipped before inverting so dates before 1970 still sort as older.
func makeTimeSlugKey(unixNano int64, slug string) []byte {
	buf := make([]byte, 8, 8+1+len(slug))
	binary.BigEndian.PutUint64(buf, ^(uint64(unixNano) + 1<<63))
	buf = append(buf, 0x00)
	buf = append(buf, slug...)
	return buf
}

func slugFromTimeSlugKey(k []byte) string {
	if len(k) < 8+2 || k[8] != 0x00 {
		return ""
	}
	return string(k[9:])
}

func makeIDValue(kind, slug string) []byte {
	buf := make([]byte, 0, len(kind)+1+len(slug))
	buf = append(buf, kind...)
	buf = append(buf, 0x00)
	buf = append(buf, slug...)
	return buf
}

func splitIDValue(v []byte) (kind, slug string, ok bool) {
	i := bytes.IndexByte(v, 0x00)
	if i < 0 {
		return "", "", false
	}
	return string(v[:i]), string(v[i+1:]), true
}
