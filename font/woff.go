package font

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zlib"
)

const (
	sigWOFF  = 0x774F4646 // wOFF
	sigWOFF2 = 0x774F4632 // wOF2
	sigTTF   = 0x00010000
)

type woffHeader struct {
	Signature      uint32
	Flavor         uint32
	Length         uint32
	NumTables      uint16
	Reserved       uint16
	TotalSfntSize  uint32
	MajorVersion   uint16
	MinorVersion   uint16
	MetaOffset     uint32
	MetaLength     uint32
	MetaOrigLength uint32
	PrivOffset     uint32
	PrivLength     uint32
}

type woffEntry struct {
	Tag          [4]byte
	Offset       uint32
	CompLength   uint32
	OrigLength   uint32
	OrigChecksum uint32
}

type woff2Header struct {
	Signature           uint32
	Flavor              uint32
	Length              uint32
	NumTables           uint16
	Reserved            uint16
	TotalSfntSize       uint32
	TotalCompressedSize uint32
	MajorVersion        uint16
	MinorVersion        uint16
	MetaOffset          uint32
	MetaLength          uint32
	MetaOrigLength      uint32
	PrivOffset          uint32
	PrivLength          uint32
}

const (
	woffHeaderSize  = 44
	woffEntrySize   = 20
	woff2HeaderSize = 48
)

// Tags with a one byte code in a WOFF2 table directory, by code
var woff2Tags = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post", "cvt ",
	"fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT", "EBLC", "gasp",
	"hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea", "vmtx", "BASE", "GDEF",
	"GPOS", "GSUB", "EBSC", "JSTF", "MATH", "CBDT", "CBLC", "COLR", "CPAL",
	"SVG ", "sbix", "acnt", "avar", "bdat", "bloc", "bsln", "cvar", "fdsc",
	"feat", "fmtx", "fvar", "gvar", "hsty", "just", "lcar", "mort", "morx",
	"opbd", "prop", "trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

// Directory flag for a tag spelled out in full
const woff2ExplicitTag = 63

// writeWOFF packs tables as WOFF 1.0, compressing each table with zlib when that
// makes it smaller.
func writeWOFF(tables map[string][]byte) ([]byte, error) {
	tags := sortedTags(tables)
	offset := woffHeaderSize + woffEntrySize*len(tags)

	var dir, data bytes.Buffer
	for _, tag := range tags {
		orig := tables[tag]
		stored := orig
		var z bytes.Buffer
		zw, err := zlib.NewWriterLevel(&z, zlib.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(orig); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		if z.Len() < len(orig) {
			stored = z.Bytes()
		}

		e := woffEntry{
			Offset:       uint32(offset + data.Len()),
			CompLength:   uint32(len(stored)),
			OrigLength:   uint32(len(orig)),
			OrigChecksum: tableChecksum(tag, orig),
		}
		copy(e.Tag[:], tag)
		_ = binary.Write(&dir, binary.BigEndian, e)

		data.Write(stored)
		for data.Len()%4 != 0 {
			data.WriteByte(0)
		}
	}

	h := woffHeader{
		Signature:     sigWOFF,
		Flavor:        sigTTF,
		Length:        uint32(offset + data.Len()),
		NumTables:     uint16(len(tags)),
		TotalSfntSize: uint32(sfntSize(tables)),
		MajorVersion:  1,
	}
	res := pack(h)
	res = append(res, dir.Bytes()...)
	return append(res, data.Bytes()...), nil
}

// writeWOFF2 packs tables as WOFF 2.0 with every table untransformed and the table
// data compressed as a single brotli stream.
func writeWOFF2(tables map[string][]byte) ([]byte, error) {
	tags := sortedTags(tables)

	var dir, stream bytes.Buffer
	for _, tag := range tags {
		flags := byte(woff2ExplicitTag)
		for i, t := range woff2Tags {
			if t == tag {
				flags = byte(i)
				break
			}
		}
		if tag == "glyf" || tag == "loca" {
			// Transform version 3 is the null transform for these two
			flags |= 3 << 6
		}
		dir.WriteByte(flags)
		if flags&0x3F == woff2ExplicitTag {
			dir.WriteString(tag)
		}
		dir.Write(base128(uint32(len(tables[tag]))))
		stream.Write(tables[tag])
	}

	var comp bytes.Buffer
	bw := brotli.NewWriterLevel(&comp, brotli.BestCompression)
	if _, err := bw.Write(stream.Bytes()); err != nil {
		return nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}

	length := pad4(woff2HeaderSize + dir.Len() + comp.Len())
	h := woff2Header{
		Signature:           sigWOFF2,
		Flavor:              sigTTF,
		Length:              uint32(length),
		NumTables:           uint16(len(tags)),
		TotalSfntSize:       uint32(sfntSize(tables)),
		TotalCompressedSize: uint32(comp.Len()),
		MajorVersion:        1,
	}
	res := pack(h)
	res = append(res, dir.Bytes()...)
	res = append(res, comp.Bytes()...)
	return append(res, make([]byte, length-len(res))...), nil
}

// base128 encodes v as a WOFF2 UIntBase128.
func base128(v uint32) []byte {
	var res []byte
	for {
		res = append([]byte{byte(v & 0x7F)}, res...)
		v >>= 7
		if v == 0 {
			break
		}
	}
	for i := 0; i < len(res)-1; i++ {
		res[i] |= 0x80
	}
	return res
}

// ReadTables returns the tables of a TrueType, WOFF or WOFF2 file. WOFF2 files must
// use null transforms, as written by this package.
func ReadTables(data []byte) (map[string][]byte, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("font data too short")
	}
	switch binary.BigEndian.Uint32(data) {
	case sigTTF:
		return readSFNT(data)
	case sigWOFF:
		return readWOFF(data)
	case sigWOFF2:
		return readWOFF2(data)
	}
	return nil, fmt.Errorf("unknown font signature %q", data[:4])
}

func slice(data []byte, off, n uint32) ([]byte, error) {
	end := uint64(off) + uint64(n)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("table at %d+%d past end of data", off, n)
	}
	return data[off:end], nil
}

func readWOFF(data []byte) (map[string][]byte, error) {
	var h woffHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return nil, err
	}
	r := bytes.NewReader(data[woffHeaderSize:])
	res := make(map[string][]byte, h.NumTables)
	for i := 0; i < int(h.NumTables); i++ {
		var e woffEntry
		if err := binary.Read(r, binary.BigEndian, &e); err != nil {
			return nil, fmt.Errorf("reading table directory: %w", err)
		}
		b, err := slice(data, e.Offset, e.CompLength)
		if err != nil {
			return nil, err
		}
		if e.CompLength < e.OrigLength {
			zr, err := zlib.NewReader(bytes.NewReader(b))
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", e.Tag[:], err)
			}
			if b, err = io.ReadAll(zr); err != nil {
				return nil, fmt.Errorf("table %q: %w", e.Tag[:], err)
			}
		}
		if uint32(len(b)) != e.OrigLength {
			return nil, fmt.Errorf("table %q: %d bytes, want %d", e.Tag[:], len(b), e.OrigLength)
		}
		res[string(e.Tag[:])] = b
	}
	return res, nil
}

func readWOFF2(data []byte) (map[string][]byte, error) {
	var h woff2Header
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return nil, err
	}

	type entry struct {
		tag    string
		length uint32
	}
	var entries []entry
	pos := woff2HeaderSize
	for i := 0; i < int(h.NumTables); i++ {
		if pos >= len(data) {
			return nil, fmt.Errorf("truncated table directory")
		}
		flags := data[pos]
		pos++
		var tag string
		if idx := int(flags & 0x3F); idx == woff2ExplicitTag {
			if pos+4 > len(data) {
				return nil, fmt.Errorf("truncated table directory")
			}
			tag = string(data[pos : pos+4])
			pos += 4
		} else if idx < len(woff2Tags) {
			tag = woff2Tags[idx]
		} else {
			return nil, fmt.Errorf("unknown table code %d", idx)
		}
		version := flags >> 6
		nullTransform := version == 0
		if tag == "glyf" || tag == "loca" {
			nullTransform = version == 3
		}
		if !nullTransform {
			return nil, fmt.Errorf("table %q: transformed tables are not supported", tag)
		}
		length, n, err := readBase128(data[pos:])
		if err != nil {
			return nil, err
		}
		pos += n
		entries = append(entries, entry{tag, length})
	}

	comp, err := slice(data, uint32(pos), h.TotalCompressedSize)
	if err != nil {
		return nil, err
	}
	stream, err := io.ReadAll(brotli.NewReader(bytes.NewReader(comp)))
	if err != nil {
		return nil, fmt.Errorf("decompressing tables: %w", err)
	}

	res := make(map[string][]byte, len(entries))
	var off uint32
	for _, e := range entries {
		b, err := slice(stream, off, e.length)
		if err != nil {
			return nil, err
		}
		res[e.tag] = b
		off += e.length
	}
	return res, nil
}

func readBase128(data []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < 5 && i < len(data); i++ {
		b := data[i]
		if i == 0 && b == 0x80 {
			return 0, 0, fmt.Errorf("base128 value with leading zeros")
		}
		if v&0xFE000000 != 0 {
			return 0, 0, fmt.Errorf("base128 value overflows")
		}
		v = v<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("truncated base128 value")
}
