package cursor

import (
	"bufio"
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"slices"
	"time"

	"deedles.dev/ximage/format"
)

var (
	// ErrBadMagic indicates an unrecognized magic number when
	// attempting to load a cursor.
	ErrBadMagic = errors.New("bad magic")

	// ErrNoImages is returned when a cursor file contains no images.
	ErrNoImages = errors.New("no images")
)

const (
	fileMagic = 0x72756358 // ASCII "Xcur"

	chunkComment = 0xFFFE0001
	chunkImage   = 0xFFFD0002

	imageHeaderLen   = 36
	commentHeaderLen = 20

	// Anything bigger is rejected by libXcursor as well.
	maxImageSize = 0x7FFF
)

type decoder struct {
	r    io.Reader
	br   *bufio.Reader
	n    int
	err  error
	size int
}

// DecodeFile decodes the cursor file at path. See Decode.
func DecodeFile(path string, size int) (*Cursor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	return Decode(file, size)
}

// Decode decodes an Xcursor file. A file usually holds images at
// several nominal sizes. Only the images whose nominal size is closest
// to size are decoded, one per frame of the cursor's animation.
func Decode(r io.Reader, size int) (*Cursor, error) {
	if size <= 0 {
		size = DefaultSize
	}

	d := decoder{
		r:    r,
		br:   bufio.NewReader(r),
		size: size,
	}
	return d.Decode()
}

func (d *decoder) Decode() (c *Cursor, err error) {
	if d.err != nil {
		return nil, d.err
	}

	defer d.catch(&err)

	tocs := d.header()
	best, ok := bestSize(tocs, d.size)
	if !ok {
		d.throw(ErrNoImages)
	}

	// The reader can only move forwards.
	slices.SortFunc(tocs, func(t1, t2 fileToc) int { return cmp.Compare(t1.Position, t2.Position) })

	cur := new(Cursor)
	for _, toc := range tocs {
		switch toc.Type {
		case chunkComment:
			d.SeekTo(int(toc.Position))
			cur.Comments = append(cur.Comments, d.comment(toc))

		case chunkImage:
			if toc.Subtype != best {
				continue
			}
			d.SeekTo(int(toc.Position))
			cur.Images = append(cur.Images, d.image(toc))
		}
	}

	return cur, nil
}

func (d *decoder) header() []fileToc {
	magic := d.uint32()
	if magic != fileMagic {
		d.throw(ErrBadMagic)
	}
	hsize := d.uint32()
	d.uint32() // Version.
	ntoc := int(d.uint32())
	d.SeekTo(int(hsize))

	tocs := make([]fileToc, 0, ntoc)
	for i := 0; i < ntoc; i++ {
		tocs = append(tocs, fileToc{
			Type:     d.uint32(),
			Subtype:  d.uint32(),
			Position: d.uint32(),
		})
	}

	return tocs
}

// chunkHeader reads the header shared by every chunk and checks it
// against toc. It returns the length of the chunk's header.
func (d *decoder) chunkHeader(toc fileToc) int {
	hsize := d.uint32()
	typ := d.uint32()
	subtype := d.uint32()
	d.uint32() // Version.

	if (typ != toc.Type) || (subtype != toc.Subtype) {
		d.throw(fmt.Errorf("chunk at %v does not match table of contents", toc.Position))
	}
	return int(hsize)
}

func (d *decoder) image(toc fileToc) *Image {
	hsize := d.chunkHeader(toc)
	if hsize < imageHeaderLen {
		d.throw(fmt.Errorf("image header too short: %v", hsize))
	}

	width := int(d.uint32())
	height := int(d.uint32())
	xhot := int(d.uint32())
	yhot := int(d.uint32())
	delay := d.uint32()
	d.SeekTo(int(toc.Position) + hsize)

	if (width > maxImageSize) || (height > maxImageSize) {
		d.throw(fmt.Errorf("image too large: %vx%v", width, height))
	}
	if (xhot > width) || (yhot > height) {
		d.throw(fmt.Errorf("hotspot %v,%v outside of %vx%v image", xhot, yhot, width, height))
	}

	// Pixels are stored as little-endian, premultiplied ARGB, which
	// is the same layout as shm buffers use.
	pix := make([]byte, width*height*4)
	_, err := io.ReadFull(d, pix)
	d.throw(err)

	return &Image{
		NominalSize: int(toc.Subtype),
		XHot:        xhot,
		YHot:        yhot,
		Delay:       time.Duration(delay) * time.Millisecond,
		Image: &format.Image{
			Format: format.ARGB8888,
			Rect:   image.Rect(0, 0, width, height),
			Pix:    pix,
		},
	}
}

func (d *decoder) comment(toc fileToc) *Comment {
	hsize := d.chunkHeader(toc)
	if hsize < commentHeaderLen {
		d.throw(fmt.Errorf("comment header too short: %v", hsize))
	}

	length := d.uint32()
	d.SeekTo(int(toc.Position) + hsize)

	buf := make([]byte, length)
	_, err := io.ReadFull(d, buf)
	d.throw(err)

	return &Comment{
		Subtype: CommentSubtype(toc.Subtype),
		Comment: string(buf),
	}
}

// bestSize returns the nominal size of the images in tocs that is
// closest to size.
func bestSize(tocs []fileToc, size int) (best uint32, ok bool) {
	dist := func(v uint32) int {
		d := int(v) - size
		if d < 0 {
			return -d
		}
		return d
	}

	for _, toc := range tocs {
		if toc.Type != chunkImage {
			continue
		}
		if !ok || (dist(toc.Subtype) < dist(best)) {
			best, ok = toc.Subtype, true
		}
	}
	return best, ok
}

func (d *decoder) uint32() (v uint32) {
	d.throw(binary.Read(d, binary.LittleEndian, &v))
	return v
}

func (d *decoder) Read(buf []byte) (int, error) {
	n, err := d.br.Read(buf)
	d.n += n
	if errors.Is(err, io.EOF) {
		return n, err
	}
	d.throw(err)
	return n, err
}

func (d *decoder) Discard(n int) (int, error) {
	disc, err := d.br.Discard(n)
	d.throw(err)
	d.n += disc
	return disc, err
}

func (d *decoder) SeekTo(n int) error {
	diff := n - d.n
	if diff < 0 {
		d.throw(fmt.Errorf("seek backwards from %v to %v", d.n, n))
	}
	if diff == 0 {
		return nil
	}

	s, ok := d.r.(io.Seeker)
	if !ok || (diff <= d.br.Buffered()) {
		_, err := d.Discard(diff)
		d.throw(err)
		return nil
	}

	_, err := s.Seek(int64(n), io.SeekStart)
	d.throw(err)
	d.br.Reset(d.r)
	d.n = n
	return nil
}

type fileToc struct {
	Type     uint32
	Subtype  uint32
	Position uint32
}

type decoderError struct {
	err error
}

func (d *decoder) throw(err error) {
	if err != nil {
		panic(decoderError{err: err})
	}
}

func (d *decoder) catch(err *error) {
	switch r := recover().(type) {
	case decoderError:
		*err = r.err
		d.err = r.err
	case nil:
		if d.err != nil {
			*err = d.err
		}
	default:
		panic(r)
	}
}
