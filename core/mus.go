package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types that cross the storage boundary.
// Field order is part of the on-disk format; append new fields, never
// reorder existing ones.

var (
	IDMUS           = idMUS{}
	ContentChunkMUS = contentChunkMUS{}
	WatermarkMUS    = watermarkMUS{}

	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
	timeMUS   = timeMicroMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int { return varint.Uint64.Marshal(uint64(id), bs) }

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int { return varint.Uint64.Size(uint64(id)) }

func (idMUS) Skip(bs []byte) (int, error) { return varint.Uint64.Skip(bs) }

// timeMicroMUS encodes a time.Time as a presence flag plus microseconds
// since the Unix epoch. The flag keeps zero times round-trippable, which
// plain UnixMicro is not.
type timeMicroMUS struct{}

func (timeMicroMUS) Marshal(t time.Time, bs []byte) (n int) {
	if t.IsZero() {
		return ord.Bool.Marshal(false, bs)
	}
	n = ord.Bool.Marshal(true, bs)
	n += varint.Int64.Marshal(t.UnixMicro(), bs[n:])
	return
}

func (timeMicroMUS) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return
	}
	micro, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func (timeMicroMUS) Size(t time.Time) int {
	if t.IsZero() {
		return ord.Bool.Size(false)
	}
	return ord.Bool.Size(true) + varint.Int64.Size(t.UnixMicro())
}

func (timeMicroMUS) Skip(bs []byte) (n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return
	}
	n1, err := varint.Int64.Skip(bs[n:])
	n += n1
	return
}

type contentChunkMUS struct{}

var _ mus.Serializer[ContentChunk] = contentChunkMUS{}

func (contentChunkMUS) Marshal(c ContentChunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.Id, bs)
	n += ord.String.Marshal(c.SourceIdentity, bs[n:])
	n += varint.Int.Marshal(c.ChunkIndex, bs[n:])
	n += ord.String.Marshal(c.Source, bs[n:])
	n += ord.String.Marshal(c.Title, bs[n:])
	n += ord.String.Marshal(c.URL, bs[n:])
	n += timeMUS.Marshal(c.PublishedAt, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += varint.Uint64.Marshal(c.TextHash, bs[n:])
	n += vectorMUS.Marshal(c.Vector, bs[n:])
	n += timeMUS.Marshal(c.IngestedAt, bs[n:])
	return
}

func (contentChunkMUS) Unmarshal(bs []byte) (c ContentChunk, n int, err error) {
	var n1 int
	if c.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if c.SourceIdentity, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Source, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.URL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.PublishedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.TextHash, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.IngestedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	return c, n, nil
}

func (contentChunkMUS) Size(c ContentChunk) (size int) {
	size = IDMUS.Size(c.Id)
	size += ord.String.Size(c.SourceIdentity)
	size += varint.Int.Size(c.ChunkIndex)
	size += ord.String.Size(c.Source)
	size += ord.String.Size(c.Title)
	size += ord.String.Size(c.URL)
	size += timeMUS.Size(c.PublishedAt)
	size += ord.String.Size(c.Text)
	size += varint.Uint64.Size(c.TextHash)
	size += vectorMUS.Size(c.Vector)
	size += timeMUS.Size(c.IngestedAt)
	return
}

func (contentChunkMUS) Skip(bs []byte) (n int, err error) {
	skips := []func([]byte) (int, error){
		IDMUS.Skip,
		ord.String.Skip,
		varint.Int.Skip,
		ord.String.Skip,
		ord.String.Skip,
		ord.String.Skip,
		timeMUS.Skip,
		ord.String.Skip,
		varint.Uint64.Skip,
		vectorMUS.Skip,
		timeMUS.Skip,
	}
	var n1 int
	for _, skip := range skips {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return
}

// Watermark records, per document source, the publication instant up to
// which documents have already been fetched.
type Watermark struct {
	Source    string
	Position  time.Time
	UpdatedAt time.Time
}

type watermarkMUS struct{}

var _ mus.Serializer[Watermark] = watermarkMUS{}

func (watermarkMUS) Marshal(w Watermark, bs []byte) (n int) {
	n = ord.String.Marshal(w.Source, bs)
	n += timeMUS.Marshal(w.Position, bs[n:])
	n += timeMUS.Marshal(w.UpdatedAt, bs[n:])
	return
}

func (watermarkMUS) Unmarshal(bs []byte) (w Watermark, n int, err error) {
	var n1 int
	if w.Source, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if w.Position, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return w, n + n1, err
	}
	n += n1
	if w.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return w, n + n1, err
	}
	n += n1
	return w, n, nil
}

func (watermarkMUS) Size(w Watermark) int {
	return ord.String.Size(w.Source) + timeMUS.Size(w.Position) + timeMUS.Size(w.UpdatedAt)
}

func (watermarkMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	if n1, err = timeMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = timeMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	return
}
