package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/shanxter/Agastya/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix   = "chkrec"
	chunkIdentityPrefix = "chkreci"
	chunkPubDatePrefix  = "chkrecp"
	identityHashPrefix  = "identfp"
	watermarkPrefix     = "srcwm"
)

// makeChunkKey generates a key for a content chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkIdentityKey generates a composite key for the identity index.
// Format: prefix:sourceIdentity:chunkIndex
func makeChunkIdentityKey(sourceIdentity string, chunkIndex int) []byte {
	prefix := chunkIdentityPrefix + ":" + sourceIdentity + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	buf := make([]byte, prefixSize+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort follows chunk order
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makePartialChunkIdentityKey generates a partial key for identity scans.
// Format: prefix:sourceIdentity:
func makePartialChunkIdentityKey(sourceIdentity string) []byte {
	return []byte(chunkIdentityPrefix + ":" + sourceIdentity + ":")
}

// makeChunkPubDateKey generates a composite key for the publication date index.
// Format: prefix:timestamp:id
func makeChunkPubDateKey(publishedAt time.Time, id core.ID) []byte {
	prefix := chunkPubDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(publishedAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialChunkPubDateKey generates a partial key for date range scans.
// Format: prefix:timestamp
func makePartialChunkPubDateKey(publishedAt time.Time) []byte {
	prefix := chunkPubDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	buf := make([]byte, prefixSize+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(publishedAt.UnixMicro()))
	return buf
}

// makeIdentityHashKey generates a key for a source identity fingerprint.
func makeIdentityHashKey(sourceIdentity string) []byte {
	return []byte(identityHashPrefix + ":" + sourceIdentity)
}

// makeWatermarkKey generates a key for a per-source ingestion watermark.
func makeWatermarkKey(source string) []byte {
	return []byte(watermarkPrefix + ":" + source)
}
