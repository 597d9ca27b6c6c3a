// Copyright 2025 ZoomRx, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/shanxter/Agastya/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalChunk serializes a ContentChunk to bytes.
func MarshalChunk(chunk *core.ContentChunk) []byte {
	buf := make([]byte, core.ContentChunkMUS.Size(*chunk))
	core.ContentChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a ContentChunk from bytes.
func UnmarshalChunk(data []byte) (*core.ContentChunk, error) {
	chunk, _, err := core.ContentChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalWatermark serializes a Watermark to bytes.
func MarshalWatermark(wm *core.Watermark) []byte {
	buf := make([]byte, core.WatermarkMUS.Size(*wm))
	core.WatermarkMUS.Marshal(*wm, buf)
	return buf
}

// UnmarshalWatermark deserializes a Watermark from bytes.
func UnmarshalWatermark(data []byte) (*core.Watermark, error) {
	wm, _, err := core.WatermarkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &wm, nil
}
