package graphstore

import (
	"encoding/binary"
	"math"
)

// encodeVector packs a float32 vector into a little-endian byte blob for
// SQLite storage. Nil and empty vectors encode to nil.
func encodeVector(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks a blob written by encodeVector. Blobs whose length
// is not a multiple of 4 decode to nil.
func decodeVector(data []byte) []float32 {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec
}

// floatList converts a vector to the []any form the bolt protocol accepts
// as a node property.
func floatList(vec []float32) []any {
	if len(vec) == 0 {
		return nil
	}
	list := make([]any, len(vec))
	for i, v := range vec {
		list[i] = float64(v)
	}
	return list
}

// toVector converts a bolt list property back to a float32 vector.
func toVector(v any) []float32 {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	vec := make([]float32, 0, len(list))
	for _, item := range list {
		f, ok := item.(float64)
		if !ok {
			return nil
		}
		vec = append(vec, float32(f))
	}
	return vec
}
