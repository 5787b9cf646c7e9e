package vectorstore

import "github.com/google/uuid"

// pointNamespace seeds deterministic point IDs for chunk keys.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("graphrag.chunk"))

// PointID derives the vector point ID for a chunk. Qdrant accepts only UUID
// or integer point IDs, so the readable chunk ID is hashed into a stable
// UUIDv5 and travels in the payload instead. The same chunk ID always maps
// to the same point, which is what makes re-ingestion an upsert.
func PointID(chunkID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(chunkID)).String()
}
