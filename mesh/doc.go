// Package mesh defines the mesh payload operations write into arena chunks.
//
// # Chunk Layout
//
//	header:    {f32 vertexCount, f32 triangleCount, f32 0, f32 0}
//	vertices:  vertexCount × {f32 x, f32 y, f32 z, f32 0}
//	triangles: triangleCount × {u16 i0, u16 i1, u16 i2}
//
// The header reuses the point record, so header and vertices share
// RecordSize. All values are little-endian. Triangles wind counter-clockwise.
//
// Chunk is a zero-copy view used by operations on the hot path. Mesh is a
// decoded Go value used by callers, exporters and tests.
package mesh
