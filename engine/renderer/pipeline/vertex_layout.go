package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormatSizes maps each vertex attribute format to its size in bytes.
var vertexFormatSizes = map[wgpu.VertexFormat]uint64{
	wgpu.VertexFormatUint8x2:   2,
	wgpu.VertexFormatUint8x4:   4,
	wgpu.VertexFormatSint8x2:   2,
	wgpu.VertexFormatSint8x4:   4,
	wgpu.VertexFormatUnorm8x2:  2,
	wgpu.VertexFormatUnorm8x4:  4,
	wgpu.VertexFormatSnorm8x2:  2,
	wgpu.VertexFormatSnorm8x4:  4,
	wgpu.VertexFormatUint16x2:  4,
	wgpu.VertexFormatUint16x4:  8,
	wgpu.VertexFormatSint16x2:  4,
	wgpu.VertexFormatSint16x4:  8,
	wgpu.VertexFormatUnorm16x2: 4,
	wgpu.VertexFormatUnorm16x4: 8,
	wgpu.VertexFormatSnorm16x2: 4,
	wgpu.VertexFormatSnorm16x4: 8,
	wgpu.VertexFormatFloat16x2: 4,
	wgpu.VertexFormatFloat16x4: 8,
	wgpu.VertexFormatFloat32:   4,
	wgpu.VertexFormatFloat32x2: 8,
	wgpu.VertexFormatFloat32x3: 12,
	wgpu.VertexFormatFloat32x4: 16,
	wgpu.VertexFormatUint32:    4,
	wgpu.VertexFormatUint32x2:  8,
	wgpu.VertexFormatUint32x3:  12,
	wgpu.VertexFormatUint32x4:  16,
	wgpu.VertexFormatSint32:    4,
	wgpu.VertexFormatSint32x2:  8,
	wgpu.VertexFormatSint32x3:  12,
	wgpu.VertexFormatSint32x4:  16,
}

// VertexFormatSize returns the size in bytes of one attribute of the given format.
//
// Parameters:
//   - format: the vertex attribute format
//
// Returns:
//   - uint64: the attribute size in bytes
//   - bool: false for an unknown format
func VertexFormatSize(format wgpu.VertexFormat) (uint64, bool) {
	size, ok := vertexFormatSizes[format]
	return size, ok
}

// VertexLayout builds a tightly packed vertex buffer layout. Attribute i gets @location(firstLocation+i)
// and starts where attribute i-1 ends. The stride is the sum of the attribute sizes.
//
// Parameters:
//   - stepMode: per-vertex or per-instance stepping
//   - firstLocation: the shader location of the first attribute
//   - formats: the attribute formats in buffer order
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout to pass to Builder.VertexBuffer
//   - error: an error naming the first unknown format
func VertexLayout(stepMode wgpu.VertexStepMode, firstLocation uint32, formats ...wgpu.VertexFormat) (wgpu.VertexBufferLayout, error) {
	attrs := make([]wgpu.VertexAttribute, 0, len(formats))
	var offset uint64

	for i, f := range formats {
		size, ok := vertexFormatSizes[f]
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("pipeline: unknown vertex format %v at attribute %d", f, i)
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         f,
			Offset:         offset,
			ShaderLocation: firstLocation + uint32(i),
		})
		offset += size
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    stepMode,
		Attributes:  attrs,
	}, nil
}
