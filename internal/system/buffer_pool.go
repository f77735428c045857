package system

import (
	"bytes"
	"sync"
)

// bufferPool recycles encode buffers between frames to keep garbage
// collection out of the render loop.
var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// GetBuffer returns an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool. Oversized buffers are dropped.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > 8<<20 {
		return
	}
	bufferPool.Put(buf)
}
