package serialkw

import (
	"sync"

	"go.uber.org/atomic"
)

const readBufSize = 4096

// bufferPool hands out fixed-size read buffers for the device transport's
// drain loops so a busy library instance does not allocate per read.
type bufferPool struct {
	pool sync.Pool
	size int

	gets    atomic.Int64
	puts    atomic.Int64
	creates atomic.Int64
}

func newBufferPool(size int) *bufferPool {
	bp := &bufferPool{size: size}
	bp.pool = sync.Pool{
		New: func() any {
			bp.creates.Add(1)
			return make([]byte, size)
		},
	}
	return bp
}

func (bp *bufferPool) Get() []byte {
	bp.gets.Add(1)
	return bp.pool.Get().([]byte)
}

func (bp *bufferPool) Put(buf []byte) {
	if len(buf) != bp.size {
		return // don't pool incorrectly sized buffers
	}
	bp.puts.Add(1)
	clear(buf)
	bp.pool.Put(buf)
}

// PoolStats is a point-in-time snapshot of buffer pool activity.
type PoolStats struct {
	Gets    int64
	Puts    int64
	Creates int64
}

func (bp *bufferPool) Stats() PoolStats {
	return PoolStats{
		Gets:    bp.gets.Load(),
		Puts:    bp.puts.Load(),
		Creates: bp.creates.Load(),
	}
}

var readBufPool = newBufferPool(readBufSize)
