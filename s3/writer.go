package s3

import (
	"bytes"
	"context"
	"io"
	"io/fs"

	"github.com/minio/minio-go/v7"
)

// writer uploads an object on Close. Small payloads are buffered and
// uploaded with an exact size in a single PutObject; once the buffer
// exceeds the part threshold, writes transition to a pipe feeding a
// background streaming upload.
type writer struct {
	backend *Backend
	ctx     context.Context
	key     string

	buffer *bytes.Buffer  // accumulates writes below the threshold
	pipeW  *io.PipeWriter // streaming writer once threshold exceeded
	putRes chan error     // result from background PutObject when streaming
	closed bool
}

// OpenWrite opens the object at key for writing. The object becomes
// visible atomically when Close returns nil.
func (b *Backend) OpenWrite(ctx context.Context, key string) (io.WriteCloser, error) {
	return &writer{
		backend: b,
		ctx:     ctx,
		key:     key,
		buffer:  new(bytes.Buffer),
	}, nil
}

// Write buffers p, transitioning to a streaming upload when the payload
// outgrows the part threshold.
func (w *writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, pathError("write", w.key, fs.ErrClosed)
	}

	// Already streaming: feed the pipe directly.
	if w.pipeW != nil {
		n, err := w.pipeW.Write(p)
		if err != nil {
			return n, pathError("write", w.key, err)
		}
		return n, nil
	}

	if int64(w.buffer.Len()+len(p)) <= w.backend.partThreshold {
		return w.buffer.Write(p)
	}

	return w.transitionToStreaming(p)
}

// transitionToStreaming creates a pipe, starts the background upload,
// flushes the buffered data into it, and writes p.
func (w *writer) transitionToStreaming(p []byte) (int, error) {
	pr, pw := io.Pipe()
	w.pipeW = pw
	w.putRes = make(chan error, 1)

	go func() {
		_, err := w.backend.client.PutObject(
			w.ctx,
			w.backend.bucket,
			w.key,
			pr,
			-1,
			minio.PutObjectOptions{ContentType: "application/octet-stream"},
		)
		_ = pr.CloseWithError(err)
		w.putRes <- translate(err)
		close(w.putRes)
	}()

	if w.buffer.Len() > 0 {
		if _, err := w.pipeW.Write(w.buffer.Bytes()); err != nil {
			return 0, pathError("write", w.key, err)
		}
		w.buffer = nil
	}

	n, err := w.pipeW.Write(p)
	if err != nil {
		return n, pathError("write", w.key, err)
	}
	return n, nil
}

// Close finalizes the upload. For buffered payloads it performs a
// single PutObject with the exact size; for streaming payloads it
// closes the pipe and waits for the background upload result.
// Close is idempotent.
func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.pipeW != nil {
		_ = w.pipeW.Close()
		if err := <-w.putRes; err != nil {
			return pathError("close", w.key, err)
		}
		return nil
	}

	reader := bytes.NewReader(w.buffer.Bytes())
	_, err := w.backend.client.PutObject(
		w.ctx,
		w.backend.bucket,
		w.key,
		reader,
		int64(w.buffer.Len()),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	if err != nil {
		return pathError("close", w.key, translate(err))
	}
	return nil
}
