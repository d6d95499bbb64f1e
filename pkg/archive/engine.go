// Package archive implements the archive packager. It walks source
// trees, deduplicates hardlinks, emits a sequential archive, and
// reverses the process on restore.
package archive

import (
	"context"
	"io"
	"os"

	"github.com/yuhaoze/car/pkg/carerr"
	"github.com/yuhaoze/car/pkg/huffman"
)

// DefaultBufferSize is the fixed-size buffer used to copy regular file
// bodies without full-file buffering.
const DefaultBufferSize = 64 * 1024

// Engine is a synchronous pack/unpack/list engine: each call returns
// only when its work is done. For a compressed archive, Unpack and List
// run the Huffman decoder in a second goroutine that feeds the record
// reader through a pipe. A caller running multiple pack jobs
// concurrently must instantiate one Engine per job; an Engine holds no
// state across calls to Pack/Unpack/List.
type Engine struct {
	// BufferSize is the copy-buffer size used for regular file bodies.
	BufferSize int
}

// NewEngine returns an Engine configured with DefaultBufferSize.
func NewEngine() *Engine {
	return &Engine{BufferSize: DefaultBufferSize}
}

func (e *Engine) bufferSize() int {
	if e.BufferSize > 0 {
		return e.BufferSize
	}
	return DefaultBufferSize
}

// checkCancelled implements the cooperative cancellation point between
// processing any two archive records; mid-record cancellation is not
// supported.
func checkCancelled(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return carerr.Wrap(carerr.Cancelled, "operation cancelled", ctx.Err())
	default:
		return nil
	}
}

// Pack archives sources into out, optionally Huffman-compressing the
// resulting byte stream.
func (e *Engine) Pack(ctx context.Context, sources []string, out io.Writer, compress bool) error {
	var flag [1]byte
	if compress {
		flag[0] = 1
	}
	if _, err := out.Write(flag[:]); err != nil {
		return carerr.Wrap(carerr.IOWrite, "write compressed-flag", err)
	}

	if !compress {
		return e.packRaw(ctx, sources, out)
	}

	tmp, err := os.CreateTemp("", "car-raw-*")
	if err != nil {
		return carerr.Wrap(carerr.IOOpen, "create temporary raw stream", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := e.packRaw(ctx, sources, tmp); err != nil {
		return err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return carerr.Wrap(carerr.IOWrite, "rewind temporary raw stream", err)
	}

	if _, err := huffman.Compress(tmp, out); err != nil {
		return err
	}
	return nil
}

func (e *Engine) packRaw(ctx context.Context, sources []string, w io.Writer) error {
	table := NewHardlinkTable()
	for _, src := range sources {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		if err := e.packEntry(ctx, w, table, src, ""); err != nil {
			return err
		}
	}
	return nil
}

// Unpack restores an archive from in into destination.
func (e *Engine) Unpack(ctx context.Context, in io.Reader, destination string) error {
	var flag [1]byte
	if _, err := io.ReadFull(in, flag[:]); err != nil {
		return carerr.Wrap(carerr.MalformedArchive, "read compressed-flag", err)
	}

	if flag[0] == 0 {
		return e.unpackRaw(ctx, in, destination)
	}
	if flag[0] != 1 {
		return carerr.New(carerr.MalformedArchive, "invalid compressed-flag")
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	errCh := make(chan error, 1)
	go func() {
		_, err := huffman.Decompress(in, pw)
		pw.CloseWithError(err)
		errCh <- err
	}()

	if err := e.unpackRaw(ctx, pr, destination); err != nil {
		return err
	}
	if err := <-errCh; err != nil && err != io.EOF {
		return err
	}
	return nil
}

// List reads the metadata records of an archive without materializing
// any file.
func (e *Engine) List(ctx context.Context, in io.Reader) ([]EntryDescriptor, error) {
	var flag [1]byte
	if _, err := io.ReadFull(in, flag[:]); err != nil {
		return nil, carerr.Wrap(carerr.MalformedArchive, "read compressed-flag", err)
	}

	raw := in
	if flag[0] == 1 {
		pr, pw := io.Pipe()
		defer pr.Close()
		go func() {
			_, err := huffman.Decompress(in, pw)
			pw.CloseWithError(err)
		}()
		raw = pr
	} else if flag[0] != 0 {
		return nil, carerr.New(carerr.MalformedArchive, "invalid compressed-flag")
	}

	return listRaw(ctx, raw)
}
