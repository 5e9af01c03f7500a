package lineindex

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kimaguri/simplx-toolkit/internal/engine/cowvec"
	"github.com/kimaguri/simplx-toolkit/internal/engine/segment"
)

// BuildFile starts indexing file in the background and returns immediately
// with a partial Index. file must remain open for the lifetime of the
// returned Index's worker; the caller (normally buffer.Buffer) owns that.
func BuildFile(file *os.File) (*Index, error) {
	fi, err := file.Stat()
	if err != nil {
		return nil, err
	}
	fileLen := uint64(fi.Size())

	reader, writer := cowvec.New[uint64]()
	ix := &Index{offsets: reader}

	go runFileIndexer(writer, ix, file, fileLen)
	return ix, nil
}

// runFileIndexer partitions [0, fileLen) into Max-sized chunks, scans each
// concurrently, and appends their newline offsets to writer strictly in
// chunk-start order.
func runFileIndexer(writer *cowvec.Writer[uint64], ix *Index, file *os.File, fileLen uint64) {
	defer writer.Close()

	if fileLen == 0 {
		writer.Push(0)
		ix.progress.Store(100)
		return
	}

	numChunks := int((fileLen + segment.Max - 1) / segment.Max)
	log.Debug().Str("file", file.Name()).Uint64("file_len", fileLen).Int("chunks", numChunks).Msg("lineindex: chunk scan started")
	results := make([]chan []uint64, numChunks)
	for i := range results {
		results[i] = make(chan []uint64, 1)
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(maxParallelism())
	for i := 0; i < numChunks; i++ {
		i := i
		g.Go(func() error {
			defer close(results[i])
			if ctx.Err() != nil {
				return ctx.Err()
			}
			start := uint64(i) * segment.Max
			end := start + segment.Max
			if end > fileLen {
				end = fileLen
			}
			seg, err := segment.MapFile(file, start, end)
			if err != nil {
				return err
			}
			defer seg.Close()
			results[i] <- scanNewlines(start, seg.Bytes())
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	writer.Push(0)
	var last uint64
	for i := 0; i < numChunks; i++ {
		if !writer.HasReaders() {
			return
		}
		offs, ok := <-results[i]
		if !ok {
			// Chunk i failed (or was skipped after another chunk failed):
			// append nothing further and let g.Wait report the error.
			break
		}
		for _, o := range offs {
			writer.Push(o)
			last = o
		}
		ix.progress.Store(uint32((i + 1) * 100 / numChunks))
	}

	if err := <-done; err != nil {
		ix.aborted.Store(true)
		log.Error().Str("file", file.Name()).Err(err).Msg("lineindex: chunk scan aborted")
		return
	}

	if last != fileLen {
		writer.Push(fileLen)
	}
	ix.progress.Store(100)
	log.Debug().Str("file", file.Name()).Int("line_count", ix.LineCount()).Msg("lineindex: chunk scan finished")
}

func maxParallelism() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

// BuildStream starts indexing an unbounded byte source in the background.
// Each filled Max-sized region is published to store and also sent on out
// (capacity SegmentChannelDepth, matching the stream segment hand-off
// described in the engine's concurrency model) so a live cache can observe
// new segments as they complete.
func BuildStream(r io.Reader, store *segment.StreamStore, out chan<- *segment.Segment) *Index {
	reader, writer := cowvec.New[uint64]()
	ix := &Index{offsets: reader, streamMode: true}

	go runStreamIndexer(writer, ix, r, store, out)
	return ix
}

func runStreamIndexer(writer *cowvec.Writer[uint64], ix *Index, r io.Reader, store *segment.StreamStore, out chan<- *segment.Segment) {
	defer writer.Close()
	defer close(out)

	writer.Push(0)
	var total uint64
	var last uint64
	var id uint64

	for {
		if !writer.HasReaders() {
			return
		}
		ix.active.Store(true)
		seg, err := segment.NewAnon(id, total, int(segment.Max))
		if err != nil {
			ix.aborted.Store(true)
			return
		}

		n, err := io.ReadFull(r, seg.Bytes())
		switch {
		case err == io.ErrUnexpectedEOF || err == io.EOF:
			seg.Truncate(n)
		case err != nil:
			ix.aborted.Store(true)
			_ = seg.Close()
			return
		}
		ix.active.Store(false)

		if n == 0 {
			_ = seg.Close()
			if total != last {
				writer.Push(total)
			}
			return
		}

		for _, o := range scanNewlines(total, seg.Bytes()) {
			writer.Push(o)
			last = o
		}

		store.Append(seg)
		out <- seg

		total += uint64(n)
		id++

		if n < int(segment.Max) {
			if total != last {
				writer.Push(total)
			}
			return
		}
	}
}
