/*
 * zio.go, part of mdconv.
 *
 * Copyright 2026 The mdconv Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package zio opens and creates text trajectory files, compressing or
// decompressing them on the fly depending on the file extension.
// Files ending in .gz are gzip streams, files ending in .zst or .zstd are
// z-standard streams, anything else is read and written as is.
package zio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression kinds, as returned by Kind.
const (
	Plain = ""
	Gzip  = "gz"
	Zstd  = "zst"
)

// Kind returns the compression used for the file name, deduced from its
// extension.
func Kind(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	}
	return Plain
}

// Strip returns name without a compression extension, if it has one.
// Strip("a.gro.gz") is "a.gro".
func Strip(name string) string {
	if Kind(name) == Plain {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Why couldn't *zstd.Decoder implement io.ReadCloser?
type zstdReader struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdReader) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

type gzipReader struct {
	*gzip.Reader
	f *os.File
}

func (g gzipReader) Close() error {
	err := g.Reader.Close()
	if err2 := g.f.Close(); err == nil {
		err = err2
	}
	return err
}

// Open opens name for reading. The returned ReadCloser decompresses the data if
// needed, and closes the underlying file when closed.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch Kind(name) {
	case Gzip:
		r, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, err
		}
		return gzipReader{r, f}, nil
	case Zstd:
		r, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, err
		}
		return zstdReader{r, f}, nil
	}
	return f, nil
}

// writer flushes and closes every layer, innermost first.
type writer struct {
	io.Writer
	closers []io.Closer
}

func (w *writer) Close() error {
	var err error
	for _, c := range w.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

type flusher struct {
	*bufio.Writer
}

func (f flusher) Close() error { return f.Flush() }

// Create creates (or truncates) name and returns a buffered WriteCloser that
// compresses the data if the extension asks for it. Closing it flushes all
// the buffers and closes the file.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	switch Kind(name) {
	case Gzip:
		gz := gzip.NewWriter(buf)
		return &writer{gz, []io.Closer{gz, flusher{buf}, f}}, nil
	case Zstd:
		zw, err := zstd.NewWriter(buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return nil, err
		}
		return &writer{zw, []io.Closer{zw, flusher{buf}, f}}, nil
	}
	return &writer{buf, []io.Closer{flusher{buf}, f}}, nil
}
