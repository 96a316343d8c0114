// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package image reads and writes program images, either raw bytecode or
// zstd compressed bytecode, and names them by their blake3 digest.
package image

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"

	"github.com/ezrec/bytevm/translate"
	"github.com/ezrec/bytevm/vm"
)

var f = translate.From

var (
	ErrImageSize  = errors.New(f("image exceeds memory limit"))
	ErrDigest     = errors.New(f("invalid digest"))
	ErrCompressed = errors.New(f("compressed image is corrupt"))
)

const (
	DIGEST_SIZE = 32     // Size of a digest in bytes.
	ZSTD_SUFFIX = ".zst" // Suffix of compressed image files.
)

// Magic number that starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Digest is the blake3 hash of a program image.
type Digest [DIGEST_SIZE]byte

// Sum returns the digest of data.
func Sum(data []byte) (digest Digest) {
	h := blake3.New()
	h.Write(data)
	copy(digest[:], h.Sum(nil))
	return
}

// ParseDigest parses a base58 digest.
func ParseDigest(text string) (digest Digest, err error) {
	data, err := base58.Decode(text)
	if err != nil || len(data) != DIGEST_SIZE {
		err = ErrDigest
		return
	}
	copy(digest[:], data)
	return
}

// String returns the base58-encoded representation.
func (digest Digest) String() string {
	return base58.Encode(digest[:])
}

// Image is program bytecode.
type Image struct {
	Code []byte
}

// New image of code, which must fit in VM memory.
func New(code []byte) (img *Image, err error) {
	if len(code) > vm.MEMORY_LIMIT {
		err = ErrImageSize
		return
	}

	img = &Image{Code: code}
	return
}

// Digest of the image bytecode.
func (img *Image) Digest() Digest {
	return Sum(img.Code)
}

// Compressed is true when data starts with a zstd frame.
func Compressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Read an image, raw or compressed.
func Read(input io.Reader) (img *Image, err error) {
	data, err := io.ReadAll(io.LimitReader(input, vm.MEMORY_LIMIT+1))
	if err != nil {
		return
	}

	if Compressed(data) {
		var decoder *zstd.Decoder
		decoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(vm.MEMORY_LIMIT))
		if err != nil {
			return
		}
		defer decoder.Close()

		data, err = decoder.DecodeAll(data, nil)
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			err = errors.Join(ErrImageSize, err)
			return
		}
		if err != nil {
			err = errors.Join(ErrCompressed, err)
			return
		}
	}

	img, err = New(data)
	return
}

// Load an image from a file.
func Load(path string) (img *Image, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	img, err = Read(inf)
	return
}

// Write the image, compressed if requested.
func (img *Image) Write(output io.Writer, compress bool) (err error) {
	data := img.Code

	if compress {
		var encoder *zstd.Encoder
		encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return
		}
		data = encoder.EncodeAll(data, nil)
		err = encoder.Close()
		if err != nil {
			return
		}
	}

	_, err = output.Write(data)
	return
}

// Save the image to a file, compressed when the name ends in ZSTD_SUFFIX.
func (img *Image) Save(path string) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	err = img.Write(ouf, strings.HasSuffix(path, ZSTD_SUFFIX))
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	return
}
