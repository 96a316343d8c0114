package snapshot

import (
	"encoding/binary"
	"errors"

	"github.com/klauspost/compress/zstd"

	"github.com/ezrec/bytevm/image"
	"github.com/ezrec/bytevm/vm"
)

// Record layout, little endian:
//
//	digest        [32]byte  blake3 of everything after it
//	version       uint8
//	image         [32]byte  digest of the program image that was run
//	program       uint32    program length
//	instructions  uint64
//	registers     [REGISTER_COUNT]uint32
//	memory        uint32    uncompressed memory length
//	data          []byte    zstd compressed memory
const (
	RECORD_VERSION = uint8(2)

	headerSize = 1 + image.DIGEST_SIZE + 4 + 8 + 4*int(vm.REGISTER_COUNT) + 4
)

func encode(program image.Digest, state vm.State) (record []byte, err error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return
	}
	defer encoder.Close()

	body := make([]byte, 0, headerSize+len(state.Memory)/4)
	body = append(body, RECORD_VERSION)
	body = append(body, program[:]...)
	body = binary.LittleEndian.AppendUint32(body, state.ProgramLength)
	body = binary.LittleEndian.AppendUint64(body, state.Instructions)
	for _, value := range state.Register {
		body = binary.LittleEndian.AppendUint32(body, value)
	}
	body = binary.LittleEndian.AppendUint32(body, uint32(len(state.Memory)))
	body = encoder.EncodeAll(state.Memory, body)

	digest := image.Sum(body)
	record = append(digest[:], body...)

	return
}

func decode(record []byte) (program image.Digest, state vm.State, err error) {
	if len(record) < image.DIGEST_SIZE+headerSize {
		err = ErrCorrupt
		return
	}

	var digest image.Digest
	copy(digest[:], record)
	body := record[image.DIGEST_SIZE:]
	if image.Sum(body) != digest {
		err = ErrCorrupt
		return
	}

	if body[0] != RECORD_VERSION {
		err = ErrVersion
		return
	}
	body = body[1:]

	copy(program[:], body)
	body = body[image.DIGEST_SIZE:]
	state.ProgramLength = binary.LittleEndian.Uint32(body)
	body = body[4:]
	state.Instructions = binary.LittleEndian.Uint64(body)
	body = body[8:]
	for n := range state.Register {
		state.Register[n] = binary.LittleEndian.Uint32(body)
		body = body[4:]
	}
	size := binary.LittleEndian.Uint32(body)
	body = body[4:]

	if size > vm.MEMORY_LIMIT || state.ProgramLength > size {
		err = ErrCorrupt
		return
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(max(uint64(size), 1)))
	if err != nil {
		return
	}
	defer decoder.Close()

	state.Memory, err = decoder.DecodeAll(body, make([]byte, 0, size))
	if err != nil {
		err = errors.Join(ErrCorrupt, err)
		return
	}
	if len(state.Memory) != int(size) {
		err = ErrCorrupt
		return
	}

	return
}
