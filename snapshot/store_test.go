package snapshot

import (
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	bolt "go.etcd.io/bbolt"

	"github.com/ezrec/bytevm/image"
	"github.com/ezrec/bytevm/vm"
)

func newTestStore(t *testing.T) (store *Store) {
	store, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	t.Cleanup(func() { store.Close() })
	return
}

// pausedState runs a counting loop part way.
func pausedState(t *testing.T) (machine *vm.VM, program image.Digest, state vm.State) {
	asm := &vm.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"        lconsb r0, 10",
		"loop:   dec r0",
		"        push r0",
		"        jnz r0, loop",
		"        halt",
	}, "\n")))
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	machine, err = vm.NewVM(prog.Binary(), vm.STACK_DEFAULT, vm.Options{})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	program = image.Sum(prog.Binary())

	assert.Equal(t, vm.PAUSED, machine.Run(7))
	state = machine.Snapshot()
	return
}

func TestStore(t *testing.T) {
	assert := assert.New(t)

	store := newTestStore(t)
	machine, program, state := pausedState(t)

	id, err := store.Save("count", program, state)
	assert.NoError(err)
	assert.NotEqual([32]byte{}, [32]byte(id))

	loaded, err := store.Load("count", program)
	assert.NoError(err)
	assert.Equal(state, loaded)

	// Resume in a fresh VM from the loaded state.
	fresh, err := vm.NewVM(state.Memory[:state.ProgramLength], vm.STACK_DEFAULT, vm.Options{})
	assert.NoError(err)
	assert.NoError(fresh.Restore(loaded))
	assert.Equal(vm.FINISHED, fresh.Run(0))
	assert.Equal(vm.FINISHED, machine.Run(0))
	assert.Equal(machine.Snapshot(), fresh.Snapshot())
	assert.Equal(10, fresh.StackCount())

	_, err = store.Load("missing", program)
	assert.ErrorIs(err, ErrNotFound)

	_, err = store.Save("", program, state)
	assert.ErrorIs(err, ErrName)
}

func TestStoreNames(t *testing.T) {
	assert := assert.New(t)

	store := newTestStore(t)
	_, program, state := pausedState(t)

	for _, name := range []string{"b", "a", "c"} {
		_, err := store.Save(name, program, state)
		assert.NoError(err)
	}

	names, err := store.Names()
	assert.NoError(err)
	assert.Equal([]string{"a", "b", "c"}, names)

	assert.NoError(store.Delete("b"))
	assert.ErrorIs(store.Delete("b"), ErrNotFound)

	names, err = store.Names()
	assert.NoError(err)
	assert.Equal([]string{"a", "c"}, names)
}

func TestStoreCorrupt(t *testing.T) {
	assert := assert.New(t)

	store := newTestStore(t)
	_, program, state := pausedState(t)

	_, err := store.Save("count", program, state)
	assert.NoError(err)

	table := [](struct {
		name   string
		mangle func(record []byte) []byte
	}){
		{"flip", func(record []byte) []byte {
			record[len(record)-1] ^= 0xff
			return record
		}},
		{"short", func(record []byte) []byte {
			return record[:20]
		}},
		{"digest", func(record []byte) []byte {
			record[0] ^= 0xff
			return record
		}},
	}

	for _, entry := range table {
		err = store.db.Update(func(tx *bolt.Tx) error {
			bucket := tx.Bucket(bucketSnapshots)
			record := append([]byte(nil), bucket.Get([]byte("count"))...)
			return bucket.Put([]byte(entry.name), entry.mangle(record))
		})
		assert.NoError(err)

		_, err = store.Load(entry.name, program)
		assert.ErrorIs(err, ErrCorrupt, entry.name)
	}
}

func TestRecord(t *testing.T) {
	assert := assert.New(t)

	_, program, state := pausedState(t)

	record, err := encode(program, state)
	assert.NoError(err)

	gotProgram, got, err := decode(record)
	assert.NoError(err)
	assert.Equal(program, gotProgram)
	assert.Equal(state, got)

	// Re-sign a record with a bad version.
	body := append([]byte(nil), record[32:]...)
	body[0] = RECORD_VERSION + 1
	digest := image.Sum(body)
	_, _, err = decode(append(digest[:], body...))
	assert.ErrorIs(err, ErrVersion)
}

func TestStoreImage(t *testing.T) {
	assert := assert.New(t)

	store := newTestStore(t)
	_, program, state := pausedState(t)

	_, err := store.Save("count", program, state)
	assert.NoError(err)

	// Same layout, different bytecode.
	other := append([]byte(nil), state.Memory[:state.ProgramLength]...)
	other[1] ^= 0x01

	table := [](struct {
		name    string
		program image.Digest
		err     error
	}){
		{"same", program, nil},
		{"other", image.Sum(other), ErrImage},
		{"empty", image.Digest{}, ErrImage},
	}

	for _, entry := range table {
		loaded, err := store.Load("count", entry.program)
		if entry.err == nil {
			assert.NoError(err, entry.name)
			assert.Equal(state, loaded, entry.name)
		} else {
			assert.ErrorIs(err, entry.err, entry.name)
			assert.Equal(vm.State{}, loaded, entry.name)
		}
	}
}

func TestRecordMemoryBound(t *testing.T) {
	assert := assert.New(t)

	_, program, state := pausedState(t)

	// A record whose frame expands past its declared memory size.
	state.Memory = make([]byte, 4*len(state.Memory))
	record, err := encode(program, state)
	assert.NoError(err)

	body := append([]byte(nil), record[image.DIGEST_SIZE:]...)
	sizeAt := headerSize - 4
	binary.LittleEndian.PutUint32(body[sizeAt:], uint32(len(state.Memory)/4))
	digest := image.Sum(body)

	_, _, err = decode(append(digest[:], body...))
	assert.ErrorIs(err, ErrCorrupt)
}
