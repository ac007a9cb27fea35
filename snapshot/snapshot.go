// Package snapshot serializes register states to a framed binary format and
// moves them in and out of blob storage.
//
// Layout:
//
//	[Magic "QSNP" 4B][Version uint8][Compression uint8][NumQubits uint16 LE]
//	[Payload: block-compressed amplitudes, real/imag float64 LE pairs]
package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/qsimgo/backend"
	"github.com/hupe1980/qsimgo/blobstore"
	"github.com/hupe1980/qsimgo/resource"
)

var magic = [4]byte{'Q', 'S', 'N', 'P'}

const (
	formatVersion = 1
	headerSize    = 8
	amplitudeSize = 16
)

// ErrCorrupt is a named error type for snapshots that fail structural
// validation.
type ErrCorrupt struct {
	Reason string
}

// Error returns the error message for a corrupt snapshot.
func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("corrupt snapshot: %s", e.Reason)
}

// ErrUnsupportedVersion is a named error type for snapshot format versions
// this build cannot read.
type ErrUnsupportedVersion struct {
	Version uint8
}

// Error returns the error message for an unsupported format version.
func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported snapshot version %d", e.Version)
}

// Restorer is the subset of register behavior needed to load a snapshot
// back into a live register.
type Restorer interface {
	NumQubits() int
	SetState(amplitudes []complex128) error
}

// Options configure snapshot encoding and storage transfers.
type Options struct {
	// Compression selects the payload codec. Defaults to LZ4.
	Compression CompressionType

	// Controller, when set, throttles storage transfers against the
	// configured IO budget.
	Controller *resource.Controller
}

// WithCompression selects the payload codec.
func WithCompression(c CompressionType) func(*Options) {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithController throttles storage transfers through the given controller.
func WithController(c *resource.Controller) func(*Options) {
	return func(o *Options) {
		o.Controller = c
	}
}

func applyOptions(optFns []func(*Options)) Options {
	o := Options{
		Compression: CompressionLZ4,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Write encodes the register's state to w.
func Write(w io.Writer, reg backend.Register, optFns ...func(*Options)) error {
	o := applyOptions(optFns)

	amps := reg.StateVector()

	payload := make([]byte, len(amps)*amplitudeSize)
	for i, a := range amps {
		binary.LittleEndian.PutUint64(payload[i*amplitudeSize:], math.Float64bits(real(a)))
		binary.LittleEndian.PutUint64(payload[i*amplitudeSize+8:], math.Float64bits(imag(a)))
	}

	compressed := payload
	if o.Compression != CompressionNone {
		var err error
		compressed, err = compressPayload(payload, o.Compression)
		if err != nil {
			return err
		}
	}

	var hdr [headerSize]byte
	copy(hdr[0:4], magic[:])
	hdr[4] = formatVersion
	hdr[5] = byte(o.Compression)
	binary.LittleEndian.PutUint16(hdr[6:], uint16(reg.NumQubits()))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	_, err := w.Write(compressed)
	return err
}

// Read decodes a snapshot from r, returning the qubit count and the
// amplitude vector.
func Read(r io.Reader) (int, []complex128, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, nil, err
	}
	return decode(data)
}

func decode(data []byte) (int, []complex128, error) {
	if len(data) < headerSize {
		return 0, nil, &ErrCorrupt{Reason: "truncated header"}
	}

	if !bytes.Equal(data[0:4], magic[:]) {
		return 0, nil, &ErrCorrupt{Reason: "bad magic"}
	}

	if data[4] != formatVersion {
		return 0, nil, &ErrUnsupportedVersion{Version: data[4]}
	}

	compression := CompressionType(data[5])
	numQubits := int(binary.LittleEndian.Uint16(data[6:]))

	if numQubits < 1 || numQubits > 48 {
		return 0, nil, &ErrCorrupt{Reason: fmt.Sprintf("implausible qubit count %d", numQubits)}
	}

	expected := (1 << numQubits) * amplitudeSize

	var payload []byte
	if compression == CompressionNone {
		payload = data[headerSize:]
		if len(payload) != expected {
			return 0, nil, &ErrCorrupt{Reason: "payload size mismatch"}
		}
	} else {
		var err error
		payload, err = decompressPayload(data[headerSize:], compression, expected)
		if err != nil {
			return 0, nil, err
		}
	}

	amps := make([]complex128, 1<<numQubits)
	for i := range amps {
		re := math.Float64frombits(binary.LittleEndian.Uint64(payload[i*amplitudeSize:]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(payload[i*amplitudeSize+8:]))
		amps[i] = complex(re, im)
	}

	return numQubits, amps, nil
}

// Save encodes the register and writes the snapshot to the store under name.
func Save(ctx context.Context, store blobstore.Store, name string, reg backend.Register, optFns ...func(*Options)) error {
	o := applyOptions(optFns)

	var buf bytes.Buffer
	if err := Write(&buf, reg, optFns...); err != nil {
		return err
	}

	if err := o.Controller.AcquireIO(ctx, buf.Len()); err != nil {
		return err
	}

	return store.Put(ctx, name, buf.Bytes())
}

// Load reads the named snapshot from the store and decodes it.
func Load(ctx context.Context, store blobstore.Store, name string, optFns ...func(*Options)) (int, []complex128, error) {
	o := applyOptions(optFns)

	data, err := store.Get(ctx, name)
	if err != nil {
		return 0, nil, err
	}

	if err := o.Controller.AcquireIO(ctx, len(data)); err != nil {
		return 0, nil, err
	}

	return decode(data)
}

// LoadInto reads the named snapshot and restores it into reg. The register
// must have the snapshot's qubit count.
func LoadInto(ctx context.Context, store blobstore.Store, name string, reg Restorer, optFns ...func(*Options)) error {
	numQubits, amps, err := Load(ctx, store, name, optFns...)
	if err != nil {
		return err
	}

	if numQubits != reg.NumQubits() {
		return &ErrCorrupt{Reason: fmt.Sprintf("snapshot has %d qubits, register has %d", numQubits, reg.NumQubits())}
	}

	return reg.SetState(amps)
}
