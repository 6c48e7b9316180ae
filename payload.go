package displaylist

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// ErrDigestMismatch is returned by FromPayload when the data doesn't match
// the digest it was sent with.
var ErrDigestMismatch = errors.New("display list digest mismatch")

// Payload is a display list packaged for transport: the item data, its
// descriptor and a BLAKE3 digest over both.
type Payload struct {
	Data       []byte     `cbor:"1,keyasint"`
	Descriptor Descriptor `cbor:"2,keyasint"`
	Digest     [32]byte   `cbor:"3,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("displaylist: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("displaylist: CBOR decoder initialization failed: " + err.Error())
	}
}

// digestKey separates display list digests from other BLAKE3 uses.
var digestKey = [32]byte{
	'd', 'i', 's', 'p', 'l', 'a', 'y', 'l', 'i', 's', 't', '.',
	'p', 'a', 'y', 'l', 'o', 'a', 'd',
}

// Digest computes the keyed BLAKE3 hash of a list's data and descriptor.
func Digest(data []byte, d Descriptor) [32]byte {
	h, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("displaylist: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	var times [24]byte
	binary.LittleEndian.PutUint64(times[0:], d.BuilderStartTime)
	binary.LittleEndian.PutUint64(times[8:], d.BuilderFinishTime)
	binary.LittleEndian.PutUint64(times[16:], d.SendStartTime)
	h.Write(times[:])
	h.Write(data)
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// IntoPayload hands the list off like IntoData and encodes the result as
// CBOR.
func (l *BuiltDisplayList) IntoPayload() ([]byte, error) {
	data, desc := l.IntoData()
	p := Payload{
		Data:       data,
		Descriptor: desc,
		Digest:     Digest(data, desc),
	}
	b, err := encMode.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("encoding display list payload: %w", err)
	}
	l.logger().Debug("packaged display list", "bytes", len(data), "payload_bytes", len(b))
	return b, nil
}

// FromPayload decodes a payload produced by IntoPayload and verifies its
// digest. The items themselves are validated lazily, while iterating.
func FromPayload(b []byte) (*BuiltDisplayList, error) {
	var p Payload
	if err := decMode.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decoding display list payload: %w", err)
	}
	if Digest(p.Data, p.Descriptor) != p.Digest {
		return nil, ErrDigestMismatch
	}
	return FromData(p.Data, p.Descriptor), nil
}
