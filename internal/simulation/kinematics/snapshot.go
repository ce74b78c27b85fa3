package kinematics

import (
	"cmp"
	"fmt"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
)

// Snapshot 編碼 (protobuf wire format，不需 .proto 產生碼):
//
//	message Snapshot { sint64 frame = 1; repeated Unit units = 2; }
//	message Unit     { string id = 1; sint64 x = 2; sint64 y = 3; sint32 yaw = 4; }
const (
	fieldFrame protowire.Number = 1
	fieldUnit  protowire.Number = 2

	fieldUnitID  protowire.Number = 1
	fieldUnitX   protowire.Number = 2
	fieldUnitY   protowire.Number = 3
	fieldUnitYaw protowire.Number = 4
)

func encodeSnapshot(frame int64, units []unit) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldFrame, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(frame))
	for _, u := range units {
		var ub []byte
		ub = protowire.AppendTag(ub, fieldUnitID, protowire.BytesType)
		ub = protowire.AppendString(ub, string(u.id))
		ub = protowire.AppendTag(ub, fieldUnitX, protowire.VarintType)
		ub = protowire.AppendVarint(ub, protowire.EncodeZigZag(u.x))
		ub = protowire.AppendTag(ub, fieldUnitY, protowire.VarintType)
		ub = protowire.AppendVarint(ub, protowire.EncodeZigZag(u.y))
		ub = protowire.AppendTag(ub, fieldUnitYaw, protowire.VarintType)
		ub = protowire.AppendVarint(ub, protowire.EncodeZigZag(int64(u.yaw)))

		b = protowire.AppendTag(b, fieldUnit, protowire.BytesType)
		b = protowire.AppendBytes(b, ub)
	}
	return b
}

// Restore 由快照重建世界，客戶端收到快照後以此接續模擬
func Restore(cfg Config, data []byte) (*World, error) {
	w := &World{cfg: cfg}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldFrame && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, protowire.ParseError(n))
			}
			w.frame = protowire.DecodeZigZag(v)
			data = data[n:]
		case num == fieldUnit && typ == protowire.BytesType:
			ub, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, protowire.ParseError(n))
			}
			u, err := decodeUnit(ub)
			if err != nil {
				return nil, err
			}
			w.units = append(w.units, u)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	slices.SortFunc(w.units, func(a, b unit) int {
		return cmp.Compare(a.id, b.id)
	})
	return w, nil
}

func decodeUnit(data []byte) (unit, error) {
	var u unit
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return u, fmt.Errorf("%w: %v", ErrMalformedSnapshot, protowire.ParseError(n))
		}
		data = data[n:]

		if num == fieldUnitID && typ == protowire.BytesType {
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return u, fmt.Errorf("%w: %v", ErrMalformedSnapshot, protowire.ParseError(n))
			}
			u.id = domain.PlayerID(s)
			data = data[n:]
			continue
		}
		if typ != protowire.VarintType {
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return u, fmt.Errorf("%w: %v", ErrMalformedSnapshot, protowire.ParseError(n))
			}
			data = data[n:]
			continue
		}

		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return u, fmt.Errorf("%w: %v", ErrMalformedSnapshot, protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case fieldUnitX:
			u.x = protowire.DecodeZigZag(v)
		case fieldUnitY:
			u.y = protowire.DecodeZigZag(v)
		case fieldUnitYaw:
			u.yaw = int32(protowire.DecodeZigZag(v))
		}
	}
	return u, nil
}
