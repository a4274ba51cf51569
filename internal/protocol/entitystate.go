package protocol

// EntityState is the wire form of spec §4.7's EntityState:
// (entity_id, type_tag, position.x, position.y, optional_health,
// animation_tag, sprite_src_rect{x,y,w,h}, last_processed_input_seq).
//
// HasHealth distinguishes "no Health component" from "Health.Current==0":
// an entity without a Health component (e.g. a projectile) omits the
// health field entirely rather than encoding a sentinel value.
type EntityState struct {
	EntityID              uint64
	TypeTag               string
	X, Y                  float64
	HasHealth             bool
	Health                int32
	AnimationTag          string
	SpriteX, SpriteY      int32
	SpriteW, SpriteH      int32
	LastProcessedInputSeq uint32
}

func (e EntityState) Encode(w *Writer) {
	w.WriteU64(e.EntityID)
	w.WriteString(e.TypeTag)
	w.WriteF64(e.X)
	w.WriteF64(e.Y)
	w.WriteBool(e.HasHealth)
	if e.HasHealth {
		w.WriteI32(e.Health)
	}
	w.WriteString(e.AnimationTag)
	w.WriteI32(e.SpriteX)
	w.WriteI32(e.SpriteY)
	w.WriteI32(e.SpriteW)
	w.WriteI32(e.SpriteH)
	w.WriteU32(e.LastProcessedInputSeq)
}

func DecodeEntityState(r *Reader) (EntityState, error) {
	var e EntityState
	var err error
	if e.EntityID, err = r.ReadU64(); err != nil {
		return e, err
	}
	if e.TypeTag, err = r.ReadString(); err != nil {
		return e, err
	}
	if e.X, err = r.ReadF64(); err != nil {
		return e, err
	}
	if e.Y, err = r.ReadF64(); err != nil {
		return e, err
	}
	if e.HasHealth, err = r.ReadBool(); err != nil {
		return e, err
	}
	if e.HasHealth {
		if e.Health, err = r.ReadI32(); err != nil {
			return e, err
		}
	}
	if e.AnimationTag, err = r.ReadString(); err != nil {
		return e, err
	}
	if e.SpriteX, err = r.ReadI32(); err != nil {
		return e, err
	}
	if e.SpriteY, err = r.ReadI32(); err != nil {
		return e, err
	}
	if e.SpriteW, err = r.ReadI32(); err != nil {
		return e, err
	}
	if e.SpriteH, err = r.ReadI32(); err != nil {
		return e, err
	}
	if e.LastProcessedInputSeq, err = r.ReadU32(); err != nil {
		return e, err
	}
	return e, nil
}

// ActionTag enumerates the cardinal directions and shoot trigger carried
// in an InputSnapshot (spec §4.7 glossary: "Action tags cover the
// cardinal directions and the shoot trigger").
type ActionTag uint8

const (
	ActionUp ActionTag = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionShoot
)

// InputSnapshot is one client-emitted input sample (spec §4.7). DX/DY are
// derived from the action-tag set at the edges of the wire, but carried
// here directly since that is what the simulation (and the client's own
// prediction step) consumes.
type InputSnapshot struct {
	Seq   uint32
	DX    int8
	DY    int8
	Shoot bool
}

func (s InputSnapshot) Encode(w *Writer) {
	w.WriteU32(s.Seq)
	w.WriteU8(uint8(int8ToWire(s.DX)))
	w.WriteU8(uint8(int8ToWire(s.DY)))
	w.WriteBool(s.Shoot)
}

func DecodeInputSnapshot(r *Reader) (InputSnapshot, error) {
	var s InputSnapshot
	var err error
	if s.Seq, err = r.ReadU32(); err != nil {
		return s, err
	}
	dxRaw, err := r.ReadU8()
	if err != nil {
		return s, err
	}
	dyRaw, err := r.ReadU8()
	if err != nil {
		return s, err
	}
	s.DX = wireToInt8(dxRaw)
	s.DY = wireToInt8(dyRaw)
	if s.Shoot, err = r.ReadBool(); err != nil {
		return s, err
	}
	return s, nil
}

// int8ToWire/wireToInt8 encode {-1,0,1} as an unsigned byte via a +1
// offset, since the wire favors unsigned fields throughout.
func int8ToWire(v int8) uint8 { return uint8(v + 1) }
func wireToInt8(v uint8) int8 { return int8(v) - 1 }
