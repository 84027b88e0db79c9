package date

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// point is the serialized form of a History item. Undefined (NaN) values are null.
type point struct {
	Date  Date     `json:"date"`
	Value *float64 `json:"value"`
}

// packedPoint is the msgpack form of a point.
type packedPoint struct {
	Date  string   `msgpack:"d"`
	Value *float64 `msgpack:"v"`
}

func (h *History[T]) points() []point {
	pts := make([]point, len(h.days))
	for i, on := range h.days {
		pts[i].Date = on
		if v := float64(h.values[i]); !math.IsNaN(v) && !math.IsInf(v, 0) {
			pts[i].Value = &v
		}
	}
	return pts
}

func (h *History[T]) setPoints(pts []point) error {
	h.Clear()
	for _, p := range pts {
		v := math.NaN()
		if p.Value != nil {
			v = *p.Value
		}
		if h.Has(p.Date) {
			return fmt.Errorf("duplicate date %v in history", p.Date)
		}
		h.Append(p.Date, T(v))
	}
	return nil
}

// MarshalJSON encodes the history as an array of {"date","value"} objects.
func (h History[T]) MarshalJSON() ([]byte, error) { return json.Marshal(h.points()) }

// UnmarshalJSON decodes the format produced by MarshalJSON.
func (h *History[T]) UnmarshalJSON(data []byte) error {
	var pts []point
	if err := json.Unmarshal(data, &pts); err != nil {
		return err
	}
	return h.setPoints(pts)
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (h *History[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	pts := h.points()
	packed := make([]packedPoint, len(pts))
	for i, p := range pts {
		packed[i] = packedPoint{Date: p.Date.String(), Value: p.Value}
	}
	return enc.Encode(packed)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (h *History[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var packed []packedPoint
	if err := dec.Decode(&packed); err != nil {
		return err
	}
	pts := make([]point, len(packed))
	for i, p := range packed {
		on, err := Parse(p.Date)
		if err != nil {
			return err
		}
		pts[i] = point{Date: on, Value: p.Value}
	}
	return h.setPoints(pts)
}

var (
	_ msgpack.CustomEncoder = (*History[float64])(nil)
	_ msgpack.CustomDecoder = (*History[float64])(nil)
)
