package scene

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Export is the serialised form of a scene, regions in input order.
type Export struct {
	*Scene
	Regions []*Region `json:"regions"`
}

// Export returns the scene with its regions flattened into a list.
func (s *Scene) Export() Export {
	return Export{Scene: s, Regions: s.Ordered()}
}

// Encode writes the scene as JSON.
func (s *Scene) Encode() ([]byte, error) {
	return json.Marshal(s.Export())
}

// Decode restores a scene written by Encode.
func Decode(data []byte) (*Scene, error) {
	e := Export{Scene: &Scene{}}
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if len(e.Regions) == 0 {
		return nil, fmt.Errorf("decode scene: %w", ErrNoCounties)
	}
	s := e.Scene
	s.Regions = make(map[int]*Region, len(e.Regions))
	s.Order = s.Order[:0]
	for _, r := range e.Regions {
		key := NormalizeKey(r.AGS)
		if _, dup := s.Regions[key]; !dup {
			s.Order = append(s.Order, key)
		}
		s.Regions[key] = r
	}
	return s, nil
}
