package quadtree

import (
	"encoding/json"
	"fmt"
)

// childrenJSON is the wire form used by the compression service: children
// keyed by quadrant name rather than position.
type childrenJSON struct {
	TopLeft     *Node `json:"topLeft"`
	TopRight    *Node `json:"topRight"`
	BottomLeft  *Node `json:"bottomLeft"`
	BottomRight *Node `json:"bottomRight"`
}

func (c Children) MarshalJSON() ([]byte, error) {
	return json.Marshal(childrenJSON{
		TopLeft:     c[TopLeft],
		TopRight:    c[TopRight],
		BottomLeft:  c[BottomLeft],
		BottomRight: c[BottomRight],
	})
}

// UnmarshalJSON accepts any subset of the four keys; missing quadrants are
// left nil and reported later by Validate.
func (c *Children) UnmarshalJSON(data []byte) error {
	var raw childrenJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("quadtree: children: %w", err)
	}
	c[TopLeft] = raw.TopLeft
	c[TopRight] = raw.TopRight
	c[BottomLeft] = raw.BottomLeft
	c[BottomRight] = raw.BottomRight
	return nil
}
