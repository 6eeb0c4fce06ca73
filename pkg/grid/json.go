package grid

import "encoding/json"

type gridJSON struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   []string `json:"rows"`
}

// MarshalJSON encodes the grid as its dimensions and top-down glyph rows.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(gridJSON{Width: g.width, Height: g.height, Rows: g.Rows()})
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var raw gridJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromRows(raw.Rows)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
