package plan

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// Decode parses a plan document. Loading never fails on content: legacy
// documents without doors/windows/stages get empty slices, and a payload
// whose top level is not {points: [...], walls: [...]} is logged and
// replaced with an empty document. The editor must not lose a session to
// one bad file.
func Decode(data []byte) *Document {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		log.Printf("plan: invalid document (%v), starting empty", err)
		return New()
	}
	if !isArray(shape["points"]) || !isArray(shape["walls"]) {
		log.Printf("plan: document missing points/walls arrays, starting empty")
		return New()
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		log.Printf("plan: invalid document (%v), starting empty", err)
		return New()
	}
	normalize(&d)
	return &d
}

func isArray(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b == '['
	}
	return false
}

func normalize(d *Document) {
	if d.Points == nil {
		d.Points = []Point{}
	}
	if d.Walls == nil {
		d.Walls = []Wall{}
	}
	if d.Doors == nil {
		d.Doors = []Door{}
	}
	if d.Windows == nil {
		d.Windows = []Window{}
	}
	if d.Stages == nil {
		d.Stages = []Stage{}
	}
	d.renumber()

	// Drop walls with broken point references and openings on missing
	// walls; a partially hand-edited file should degrade, not crash.
	walls := d.Walls[:0]
	for _, w := range d.Walls {
		_, okS := d.Point(w.StartPointID)
		_, okE := d.Point(w.EndPointID)
		if okS && okE {
			walls = append(walls, w)
		} else {
			log.Printf("plan: dropping wall %d with missing endpoint", w.ID)
		}
	}
	d.Walls = walls
	doors := d.Doors[:0]
	for _, o := range d.Doors {
		if _, ok := d.Wall(o.WallID); ok {
			doors = append(doors, o)
		} else {
			log.Printf("plan: dropping door %d on missing wall %d", o.ID, o.WallID)
		}
	}
	d.Doors = doors
	windows := d.Windows[:0]
	for _, o := range d.Windows {
		if _, ok := d.Wall(o.WallID); ok {
			windows = append(windows, o)
		} else {
			log.Printf("plan: dropping window %d on missing wall %d", o.ID, o.WallID)
		}
	}
	d.Windows = windows
}

// Encode renders the document as indented JSON.
func Encode(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Load reads a plan file. I/O errors surface; content errors fall back to
// an empty document (see Decode).
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b), nil
}

// Save writes the document, creating the parent directory if needed.
func Save(d *Document, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	b, err := Encode(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
