// Package template runs tengo scripts that build starter floorplans.
// Scripts receive a `venue` module whose builder functions take meters
// and return entity ids; the host accumulates the calls into a
// plan.Document.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/venuekit/floorplan/plan"
)

type builder struct {
	doc      *plan.Document
	defaults Defaults
}

// Defaults supplies the dimensions used when a script omits optional
// arguments.
type Defaults struct {
	WallThickness float64
	WallHeight    float64
	WallTexture   string
	DoorHeight    float64
	WindowHeight  float64
	WindowSill    float64
	StageHeight   float64
	StageColor    string
}

func fillDefaults(d Defaults) Defaults {
	if d.WallThickness <= 0 {
		d.WallThickness = 0.2
	}
	if d.WallHeight <= 0 {
		d.WallHeight = 2.5
	}
	if d.DoorHeight <= 0 {
		d.DoorHeight = 2.1
	}
	if d.WindowHeight <= 0 {
		d.WindowHeight = 1.0
	}
	if d.WindowSill <= 0 {
		d.WindowSill = 0.9
	}
	if d.StageHeight <= 0 {
		d.StageHeight = 0.4
	}
	return d
}

// Run executes a venue script and returns the document it built. Script
// errors surface as errors; the host never panics on bad input.
func Run(src []byte, defaults Defaults) (*plan.Document, error) {
	b := &builder{doc: plan.New(), defaults: fillDefaults(defaults)}

	script := tengo.NewScript(src)
	modules := stdlib.GetModuleMap("math", "fmt")
	modules.AddBuiltinModule("venue", b.module())
	script.SetImports(modules)

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	return b.doc, nil
}

// RunFile runs the script at path.
func RunFile(path string, defaults Defaults) (*plan.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Run(src, defaults)
}

// List returns the .tengo scripts under dir, sorted by name. A missing
// directory yields an empty list.
func List(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tengo") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out
}

// module builds the attribute map registered as the importable `venue`
// module.
func (b *builder) module() map[string]tengo.Object {
	values := map[string]tengo.Object{}

	// point(x_m, y_m) -> id
	values["point"] = &tengo.UserFunction{Name: "point", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, err := twoFloats("point", args)
		if err != nil {
			return nil, err
		}
		id := b.doc.AddPoint(x*plan.PixelsPerMeter, y*plan.PixelsPerMeter)
		return &tengo.Int{Value: int64(id)}, nil
	}}

	// wall(p1, p2) -> id, using the default thickness/height/texture
	values["wall"] = &tengo.UserFunction{Name: "wall", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		return b.addWall(args[0], args[1], b.defaults.WallThickness, b.defaults.WallHeight, b.defaults.WallTexture)
	}}

	// wall_opt(p1, p2, thickness_m, height_m, texture) -> id
	values["wall_opt"] = &tengo.UserFunction{Name: "wall_opt", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 5 {
			return nil, tengo.ErrWrongNumArguments
		}
		thickness, ok := tengo.ToFloat64(args[2])
		if !ok {
			return nil, badArg("wall_opt", 3, "float", args[2])
		}
		height, ok := tengo.ToFloat64(args[3])
		if !ok {
			return nil, badArg("wall_opt", 4, "float", args[3])
		}
		texture, ok := tengo.ToString(args[4])
		if !ok {
			return nil, badArg("wall_opt", 5, "string", args[4])
		}
		return b.addWall(args[0], args[1], thickness, height, texture)
	}}

	// door(wall, offset_m, width_m) -> id
	values["door"] = &tengo.UserFunction{Name: "door", Value: func(args ...tengo.Object) (tengo.Object, error) {
		wallID, offset, width, err := openingArgs("door", args)
		if err != nil {
			return nil, err
		}
		id, ok := b.doc.PlaceDoor(wallID, offset, width, b.defaults.DoorHeight)
		if !ok {
			return nil, fmt.Errorf("door: placement on wall %d at %.2fm refused", wallID, offset)
		}
		return &tengo.Int{Value: int64(id)}, nil
	}}

	// window(wall, offset_m, width_m, sill_m) -> id
	values["window"] = &tengo.UserFunction{Name: "window", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		wallID, offset, width, err := openingArgs("window", args[:3])
		if err != nil {
			return nil, err
		}
		sill, ok := tengo.ToFloat64(args[3])
		if !ok {
			return nil, badArg("window", 4, "float", args[3])
		}
		id, ok := b.doc.PlaceWindow(wallID, offset, width, b.defaults.WindowHeight, sill)
		if !ok {
			return nil, fmt.Errorf("window: placement on wall %d at %.2fm refused", wallID, offset)
		}
		return &tengo.Int{Value: int64(id)}, nil
	}}

	// stage(x_m, y_m, width_m, depth_m) -> id
	values["stage"] = &tengo.UserFunction{Name: "stage", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		var vals [4]float64
		for i, a := range args {
			v, ok := tengo.ToFloat64(a)
			if !ok {
				return nil, badArg("stage", i+1, "float", a)
			}
			vals[i] = v
		}
		id, ok := b.doc.AddStage(
			vals[0]*plan.PixelsPerMeter, vals[1]*plan.PixelsPerMeter,
			vals[2], vals[3], b.defaults.StageHeight, 0, b.defaults.StageColor,
		)
		if !ok {
			return nil, fmt.Errorf("stage: invalid dimensions %.2fx%.2f", vals[2], vals[3])
		}
		return &tengo.Int{Value: int64(id)}, nil
	}}

	return values
}

func (b *builder) addWall(p1, p2 tengo.Object, thickness, height float64, texture string) (tengo.Object, error) {
	startID, ok := tengo.ToInt(p1)
	if !ok {
		return nil, badArg("wall", 1, "point id", p1)
	}
	endID, ok := tengo.ToInt(p2)
	if !ok {
		return nil, badArg("wall", 2, "point id", p2)
	}
	id, ok := b.doc.AddWall(startID, endID, thickness, height, texture)
	if !ok {
		return nil, fmt.Errorf("wall: invalid segment %d-%d", startID, endID)
	}
	return &tengo.Int{Value: int64(id)}, nil
}

func twoFloats(fn string, args []tengo.Object) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, tengo.ErrWrongNumArguments
	}
	x, ok := tengo.ToFloat64(args[0])
	if !ok {
		return 0, 0, badArg(fn, 1, "float", args[0])
	}
	y, ok := tengo.ToFloat64(args[1])
	if !ok {
		return 0, 0, badArg(fn, 2, "float", args[1])
	}
	return x, y, nil
}

func openingArgs(fn string, args []tengo.Object) (int, float64, float64, error) {
	if len(args) != 3 {
		return 0, 0, 0, tengo.ErrWrongNumArguments
	}
	wallID, ok := tengo.ToInt(args[0])
	if !ok {
		return 0, 0, 0, badArg(fn, 1, "wall id", args[0])
	}
	offset, ok := tengo.ToFloat64(args[1])
	if !ok {
		return 0, 0, 0, badArg(fn, 2, "float", args[1])
	}
	width, ok := tengo.ToFloat64(args[2])
	if !ok {
		return 0, 0, 0, badArg(fn, 3, "float", args[2])
	}
	return wallID, offset, width, nil
}

func badArg(fn string, n int, want string, got tengo.Object) error {
	return fmt.Errorf("%s: argument %d: want %s, got %s", fn, n, want, got.TypeName())
}
