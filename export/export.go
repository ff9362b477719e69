// Package export serializes a reconstructed scene into a binary glTF
// (GLB) asset and hands it, together with the source document, to a
// caller-supplied sink. Persisting the asset is the caller's job; the
// package performs no network or filesystem access of its own.
package export

import (
	"errors"
	"fmt"

	"github.com/venuekit/floorplan/plan"
	"github.com/venuekit/floorplan/recon"
)

// Result is the payload delivered on a successful export. Document is a
// clone, so the asset always travels with exactly the plan that produced
// it even if the live document keeps changing.
type Result struct {
	Data              []byte
	SuggestedFileName string
	Document          *plan.Document
}

// Sink receives the export payload. It is invoked exactly once per
// successful export and never on failure.
type Sink func(Result)

// ErrEmptyScene is returned when there is nothing to export.
var ErrEmptyScene = errors.New("export: scene has no geometry")

// GLB encodes the scene and delivers it through sink. On failure the
// error is returned, sink is not called, and no partial output exists.
// Neither the scene nor the document is mutated.
func GLB(scene *recon.Scene, doc *plan.Document, sink Sink) error {
	if scene.Empty() {
		return ErrEmptyScene
	}
	data, err := encodeGLB(scene)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if sink != nil {
		sink(Result{
			Data:              data,
			SuggestedFileName: suggestedName(doc),
			Document:          doc.Clone(),
		})
	}
	return nil
}

func suggestedName(doc *plan.Document) string {
	return fmt.Sprintf("floorplan-%dwalls.glb", len(doc.Walls))
}
