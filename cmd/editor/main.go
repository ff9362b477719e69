// Command editor is the interactive floorplan studio: a 2D plan canvas
// with draw/select/opening/stage tools, gesture-scoped undo, live 3D
// reconstruction stats and binary glTF export.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ebitenui/ebitenui"
	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"golang.design/x/clipboard"

	"github.com/venuekit/floorplan/config"
	"github.com/venuekit/floorplan/editor"
	"github.com/venuekit/floorplan/plan"
	"github.com/venuekit/floorplan/recon"
	"github.com/venuekit/floorplan/template"
)

// autosaveDelay is how long the document must sit unchanged before it is
// written to the autosave path.
const autosaveDelay = 2 * time.Second

type StudioGame struct {
	ui      *ebitenui.UI
	toolBar *ToolBar
	session *editor.Session
	canvas  *Canvas

	cfg  config.Config
	mats *recon.Materials

	filePath string
	watcher  *plan.Watcher

	clipboardOK bool

	stats       string
	status      string
	statusUntil time.Time

	dirty             bool
	dirtyAt           time.Time
	ignoreReloadUntil time.Time
}

func (g *StudioGame) setStatus(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(4 * time.Second)
}

func (g *StudioGame) setMode(m editor.Mode) {
	if g.session.Mode() == m {
		return
	}
	g.session.SetMode(m)
	g.toolBar.SetMode(m)
}

// refreshStats rebuilds the 3D scene summary shown in the status line.
// Plans are small; a full rebuild per edit is well under a frame.
func (g *StudioGame) refreshStats() {
	doc := g.session.Doc()
	scene := recon.Build(doc, g.mats)
	closed := "open"
	if scene.Floor != nil {
		closed = "closed"
	}
	g.stats = fmt.Sprintf("walls %d  doors %d  windows %d  stages %d | 3D: %d boxes, %s perimeter",
		len(doc.Walls), len(doc.Doors), len(doc.Windows), len(doc.Stages), len(scene.Boxes), closed)
}

func (g *StudioGame) onDocumentChanged(*plan.Document) {
	g.dirty = true
	g.dirtyAt = time.Now()
	g.refreshStats()
}

func (g *StudioGame) Update() error {
	g.drainWatcher()

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)

	if ctrl {
		if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
			g.session.Undo()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyY) {
			g.session.Redo()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyS) {
			g.save()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyC) {
			g.copyToClipboard()
		}
	} else {
		if inpututil.IsKeyJustPressed(ebiten.KeyV) {
			g.setMode(editor.ModeSelect)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyW) {
			g.setMode(editor.ModeDraw)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyH) {
			g.setMode(editor.ModePan)
		}
		toolKeys := []ebiten.Key{
			ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
			ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
		}
		for i, k := range toolKeys {
			if inpututil.IsKeyJustPressed(k) {
				g.setMode(editor.Mode(i))
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.session.KeyDelete()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.session.KeyEscape()
	}
	g.session.SetSpaceHeld(ebiten.IsKeyPressed(ebiten.KeySpace))

	cx, cy := ebiten.CursorPosition()
	cursor := cp.Vector{X: float64(cx), Y: float64(cy)}

	if !ebuiinput.UIHovered {
		if _, wy := ebiten.Wheel(); wy != 0 {
			g.session.Wheel(cursor, wy)
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.session.PointerDown(cursor, editor.ButtonLeft)
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
			g.session.PointerDown(cursor, editor.ButtonMiddle)
		}
	}
	g.session.PointerMove(cursor)
	// Releases always reach the session so drags end even over the UI.
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.session.PointerUp(cursor, editor.ButtonLeft)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		g.session.PointerUp(cursor, editor.ButtonMiddle)
	}

	g.ui.Update()

	if g.dirty && time.Since(g.dirtyAt) > autosaveDelay {
		g.autosave()
		g.dirty = false
	}
	return nil
}

// drainWatcher applies external edits of the opened file, skipping the
// events produced by our own saves.
func (g *StudioGame) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case _, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if time.Now().Before(g.ignoreReloadUntil) {
				continue
			}
			g.reload()
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("watch %s: %v", g.filePath, err)
		default:
			return
		}
	}
}

func (g *StudioGame) Draw(screen *ebiten.Image) {
	g.canvas.Draw(screen, g.session)
	g.ui.Draw(screen)

	line := fmt.Sprintf("[%s] zoom %.2f | %s", g.session.Mode(), g.session.Camera.Zoom, g.stats)
	if g.status != "" && time.Now().Before(g.statusUntil) {
		line += " | " + g.status
	}
	ebitenutil.DebugPrintAt(screen, line, 8, screen.Bounds().Dy()-18)
}

func (g *StudioGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func main() {
	filePath := flag.String("file", "plans/venue.json", "Floorplan JSON document to open")
	configPath := flag.String("config", "studio.yaml", "Studio configuration file")
	flag.Parse()

	log.Println("Floorplan studio starting...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var doc *plan.Document
	if _, statErr := os.Stat(*filePath); statErr == nil {
		doc, err = plan.Load(*filePath)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *filePath, err)
		}
	} else {
		log.Printf("%s not found, starting with an empty plan", *filePath)
		doc = plan.New()
	}

	g := &StudioGame{
		canvas:   &Canvas{},
		cfg:      cfg,
		mats:     cfg.Materials(),
		filePath: *filePath,
	}
	g.session = editor.NewSession(doc, cfg.EditorDefaults(), g.onDocumentChanged)
	g.refreshStats()

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	if w, err := plan.Watch(*filePath); err != nil {
		log.Printf("File watching disabled: %v", err)
	} else {
		g.watcher = w
		defer w.Close()
	}

	templatesDir := cfg.Templates
	if templatesDir == "" {
		templatesDir = "templates"
	}
	var templates []Action
	for _, path := range template.List(templatesDir) {
		p := path
		templates = append(templates, Action{Label: "New: " + templateLabel(p), Do: func() { g.loadTemplate(p) }})
	}

	actions := []Action{
		{Label: "Undo", Do: g.session.Undo},
		{Label: "Redo", Do: g.session.Redo},
		{Label: "Save", Do: g.save},
		{Label: "Export", Do: g.exportGLB},
	}

	g.ui, g.toolBar = BuildStudioUI(
		func(m editor.Mode) {
			if g.session.Mode() != m {
				g.session.SetMode(m)
			}
		},
		g.session.Mode(),
		actions,
		templates,
	)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
