package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.design/x/clipboard"

	"github.com/venuekit/floorplan/export"
	"github.com/venuekit/floorplan/plan"
	"github.com/venuekit/floorplan/recon"
	"github.com/venuekit/floorplan/template"
)

// saveSuppressWindow covers the watcher events our own writes generate.
const saveSuppressWindow = 500 * time.Millisecond

func (g *StudioGame) save() {
	if err := plan.Save(g.session.Doc(), g.filePath); err != nil {
		log.Printf("save %s: %v", g.filePath, err)
		g.setStatus("save failed: " + err.Error())
		return
	}
	g.ignoreReloadUntil = time.Now().Add(saveSuppressWindow)
	g.dirty = false
	g.setStatus("saved " + g.filePath)
}

func (g *StudioGame) autosave() {
	if !g.cfg.Autosave.Enabled || g.cfg.Autosave.Path == "" {
		return
	}
	if err := plan.Save(g.session.Doc(), g.cfg.Autosave.Path); err != nil {
		log.Printf("autosave %s: %v", g.cfg.Autosave.Path, err)
	}
}

func (g *StudioGame) exportGLB() {
	scene := recon.Build(g.session.Doc(), g.mats)
	err := export.GLB(scene, g.session.Doc(), func(r export.Result) {
		out := filepath.Join(filepath.Dir(g.filePath), r.SuggestedFileName)
		if err := os.WriteFile(out, r.Data, 0644); err != nil {
			log.Printf("export %s: %v", out, err)
			g.setStatus("export failed: " + err.Error())
			return
		}
		g.setStatus(fmt.Sprintf("exported %s (%d KB)", out, len(r.Data)/1024))
	})
	if err != nil {
		log.Printf("export: %v", err)
		g.setStatus("export failed: " + err.Error())
	}
}

func (g *StudioGame) copyToClipboard() {
	if !g.clipboardOK {
		g.setStatus("clipboard unavailable")
		return
	}
	data, err := plan.Encode(g.session.Doc())
	if err != nil {
		log.Printf("encode for clipboard: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.setStatus("plan JSON copied")
}

// reload replaces the session document from disk after an external edit.
func (g *StudioGame) reload() {
	doc, err := plan.Load(g.filePath)
	if err != nil {
		log.Printf("reload %s: %v", g.filePath, err)
		return
	}
	g.session.ReplaceDocument(doc)
	g.setStatus("reloaded from disk")
}

func (g *StudioGame) loadTemplate(path string) {
	doc, err := template.RunFile(path, g.templateDefaults())
	if err != nil {
		log.Printf("template %s: %v", path, err)
		g.setStatus("template failed: " + err.Error())
		return
	}
	g.session.ReplaceDocument(doc)
	g.setStatus("new plan from " + filepath.Base(path))
}

func templateLabel(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".tengo")
	return strings.ReplaceAll(name, "_", " ")
}

func (g *StudioGame) templateDefaults() template.Defaults {
	d := g.cfg.Defaults
	return template.Defaults{
		WallThickness: d.WallThickness,
		WallHeight:    d.WallHeight,
		WallTexture:   d.WallTexture,
		DoorHeight:    d.Door.Height,
		WindowHeight:  d.Window.Height,
		WindowSill:    d.Window.Sill,
		StageHeight:   d.Stage.Height,
		StageColor:    d.Stage.Color,
	}
}
