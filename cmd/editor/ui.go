package main

import (
	"bytes"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/venuekit/floorplan/editor"
)

// BuildStudioUI assembles the overlay chrome: the tool radio group top
// center, file/history actions top right, and template starters top left.
// The canvas underneath receives everything the UI does not swallow.
func BuildStudioUI(
	onToolSelected func(editor.Mode),
	initialTool editor.Mode,
	actions []Action,
	templates []Action,
) (*ebitenui.UI, *ToolBar) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newStudioTheme(&fontFace)

	toolbarContainer, toolBar := buildToolBar(ui.PrimaryTheme, &fontFace, onToolSelected, initialTool)
	actionBar := buildActionBar(ui.PrimaryTheme, &fontFace, actions)
	templateBar := buildActionBar(ui.PrimaryTheme, &fontFace, templates)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	toolbarContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	actionBar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	templateBar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(toolbarContainer)
	root.AddChild(actionBar)
	if len(templates) > 0 {
		root.AddChild(templateBar)
	}

	ui.Container = root
	return ui, toolBar
}
