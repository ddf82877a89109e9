package engine

import (
	"context"
	"io"

	"github.com/matzehuels/roomkit/pkg/errors"
	pkgio "github.com/matzehuels/roomkit/pkg/io"
	"github.com/matzehuels/roomkit/pkg/observability"
	"github.com/matzehuels/roomkit/pkg/placement"
)

// ShareLink encodes the current layout into a link at origin. An empty
// origin uses Options.ShareOrigin.
func (e *Engine) ShareLink(origin string) (string, error) {
	if origin == "" {
		origin = e.origin
	}
	if origin == "" {
		return "", errors.New(errors.ErrCodeInvalidURL, "no share origin configured")
	}
	return pkgio.ToShareLink(e.Snapshot(), origin)
}

// BillOfMaterials returns the grouped bill of materials.
func (e *Engine) BillOfMaterials() []pkgio.BOMLine {
	return pkgio.BillOfMaterials(e.placement.Placed(), e.Catalog())
}

// BillOfMaterialsCSV returns the bill of materials as quoted CSV.
func (e *Engine) BillOfMaterialsCSV() string {
	return pkgio.BillOfMaterialsCSV(e.placement.Placed(), e.Catalog())
}

// ExportJSON writes the current layout to w as indented JSON.
func (e *Engine) ExportJSON(w io.Writer) error {
	return pkgio.WriteJSON(e.Snapshot(), w)
}

// ImportJSON replaces the layout with a JSON document read from r. The
// load is not recorded in undo history; it is persisted like any change.
func (e *Engine) ImportJSON(r io.Reader) (placement.LoadResult, error) {
	room, err := pkgio.ReadJSON(r)
	if err != nil {
		return placement.LoadResult{}, err
	}
	return e.load(room), nil
}

// ImportShareLink replaces the layout with the one carried by link.
func (e *Engine) ImportShareLink(ctx context.Context, link string) (placement.LoadResult, error) {
	res := pkgio.FromShareLink(link)
	observability.Share().OnShareDecoded(ctx, string(res.Reason))
	if !res.OK {
		return placement.LoadResult{}, errors.New(errors.ErrCodeInvalidFormat, "share link carries no room (%s)", res.Reason)
	}
	return e.load(res.Room), nil
}

func (e *Engine) load(room pkgio.SerializedRoom) placement.LoadResult {
	lr := e.placement.Load(room.Placed)
	if len(lr.Fallbacks) > 0 {
		e.logger.Warn("unknown catalog ids replaced with default item", "instances", lr.Fallbacks)
	}
	return lr
}

// SetBackgroundImage selects an uploaded background image and persists it.
func (e *Engine) SetBackgroundImage(url string) error {
	if err := e.background.SetImageURL(url); err != nil {
		return err
	}
	e.persistBackground()
	return nil
}

// SetBackgroundTemplate selects a built-in room template and persists it.
func (e *Engine) SetBackgroundTemplate(id string) error {
	if err := e.background.SetTemplateID(id); err != nil {
		return err
	}
	e.persistBackground()
	return nil
}

// ClearBackground removes the background and persists the change.
func (e *Engine) ClearBackground() {
	e.background.Clear()
	e.persistBackground()
}
