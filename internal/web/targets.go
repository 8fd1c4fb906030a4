package web

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/comigor/lovechest/internal/chest"
	"github.com/comigor/lovechest/internal/fault"
)

// PageName is the page the page script renders into.
const PageName = "index.html"

// Element ids the page script needs for each state.
var targets = map[chest.State][]string{
	chest.StateLocked:   {"chest-container", "chest-closed", "chest-button"},
	chest.StateUnlocked: {"chest-container", "chest-open", "chest-button", "message-display"},
}

// PageTargets is a chest.Renderer that checks the served page still carries
// every element the event will be rendered into. With no assets it accepts
// everything.
type PageTargets struct {
	Assets fs.FS
}

var _ chest.Renderer = PageTargets{}

func (p PageTargets) Render(_ context.Context, ev chest.Event) error {
	if p.Assets == nil {
		return nil
	}
	page, err := fs.ReadFile(p.Assets, PageName)
	if err != nil {
		return fault.Presentation("read "+PageName, err)
	}
	html := string(page)
	for _, id := range targets[ev.State] {
		if !strings.Contains(html, `id="`+id+`"`) {
			return fault.Presentation("render "+string(ev.State), fmt.Errorf("element with id %q not found", id))
		}
	}
	return nil
}
