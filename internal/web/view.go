package web

import (
	"github.com/comigor/lovechest/internal/chest"
	"github.com/comigor/lovechest/internal/fault"
)

const (
	labelLocked   = "Schatz öffnen"
	labelUnlocked = "Komm morgen wieder 😘"
)

// Button describes the open button.
type Button struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// View is the JSON body of every chest endpoint.
type View struct {
	State     string   `json:"state"`
	Message   string   `json:"message,omitempty"`
	Day       string   `json:"day"`
	Button    Button   `json:"button"`
	Animate   bool     `json:"animate"`
	Persisted bool     `json:"persisted"`
	Notices   []string `json:"notices,omitempty"`
}

func newView(out chest.Outcome) View {
	v := View{
		State:     string(out.Event.State),
		Message:   out.Event.Message,
		Day:       out.Event.Day,
		Button:    Button{Label: labelLocked},
		Persisted: out.Persisted,
	}
	if out.Event.State == chest.StateUnlocked {
		v.Button = Button{Label: labelUnlocked, Disabled: true}
	}
	v.addNotices(out.Notices...)
	return v
}

// addNotices appends one notice per distinct failure kind.
func (v *View) addNotices(errs ...error) {
	for _, err := range errs {
		n := fault.Notice(err)
		dup := false
		for _, have := range v.Notices {
			if have == n {
				dup = true
				break
			}
		}
		if !dup {
			v.Notices = append(v.Notices, n)
		}
	}
}
