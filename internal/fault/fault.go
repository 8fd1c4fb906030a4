// Package fault defines the closed set of failure kinds the chest reports to
// its presentation layer. None of them is fatal: each maps to a notice the
// user can read while the chest keeps working.
package fault

import (
	"errors"
	"fmt"
)

// Kind enumerates the failure variants.
type Kind int

const (
	// StorageFailure: a read, write, remove or clear against the store failed.
	StorageFailure Kind = iota + 1
	// PresentationTargetMissing: a render target the adapter needs is absent.
	PresentationTargetMissing
	// AssetFailure: an animation asset failed to load or timed out.
	AssetFailure
)

func (k Kind) String() string {
	switch k {
	case StorageFailure:
		return "StorageFailure"
	case PresentationTargetMissing:
		return "PresentationTargetMissing"
	case AssetFailure:
		return "AssetFailure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a tagged failure. Op names the operation that failed, e.g.
// "set lastOpenedDate" or "load assets/sparkles.svg".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: AssetFailure})
// works without comparing ops.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Storage wraps err as a StorageFailure.
func Storage(op string, err error) error {
	return &Error{Kind: StorageFailure, Op: op, Err: err}
}

// Presentation wraps err as a PresentationTargetMissing failure.
func Presentation(op string, err error) error {
	return &Error{Kind: PresentationTargetMissing, Op: op, Err: err}
}

// Asset wraps err as an AssetFailure.
func Asset(op string, err error) error {
	return &Error{Kind: AssetFailure, Op: op, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

const (
	noticeStorage      = "Es gab ein Problem beim Speichern. Deine Daten sind möglicherweise nicht gespeichert."
	noticePresentation = "Es gab ein Problem beim Laden der Seite. Bitte lade die Seite neu."
	noticeAsset        = "Es gab ein Problem beim Laden der Animationen. Die Schatztruhe funktioniert trotzdem!"
	noticeUnexpected   = "Es ist ein unerwarteter Fehler aufgetreten. Bitte lade die Seite neu."
)

// Notice returns the user-facing text for err.
func Notice(err error) string {
	kind, ok := KindOf(err)
	if !ok {
		return noticeUnexpected
	}
	switch kind {
	case StorageFailure:
		return noticeStorage
	case PresentationTargetMissing:
		return noticePresentation
	case AssetFailure:
		return noticeAsset
	default:
		return noticeUnexpected
	}
}
