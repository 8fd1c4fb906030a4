package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf_ThroughWrapping(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("open chest: %w", Storage("set chestOpen", base))

	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, StorageFailure, kind)
	require.ErrorIs(t, err, base)
	require.ErrorIs(t, err, &Error{Kind: StorageFailure})
	require.NotErrorIs(t, err, &Error{Kind: AssetFailure})
	require.Equal(t, "StorageFailure: set chestOpen: disk full", errors.Unwrap(err).Error())
}

func TestKindOf_PlainError(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	require.False(t, ok)
}

func TestNotice(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"storage", Storage("get lastOpenedDate", nil), noticeStorage},
		{"presentation", Presentation("render message", nil), noticePresentation},
		{"asset", Asset("load assets/sparkles.svg", nil), noticeAsset},
		{"unknown kind", &Error{Kind: Kind(42)}, noticeUnexpected},
		{"plain", errors.New("boom"), noticeUnexpected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Notice(tc.err))
		})
	}
}
