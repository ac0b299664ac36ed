package file

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapStoreBareSentinel(t *testing.T) {
	err := wrapStore("rename", ErrFileNotFound)

	if got := err.Error(); got != "rename: NOT_FOUND" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected errors.Is to match ErrFileNotFound")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected kind %s, got %s", KindNotFound, KindOf(err))
	}
}

func TestWrapStoreKeepsCause(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
		msg  string
	}{
		{
			name: "wrapped sentinel",
			err:  fmt.Errorf("lookup: %w", ErrNameExists),
			kind: KindNameExists,
			msg:  "upload: ALREADY_EXISTS: lookup: ALREADY_EXISTS",
		},
		{
			name: "plain store failure",
			err:  errors.New("connection reset"),
			kind: KindStorage,
			msg:  "upload: DB_ERROR: connection reset",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := wrapStore("upload", tc.err)
			if KindOf(err) != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, KindOf(err))
			}
			if got := err.Error(); got != tc.msg {
				t.Fatalf("unexpected message %q", got)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected cause to stay in the chain")
			}
		})
	}
}
