package x11

import (
	"errors"
	"strings"
	"testing"
)

func TestProtocolErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ProtocolError
		want string
	}{
		{
			name: "transport failure",
			err:  &ProtocolError{Property: netWmPid, Window: 100, Err: errors.New("connection reset")},
			want: "unable to retrieve _NET_WM_PID from window 100: connection reset",
		},
		{
			name: "malformed reply",
			err:  &ProtocolError{Property: netActiveWindow, Window: 1, Reason: "empty reply"},
			want: "unable to retrieve _NET_ACTIVE_WINDOW from window 1: empty reply",
		},
		{
			name: "no window yet",
			err:  &ProtocolError{Property: wmState, Err: errors.New("intern failed")},
			want: "unable to retrieve WM_STATE: intern failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestErrorUnwrapChains(t *testing.T) {
	cause := errors.New("display unreachable")

	if !errors.Is(&ConnectionError{Err: cause}, cause) {
		t.Fatal("ConnectionError should unwrap to its cause")
	}
	if !errors.Is(&ProtocolError{Property: netWmPid, Err: cause}, cause) {
		t.Fatal("ProtocolError should unwrap to its cause")
	}
}

func TestStateErrorNamesNormalState(t *testing.T) {
	err := &StateError{Window: 42, State: StateIconic}
	msg := err.Error()
	if !strings.Contains(msg, "window 42") || !strings.Contains(msg, "3 != 1") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestUnimplementedErrorNamesClass(t *testing.T) {
	err := &UnimplementedError{Class: "xterm"}
	if !strings.Contains(err.Error(), `"xterm"`) {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
