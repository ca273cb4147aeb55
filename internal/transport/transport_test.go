// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	"errors"
	"guitartuner/internal/tuner"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeController applies commands with the real parser but no engine.
type fakeController struct {
	mu    sync.Mutex
	state tuner.State
	texts []string
}

func (f *fakeController) HandleCommand(text string) tuner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	cmd := tuner.ParseCommand(text)
	switch cmd.Kind {
	case tuner.SetTarget:
		f.state.Target = cmd.Note
	case tuner.EnterTunerMode:
		f.state.Active = true
	case tuner.ExitTunerMode:
		f.state.Active = false
	}
	return cmd
}

func (f *fakeController) Snapshot() tuner.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

type wireSnapshot struct {
	Type    string         `json:"type"`
	Active  bool           `json:"active"`
	Target  string         `json:"target"`
	Reading *tuner.Reading `json:"reading"`
	Display string         `json:"display"`
}

func dial(t *testing.T, wst *WebSocketTransport) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(wst.Handler())
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) wireSnapshot {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var snap wireSnapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	return snap
}

func TestSnapshotJSON(t *testing.T) {
	s := tuner.State{Active: true, Target: "A", Reading: &tuner.Reading{Note: "A", Pitch: "A2", Frequency: 110, Cents: 0}}
	data, err := json.Marshal(NewSnapshot(s))
	if err != nil {
		t.Fatal(err)
	}

	var got wireSnapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != "state" || !got.Active || got.Target != "A" || got.Reading == nil || got.Reading.Note != "A" {
		t.Errorf("unexpected snapshot %s", data)
	}
	if got.Display != tuner.FormatDisplay(s) {
		t.Errorf("display mismatch:\n%s", got.Display)
	}
}

func TestWebSocketCommands(t *testing.T) {
	ctrl := &fakeController{state: tuner.NewState()}
	wst := NewWebSocketTransport("", ctrl)
	defer wst.Close()

	conn := dial(t, wst)

	// Greeting.
	if snap := readSnapshot(t, conn); snap.Type != "state" || snap.Target != "E" || snap.Active {
		t.Fatalf("unexpected greeting %+v", snap)
	}

	if err := conn.WriteJSON(clientMessage{Type: "command", Text: "tune to g#"}); err != nil {
		t.Fatal(err)
	}
	if snap := readSnapshot(t, conn); snap.Target != "G#" || snap.Active {
		t.Errorf("after target command got %+v", snap)
	}

	// Malformed and unknown frames are ignored; the next command still works.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(clientMessage{Type: "hello"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(clientMessage{Type: "command", Text: "tuner mode"}); err != nil {
		t.Fatal(err)
	}
	if snap := readSnapshot(t, conn); !snap.Active {
		t.Errorf("after enter command got %+v", snap)
	}

	ctrl.mu.Lock()
	texts := append([]string(nil), ctrl.texts...)
	ctrl.mu.Unlock()
	if len(texts) != 2 {
		t.Errorf("controller saw %v, want two commands", texts)
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	wst := NewWebSocketTransport("", nil)
	defer wst.Close()

	a := dial(t, wst)
	b := dial(t, wst)

	deadline := time.Now().Add(2 * time.Second)
	for wst.Clients() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("clients did not register")
		}
		time.Sleep(time.Millisecond)
	}

	want := NewSnapshot(tuner.State{Target: "D"})
	if err := wst.Send(want); err != nil {
		t.Fatal(err)
	}
	for _, conn := range []*websocket.Conn{a, b} {
		if snap := readSnapshot(t, conn); snap.Target != "D" {
			t.Errorf("client got %+v", snap)
		}
	}
}

func TestWebSocketSendAfterClose(t *testing.T) {
	wst := NewWebSocketTransport("", nil)
	if err := wst.Close(); err != nil {
		t.Fatal(err)
	}
	if err := wst.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := wst.Send("late"); err == nil {
		t.Error("expected an error sending after Close")
	}
}

type failingTransport struct{ sent int }

func (f *failingTransport) Send(any) error {
	f.sent++
	return errors.New("send failed")
}

func (f *failingTransport) Close() error {
	return errors.New("close failed")
}

func TestMulti(t *testing.T) {
	bad := &failingTransport{}
	m := Multi{NewLoggingTransport(), bad}

	if err := m.Send(NewSnapshot(tuner.NewState())); err == nil || !strings.Contains(err.Error(), "send failed") {
		t.Errorf("Send error = %v", err)
	}
	if bad.sent != 1 {
		t.Errorf("failing transport received %d sends, want 1", bad.sent)
	}
	if err := m.Close(); err == nil || !strings.Contains(err.Error(), "close failed") {
		t.Errorf("Close error = %v", err)
	}
	if err := (Multi{NewLoggingTransport()}).Send(make(chan int)); err != nil {
		t.Errorf("logging transport should swallow marshal errors, got %v", err)
	}
}
