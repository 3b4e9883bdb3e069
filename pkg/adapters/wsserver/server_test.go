package wsserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/user/avatarcrop/pkg/adapters/ggrenderer"
	"github.com/user/avatarcrop/pkg/adapters/sourceloader"
	"github.com/user/avatarcrop/pkg/editor"
	"github.com/user/avatarcrop/pkg/mocks"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Editor.CanvasWidth = 120
	opts.Editor.CanvasHeight = 120
	opts.FrameInterval = time.Millisecond
	return opts
}

func newTestServer(t *testing.T) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	srv := New(ggrenderer.New(), sourceloader.New(mocks.NewFileSystem()), nil, mocks.NewLogger(), testOptions())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return ts, conn
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// waitFor reads until one message of every wanted kind has arrived.
// A kind is "binary" or the type of a JSON message. Other messages are dropped.
func waitFor(t *testing.T, conn *websocket.Conn, kinds ...string) map[string][]byte {
	t.Helper()
	got := make(map[string][]byte)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for len(got) < len(kinds) {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %v, got %d: %v", kinds, len(got), err)
		}
		kind := "binary"
		if messageType == websocket.TextMessage {
			var head struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(data, &head); err != nil {
				t.Fatalf("invalid JSON %q: %v", data, err)
			}
			kind = head.Type
		}
		for _, want := range kinds {
			if kind == want {
				if _, seen := got[kind]; !seen {
					got[kind] = data
				}
			}
		}
	}
	return got
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func upload(t *testing.T, conn *websocket.Conn) stateMessage {
	t.Helper()
	if err := conn.WriteMessage(websocket.BinaryMessage, pngBytes(t, 300, 200)); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := waitFor(t, conn, "binary", "state")

	if data := got["binary"]; len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Errorf("expected a JPEG export, got %d bytes", len(data))
	}
	var state stateMessage
	json.Unmarshal(got["state"], &state)
	return state
}

func TestServer_UploadExportsImage(t *testing.T) {
	_, conn := newTestServer(t)

	state := upload(t, conn)

	if state.State != "ready" {
		t.Errorf("expected ready, got %s", state.State)
	}
	if state.Image.Width != 300 || state.Image.Height != 200 {
		t.Errorf("expected 300x200 image, got %vx%v", state.Image.Width, state.Image.Height)
	}
	if state.Caption != "300x200px • Drag to move • Scroll to zoom" {
		t.Errorf("unexpected caption %q", state.Caption)
	}
	if state.ScaleLabel != "Scale: 0%" {
		t.Errorf("expected Scale: 0%%, got %q", state.ScaleLabel)
	}
}

func TestServer_WheelZoomsIn(t *testing.T) {
	_, conn := newTestServer(t)
	before := upload(t, conn)

	sendJSON(t, conn, map[string]any{"type": "wheel", "deltaY": -100})

	var after stateMessage
	json.Unmarshal(waitFor(t, conn, "state")["state"], &after)

	if after.Percent <= 0 {
		t.Errorf("expected percent above 0, got %v", after.Percent)
	}
	if after.Transform.Scale <= before.Transform.Scale {
		t.Errorf("expected scale above %v, got %v", before.Transform.Scale, after.Transform.Scale)
	}
}

func TestServer_TouchSwitchesCaption(t *testing.T) {
	_, conn := newTestServer(t)
	upload(t, conn)

	sendJSON(t, conn, clientMessage{Event: editor.Event{
		Type:    editor.EventTouchStart,
		Touches: []editor.Point{{X: 60, Y: 60}},
	}})

	var state stateMessage
	json.Unmarshal(waitFor(t, conn, "state")["state"], &state)

	if !strings.HasSuffix(state.Caption, "Pinch to zoom") {
		t.Errorf("expected touch caption, got %q", state.Caption)
	}
}

func TestServer_Download(t *testing.T) {
	_, conn := newTestServer(t)
	upload(t, conn)

	sendJSON(t, conn, map[string]string{"type": "download"})

	var msg downloadMessage
	json.Unmarshal(waitFor(t, conn, "download")["download"], &msg)

	if msg.Name != "profile-picture.jpg" {
		t.Errorf("expected profile-picture.jpg, got %q", msg.Name)
	}
	if !strings.HasPrefix(msg.Data, "data:image/jpeg;base64,") {
		t.Errorf("expected a JPEG data URL, got %.40q", msg.Data)
	}
	if !strings.HasPrefix(msg.Caption, "120x120 • JPG") {
		t.Errorf("unexpected caption %q", msg.Caption)
	}
}

func TestServer_Reupload(t *testing.T) {
	_, conn := newTestServer(t)
	upload(t, conn)

	sendJSON(t, conn, map[string]string{"type": "reupload"})

	got := waitFor(t, conn, "cleared", "state")
	var state stateMessage
	json.Unmarshal(got["state"], &state)
	if state.State != "loading" {
		t.Errorf("expected loading, got %s", state.State)
	}
}

func TestServer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"download before upload", `{"type":"download"}`, ""},
		{"unknown event", `{"type":"spin"}`, "spin"},
		{"local path", `{"type":"load","source":"/etc/passwd"}`, "unsupported source"},
		{"invalid json", `{"type":`, "invalid message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, conn := newTestServer(t)
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.message)); err != nil {
				t.Fatal(err)
			}

			var msg errorMessage
			json.Unmarshal(waitFor(t, conn, "error")["error"], &msg)
			if !strings.Contains(msg.Message, tt.want) {
				t.Errorf("expected %q in %q", tt.want, msg.Message)
			}
		})
	}
}

func TestServer_UndecodableUpload(t *testing.T) {
	_, conn := newTestServer(t)

	conn.WriteMessage(websocket.BinaryMessage, []byte("not an image"))

	var msg errorMessage
	json.Unmarshal(waitFor(t, conn, "error")["error"], &msg)
	if msg.Message == "" {
		t.Error("expected an error message")
	}
}

func TestServer_Index(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte(`new WebSocket(`)) {
		t.Error("expected the editor page")
	}

	resp, err = http.Get(ts.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListenAndServe_StopsWithContext(t *testing.T) {
	srv := New(ggrenderer.New(), sourceloader.New(mocks.NewFileSystem()), nil, mocks.NewLogger(), testOptions())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected ListenAndServe to return")
	}
}

func TestNormalizingLoader(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	big := image.NewRGBA(image.Rect(0, 0, 2400, 2400))

	loader := &normalizingLoader{
		inner: mocks.NewImageLoader(map[string]image.Image{"a.png": src}),
		normalizer: &mocks.Normalizer{NormalizeFunc: func(img image.Image) (image.Image, []byte, error) {
			return big, []byte{1}, nil
		}},
	}

	img, err := loader.Load(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img != big {
		t.Error("expected the normalized image")
	}

	if _, err := loader.Load(context.Background(), "missing.png"); err == nil {
		t.Error("expected error from the inner loader")
	}

	failing := &normalizingLoader{
		inner: mocks.NewImageLoader(map[string]image.Image{"a.png": src}),
		normalizer: &mocks.Normalizer{NormalizeFunc: func(img image.Image) (image.Image, []byte, error) {
			return nil, nil, errors.New("too large")
		}},
	}
	if _, err := failing.Load(context.Background(), "a.png"); err == nil || !strings.Contains(err.Error(), "normalize") {
		t.Errorf("expected normalize error, got %v", err)
	}
}

func TestRemoteSource(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://example.com/me.jpg", true},
		{"http://example.com/me.jpg", true},
		{"data:image/png;base64,AAAA", false},
		{"/etc/passwd", false},
		{"me.jpg", false},
		{"file:///etc/passwd", false},
	}
	for _, tt := range tests {
		if got := remoteSource(tt.source); got != tt.want {
			t.Errorf("remoteSource(%q): expected %v, got %v", tt.source, tt.want, got)
		}
	}
}

func TestServer_AcceptSource(t *testing.T) {
	tests := []struct {
		source      string
		allowRemote bool
		want        bool
	}{
		{"data:image/png;base64,AAAA", false, true},
		{"https://example.com/me.jpg", false, false},
		{"http://127.0.0.1:9/admin", false, false},
		{"https://example.com/me.jpg", true, true},
		{"/etc/passwd", true, false},
	}
	for _, tt := range tests {
		opts := testOptions()
		opts.AllowRemote = tt.allowRemote
		srv := New(ggrenderer.New(), sourceloader.New(mocks.NewFileSystem()), nil, mocks.NewLogger(), opts)
		if got := srv.acceptSource(tt.source); got != tt.want {
			t.Errorf("acceptSource(%q, remote=%v): expected %v, got %v", tt.source, tt.allowRemote, tt.want, got)
		}
	}
}

func TestServer_LoadRejectsRemoteByDefault(t *testing.T) {
	_, conn := newTestServer(t)

	if err := conn.WriteJSON(map[string]string{"type": "load", "source": "http://127.0.0.1:9/me.jpg"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := waitFor(t, conn, "error")
	if !strings.Contains(string(msg["error"]), "unsupported source") {
		t.Errorf("expected unsupported source error, got %v", msg)
	}
}
