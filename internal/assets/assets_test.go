package assets

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestWorkspace(t *testing.T) {
	root := t.TempDir()

	_, err := NewWorkspace(root, "../escape")
	assert.Error(t, err)
	_, err = NewWorkspace(root, "")
	assert.Error(t, err)

	ws, err := NewWorkspace(root, "7or2o")
	require.NoError(t, err)
	require.NoError(t, ws.Prepare())

	assert.DirExists(t, ws.StickersDir())
	assert.DirExists(t, ws.ResizedDir())
	assert.Equal(t, filepath.Join(root, "7or2o", "my-summer-trip"), ws.VideoBase("My Summer Trip!"))
	assert.Equal(t, filepath.Join(root, "7or2o", "video"), ws.VideoBase(""))
	assert.Equal(t, filepath.Join(root, "7or2o", "resized", "abc.png"), ws.ResizedPath("abc"))

	paths := ws.OutputPaths()
	assert.Equal(t, filepath.Join(root, "7or2o", "storyWithStickers.mp4"), paths.Stickers)
	assert.Equal(t, filepath.Join(root, "7or2o", "storyWithSubtitles.mp4"), paths.Subtitles)
	assert.Equal(t, filepath.Join(root, "7or2o", "final.mp4"), paths.Text)
	assert.Equal(t, filepath.Join(root, "7or2o", "subtitle.srt"), paths.Sidecar)

	_, ok := ws.ExistingVideo("My Summer Trip")
	assert.False(t, ok)
	require.NoError(t, os.WriteFile(ws.VideoBase("My Summer Trip")+".mp4", []byte("data"), 0644))
	got, ok := ws.ExistingVideo("My Summer Trip")
	assert.True(t, ok)
	assert.Equal(t, ws.VideoBase("My Summer Trip")+".mp4", got)
}

func TestFetch(t *testing.T) {
	img := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/typed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp; charset=binary")
		w.Write([]byte("RIFF....WEBP"))
	})
	mux.HandleFunc("/sniffed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(img)
	})
	mux.HandleFunc("/video", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write(bytes.Repeat([]byte{1}, 4096))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(5*time.Second, zaptest.NewLogger(t))
	ctx := context.Background()

	path, err := d.Fetch(ctx, srv.URL+"/typed", filepath.Join(dir, "a"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.webp"), path)

	path, err = d.Fetch(ctx, srv.URL+"/sniffed", filepath.Join(dir, "b"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.png"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img, data)

	path, err = d.Fetch(ctx, srv.URL+"/video", filepath.Join(dir, "c"))
	require.NoError(t, err)
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 4096, fi.Size())
	assert.NoFileExists(t, path+partialSuffix)

	_, err = d.Fetch(ctx, srv.URL+"/missing", filepath.Join(dir, "d"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewDownloader(time.Second, zaptest.NewLogger(t))
	_, err := d.Fetch(ctx, srv.URL, filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtFromContentType(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":               "jpg",
		"image/png":                "png",
		"video/mp4; codecs=avc1":   "mp4",
		"image/avif":               "avif",
		"application/octet-stream": "",
		"image/svg+xml":            "",
		"":                         "",
	}
	for ct, want := range tests {
		assert.Equal(t, want, extFromContentType(ct), ct)
	}
}

func TestInventory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"s10.png", "s1.png", "xyzabc123.png", "half.png.part"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	inv, err := ScanInventory(dir)
	require.NoError(t, err)
	assert.Len(t, inv.Files(), 3)

	got, ok := inv.Find("s1")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "s1.png"), got)

	got, ok = inv.Find("abc123")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "xyzabc123.png"), got)

	_, ok = inv.Find("nope")
	assert.False(t, ok)
	_, ok = inv.Find("")
	assert.False(t, ok)

	_, err = ScanInventory(filepath.Join(dir, "absent"))
	assert.Error(t, err)
}
