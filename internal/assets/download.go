package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

const (
	partialSuffix = ".part"
	sniffLen      = 262
)

// Downloader fetches remote media into the workspace.
type Downloader struct {
	client *http.Client
	log    *zap.Logger
}

func NewDownloader(timeout time.Duration, log *zap.Logger) *Downloader {
	return &Downloader{
		client: &http.Client{Timeout: timeout},
		log:    log.Named("download"),
	}
}

// Fetch downloads url to dstNoExt plus an extension taken from the response
// Content-Type, or from the content itself when the header is not helpful.
// It returns the written path.
func (d *Downloader) Fetch(ctx context.Context, url, dstNoExt string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download of %s failed with status: %d", url, resp.StatusCode)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}
	head = head[:n]

	ext := extensionFor(resp.Header.Get("Content-Type"), head)
	path := dstNoExt + "." + ext

	out, err := os.Create(path + partialSuffix)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	written, err := io.Copy(out, io.MultiReader(bytes.NewReader(head), resp.Body))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path + partialSuffix)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(path+partialSuffix, path); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	d.log.Debug("Downloaded", zap.String("url", url), zap.String("path", path), zap.Int64("bytes", written))
	return path, nil
}

func extensionFor(contentType string, head []byte) string {
	if ext := extFromContentType(contentType); ext != "" {
		return ext
	}
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		return kind.Extension
	}
	return "bin"
}

// extFromContentType returns file extension for common media MIME types
func extFromContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "video/mp4":
		return "mp4"
	case "video/quicktime":
		return "mov"
	case "video/webm":
		return "webm"
	case "application/octet-stream", "binary/octet-stream":
		return ""
	}
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok || sub == "" || strings.ContainsAny(sub, "+.-") {
		return ""
	}
	return sub
}
