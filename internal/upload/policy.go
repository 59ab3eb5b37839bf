// Package upload holds the rules every layer applies to uploaded files:
// the size limit and the accepted content category per upload kind.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"mx70/internal/apperr"
	"mx70/internal/model"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes is 50 MB.
const DefaultMaxBytes int64 = 50 * 1024 * 1024

// sniffLen is how much of the file is read to detect its type.
const sniffLen = 3072

var videoExtensions = map[string]bool{
	".mp4": true, ".m4v": true, ".mov": true, ".avi": true, ".webm": true, ".mkv": true,
}

// Policy decides whether a file may be stored.
type Policy struct {
	MaxBytes int64
}

func DefaultPolicy() Policy {
	return Policy{MaxBytes: DefaultMaxBytes}
}

// ParseKind accepts the two known upload kinds.
func ParseKind(s string) (model.UploadKind, error) {
	switch k := model.UploadKind(strings.ToLower(strings.TrimSpace(s))); k {
	case model.UploadVideo, model.UploadRawFootage:
		return k, nil
	}
	return "", apperr.Validation("unknown upload type %q", s)
}

func (p Policy) limit() int64 {
	if p.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return p.MaxBytes
}

// CheckSize rejects a declared size above the limit. Nothing is read.
func (p Policy) CheckSize(size int64) error {
	limit := p.limit()
	if size > limit {
		return apperr.New(apperr.ErrPayloadTooLarge, "file is %s, the limit is %s", HumanSize(size), HumanSize(limit))
	}
	return nil
}

// CheckName is the cheap pre-check run before any bytes move.
func (p Policy) CheckName(kind model.UploadKind, name string) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" && !videoExtensions[ext] {
		return apperr.Validation("%s must be a video file", name)
	}
	return nil
}

// Prepared is an accepted file ready to be streamed to storage.
type Prepared struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// cappedBody fails with ErrPayloadTooLarge once more than limit bytes came through,
// whatever size the caller declared.
type cappedBody struct {
	r    io.Reader
	read  int64
	limit int64
}

func newCappedBody(r io.Reader, limit int64) *cappedBody {
	return &cappedBody{r: io.LimitReader(r, limit+1), limit: limit}
}

func (b *cappedBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.read += int64(n)
	if b.read > b.limit {
		return n, apperr.New(apperr.ErrPayloadTooLarge, "file is larger than the limit of %s", HumanSize(b.limit))
	}
	return n, err
}

// Prepare validates the file and sniffs its content type. Size is checked first.
// The returned body errors out if the content runs past the limit.
func (p Policy) Prepare(kind model.UploadKind, f model.UploadFile) (*Prepared, error) {
	if err := p.CheckSize(f.Size); err != nil {
		return nil, err
	}
	if err := p.CheckName(kind, f.Name); err != nil {
		return nil, err
	}
	if f.Content == nil {
		return nil, apperr.Validation("file %s has no content", f.Name)
	}

	body := newCappedBody(f.Content, p.limit())
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "video/") {
		return nil, apperr.Validation("%s is %s, expected a video", f.Name, mtype.String())
	}

	return &Prepared{
		Name:        filepath.Base(f.Name),
		Size:        f.Size,
		ContentType: mtype.String(),
		Body:        io.MultiReader(bytes.NewReader(head), body),
	}, nil
}

// HumanSize formats a byte count the way limits are shown to users.
func HumanSize(n int64) string {
	const mb = 1024 * 1024
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	if n >= 1024 {
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%d B", n)
}
