package upload

import (
	"errors"
	"io"
	"strings"
	"testing"

	"mx70/internal/apperr"
	"mx70/internal/model"
)

// mp4Header is the start of an ISO base media file with an mp42 brand.
var mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")

type explodingReader struct{}

func (explodingReader) Read([]byte) (int, error) {
	return 0, errors.New("content must not be read")
}

func TestPrepareRejectsOversizeBeforeReading(t *testing.T) {
	p := DefaultPolicy()
	_, err := p.Prepare(model.UploadVideo, model.UploadFile{
		Name:    "big.mp4",
		Size:    60 * 1024 * 1024,
		Content: explodingReader{},
	})
	if !errors.Is(err, apperr.ErrPayloadTooLarge) {
		t.Fatalf("err = %v, want PayloadTooLarge", err)
	}
}

func TestPrepareAcceptsVideo(t *testing.T) {
	p := DefaultPolicy()
	body := string(mp4Header) + strings.Repeat("x", 5000)
	got, err := p.Prepare(model.UploadRawFootage, model.UploadFile{
		Name:    "clip.mp4",
		Size:    int64(len(body)),
		Content: strings.NewReader(body),
	})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if got.ContentType != "video/mp4" {
		t.Errorf("content type = %q", got.ContentType)
	}
	all, _ := io.ReadAll(got.Body)
	if string(all) != body {
		t.Error("prepared body does not replay the sniffed bytes")
	}
}

func TestPrepareRejectsWrongCategory(t *testing.T) {
	p := DefaultPolicy()
	_, err := p.Prepare(model.UploadVideo, model.UploadFile{
		Name:    "notes.mp4",
		Size:    11,
		Content: strings.NewReader("hello world"),
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	if err := p.CheckName(model.UploadVideo, "report.pdf"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("CheckName(pdf) = %v", err)
	}
	if _, err := ParseKind("avatar"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("ParseKind(avatar) = %v", err)
	}
}

func TestCheckSizeBoundary(t *testing.T) {
	p := Policy{MaxBytes: 100}
	if err := p.CheckSize(100); err != nil {
		t.Errorf("size at limit rejected: %v", err)
	}
	if err := p.CheckSize(101); !errors.Is(err, apperr.ErrPayloadTooLarge) {
		t.Errorf("size over limit: %v", err)
	}
}

func TestPrepareCapsUnderDeclaredBody(t *testing.T) {
	p := Policy{MaxBytes: 64 * 1024}
	content := io.MultiReader(strings.NewReader(string(mp4Header)), strings.NewReader(strings.Repeat("\x00", 200*1024)))
	got, err := p.Prepare(model.UploadVideo, model.UploadFile{Name: "big.mp4", Size: 1024, Content: content})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	n, err := io.Copy(io.Discard, got.Body)
	if !errors.Is(err, apperr.ErrPayloadTooLarge) {
		t.Fatalf("err = %v, want PayloadTooLarge", err)
	}
	if n > p.MaxBytes+1 {
		t.Errorf("read %d bytes past a limit of %d", n, p.MaxBytes)
	}
}
