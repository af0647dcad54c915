package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize is the upper bound for any staged document.
const MaxFileSize = 5 << 20

var (
	ErrFileTooLarge = errors.New("file size must be 5MB or less")
	ErrNotImage     = errors.New("photo must be an image file")
	ErrUnknownSlot  = errors.New("unknown document slot")
	ErrEmptyFile    = errors.New("file is empty")
)

// Slot is a document position on the form.
type Slot string

const (
	SlotPhoto          Slot = "photo"
	SlotAadharFront    Slot = "aadharFront"
	SlotPassport       Slot = "passport"
	SlotPANCard        Slot = "panCard"
	SlotCheque         Slot = "cheque"
	SlotGSTCertificate Slot = "gstCertificate"
	SlotAddressProof   Slot = "addressProof"
	SlotOtherDocuments Slot = "otherDocuments"
)

// Multipart field names the backend expects for each document.
const (
	WirePhoto          = "photo"
	WireAadharCard     = "aadharCard"
	WireAadharBack     = "aadharBack"
	WirePANCard        = "panCard"
	WireCancelCheque   = "cancelCheque"
	WireGSTCertificate = "gstCertificate"
	WireAddressProof   = "addressProof"
	WireOtherDocuments = "otherDocuments"
)

// WireFields maps each slot to the multipart field it is uploaded under.
// The passport slot is sent as aadharBack; the backend stores it there and
// the mapping is kept as is until product confirms otherwise.
var WireFields = map[Slot]string{
	SlotPhoto:          WirePhoto,
	SlotAadharFront:    WireAadharCard,
	SlotPassport:       WireAadharBack,
	SlotPANCard:        WirePANCard,
	SlotCheque:         WireCancelCheque,
	SlotGSTCertificate: WireGSTCertificate,
	SlotAddressProof:   WireAddressProof,
	SlotOtherDocuments: WireOtherDocuments,
}

// SingleSlots lists the one-file slots in upload order.
var SingleSlots = []Slot{
	SlotPhoto,
	SlotAadharFront,
	SlotPassport,
	SlotPANCard,
	SlotCheque,
	SlotGSTCertificate,
	SlotAddressProof,
}

// File is an uploaded-but-not-submitted document.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// Size returns the file size in bytes.
func (f File) Size() int64 { return int64(len(f.Data)) }

// MediaType returns the declared content type, or the sniffed one when the
// caller did not declare anything useful.
func (f File) MediaType() string {
	ct := strings.TrimSpace(f.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		return mimetype.Detect(f.Data).String()
	}
	return ct
}

// IsImage reports whether the file is an image.
func (f File) IsImage() bool {
	return strings.HasPrefix(f.MediaType(), "image/")
}

// Staging holds the documents selected on the form.
type Staging struct {
	Slots  map[Slot]File `json:"slots"`
	Others []File        `json:"otherDocuments"`
}

// NewStaging returns an empty registry.
func NewStaging() Staging {
	return Staging{Slots: make(map[Slot]File)}
}

// Check applies the size and type constraints for slot without staging.
func Check(slot Slot, f File) error {
	if _, ok := WireFields[slot]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	if f.Size() == 0 {
		return ErrEmptyFile
	}
	if f.Size() > MaxFileSize {
		return ErrFileTooLarge
	}
	if slot == SlotPhoto && !f.IsImage() {
		return ErrNotImage
	}
	return nil
}

// Stage stores f under slot, replacing any earlier file. Other documents
// are appended. On error the registry is left as it was.
func (s *Staging) Stage(slot Slot, f File) error {
	if err := Check(slot, f); err != nil {
		return err
	}
	if s.Slots == nil {
		s.Slots = make(map[Slot]File)
	}
	if slot == SlotOtherDocuments {
		s.Others = append(s.Others, f)
		return nil
	}
	s.Slots[slot] = f
	return nil
}

// Unstage drops whatever is staged under slot. For other documents every
// staged file is dropped.
func (s *Staging) Unstage(slot Slot) {
	if slot == SlotOtherDocuments {
		s.Others = nil
		return
	}
	delete(s.Slots, slot)
}

// UnstageOther drops the i-th other document.
func (s *Staging) UnstageOther(i int) {
	if i < 0 || i >= len(s.Others) {
		return
	}
	s.Others = append(s.Others[:i:i], s.Others[i+1:]...)
}

// Get returns the file staged under a single slot.
func (s Staging) Get(slot Slot) (File, bool) {
	f, ok := s.Slots[slot]
	return f, ok
}

// Len counts staged files across all slots.
func (s Staging) Len() int {
	return len(s.Slots) + len(s.Others)
}

// Clone returns a copy that shares file contents but not the containers.
func (s Staging) Clone() Staging {
	c := Staging{Slots: make(map[Slot]File, len(s.Slots))}
	for k, v := range s.Slots {
		c.Slots[k] = v
	}
	if len(s.Others) > 0 {
		c.Others = append([]File(nil), s.Others...)
	}
	return c
}
