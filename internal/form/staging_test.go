package form

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func pngFile(name string) File {
	return File{Name: name, ContentType: "image/png", Data: append([]byte(nil), pngHeader...)}
}

func pdfFile(name string) File {
	return File{Name: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4\n%test\n")}
}

func TestStaging_Stage(t *testing.T) {
	s := NewStaging()

	require.NoError(t, s.Stage(SlotPhoto, pngFile("me.png")))
	require.NoError(t, s.Stage(SlotPANCard, pdfFile("pan.pdf")))
	require.NoError(t, s.Stage(SlotPANCard, pdfFile("pan-v2.pdf")))

	f, ok := s.Get(SlotPANCard)
	require.True(t, ok)
	assert.Equal(t, "pan-v2.pdf", f.Name)
	assert.Equal(t, 2, s.Len())
}

func TestStaging_RejectsOversizedFileAndKeepsPrevious(t *testing.T) {
	s := NewStaging()
	require.NoError(t, s.Stage(SlotCheque, pdfFile("cheque.pdf")))

	big := File{Name: "big.pdf", ContentType: "application/pdf", Data: bytes.Repeat([]byte("a"), 6<<20)}
	err := s.Stage(SlotCheque, big)

	assert.ErrorIs(t, err, ErrFileTooLarge)
	f, ok := s.Get(SlotCheque)
	require.True(t, ok)
	assert.Equal(t, "cheque.pdf", f.Name)
}

func TestStaging_SizeBoundary(t *testing.T) {
	s := NewStaging()
	exact := File{Name: "exact.pdf", ContentType: "application/pdf", Data: bytes.Repeat([]byte("a"), MaxFileSize)}
	assert.NoError(t, s.Stage(SlotAddressProof, exact))

	over := File{Name: "over.pdf", ContentType: "application/pdf", Data: bytes.Repeat([]byte("a"), MaxFileSize+1)}
	assert.ErrorIs(t, s.Stage(SlotAddressProof, over), ErrFileTooLarge)
}

func TestStaging_PhotoMustBeImage(t *testing.T) {
	s := NewStaging()

	err := s.Stage(SlotPhoto, pdfFile("photo.pdf"))
	assert.ErrorIs(t, err, ErrNotImage)
	_, ok := s.Get(SlotPhoto)
	assert.False(t, ok)

	sniffed := pngFile("photo")
	sniffed.ContentType = ""
	assert.NoError(t, s.Stage(SlotPhoto, sniffed))
}

func TestStaging_Errors(t *testing.T) {
	s := NewStaging()
	assert.ErrorIs(t, s.Stage(Slot("selfie"), pngFile("x.png")), ErrUnknownSlot)
	assert.ErrorIs(t, s.Stage(SlotPANCard, File{Name: "empty.pdf"}), ErrEmptyFile)
	assert.Equal(t, 0, s.Len())
}

func TestStaging_OtherDocuments(t *testing.T) {
	s := NewStaging()
	require.NoError(t, s.Stage(SlotOtherDocuments, pdfFile("a.pdf")))
	require.NoError(t, s.Stage(SlotOtherDocuments, pdfFile("b.pdf")))
	require.NoError(t, s.Stage(SlotOtherDocuments, pdfFile("c.pdf")))
	assert.Len(t, s.Others, 3)

	s.UnstageOther(1)
	require.Len(t, s.Others, 2)
	assert.Equal(t, "a.pdf", s.Others[0].Name)
	assert.Equal(t, "c.pdf", s.Others[1].Name)

	s.UnstageOther(7)
	assert.Len(t, s.Others, 2)

	s.Unstage(SlotOtherDocuments)
	assert.Empty(t, s.Others)
}

func TestStaging_CloneIsIndependent(t *testing.T) {
	s := NewStaging()
	require.NoError(t, s.Stage(SlotPANCard, pdfFile("pan.pdf")))
	require.NoError(t, s.Stage(SlotOtherDocuments, pdfFile("a.pdf")))

	c := s.Clone()
	c.Unstage(SlotPANCard)
	c.UnstageOther(0)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 0, c.Len())
}
