package validation

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

func fileHeader(filename, contentType string) *multipart.FileHeader {
	header := &multipart.FileHeader{
		Filename: filename,
		Header:   make(textproto.MIMEHeader),
	}
	header.Header.Set("Content-Type", contentType)
	return header
}

func TestClassifyPhoto_Absent(t *testing.T) {
	intake := ClassifyPhoto(nil)
	require.Equal(t, PhotoNone, intake.Status)
	require.Empty(t, intake.Extension)
	require.Empty(t, intake.Message)
}

func TestClassifyPhoto_AcceptedTypes(t *testing.T) {
	for _, contentType := range []string{"image/jpeg", "image/jpg", "image/png"} {
		intake := ClassifyPhoto(fileHeader("rex.jpg", contentType))
		require.Equal(t, PhotoAccepted, intake.Status, "content type %s", contentType)
	}
}

func TestClassifyPhoto_RejectedType(t *testing.T) {
	intake := ClassifyPhoto(fileHeader("rex.gif", "image/gif"))
	require.Equal(t, PhotoInvalid, intake.Status)
	require.Equal(t, MsgInvalidImage, intake.Message)
}

func TestClassifyPhoto_ExtensionLowercased(t *testing.T) {
	intake := ClassifyPhoto(fileHeader("Rex.PNG", "image/png"))
	require.Equal(t, PhotoAccepted, intake.Status)
	require.Equal(t, ".png", intake.Extension)
}
