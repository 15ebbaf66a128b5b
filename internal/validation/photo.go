package validation

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MsgInvalidImage is shown when an uploaded file is not an accepted image.
const MsgInvalidImage = "must supply a valid image, PNG or JPG"

// acceptedImageTypes lists the declared media types accepted for animal
// photographs. The declared type is what the submission claims, not a byte
// sniff; the bytes are not touched during classification.
var acceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

type PhotoStatus int

const (
	// PhotoNone: no file uploaded; the caller attaches the placeholder row.
	PhotoNone PhotoStatus = iota
	// PhotoInvalid: a file was uploaded with an unaccepted media type.
	PhotoInvalid
	// PhotoAccepted: the file may be stored under a generated name.
	PhotoAccepted
)

// PhotoIntake is the result of classifying an optional uploaded file.
type PhotoIntake struct {
	Status    PhotoStatus
	Extension string // lower-cased extension including the dot; set when accepted
	Message   string // human-readable reason; set when invalid
}

// ClassifyPhoto inspects an optional uploaded file's presence and declared
// media type. Pure classification: no bytes are read.
func ClassifyPhoto(header *multipart.FileHeader) PhotoIntake {
	if header == nil {
		return PhotoIntake{Status: PhotoNone}
	}

	contentType := header.Header.Get("Content-Type")
	if !acceptedImageTypes[contentType] {
		return PhotoIntake{Status: PhotoInvalid, Message: MsgInvalidImage}
	}

	return PhotoIntake{
		Status:    PhotoAccepted,
		Extension: strings.ToLower(filepath.Ext(header.Filename)),
	}
}
