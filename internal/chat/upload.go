package chat

import (
	"context"

	"github.com/docchat-dev/docchat/internal/log"
)

// MIME types the backend can process.
var allowedMIMETypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/bmp":       true,
}

const unsupportedFilesMessage = "Please upload only PDF or image files"

// SupportedMIMEType reports whether the backend accepts files of the
// given MIME type.
func SupportedMIMEType(mimeType string) bool {
	return allowedMIMETypes[mimeType]
}

// UploadFiles validates and submits a batch of files against the
// active session.
//
// Files with a disallowed MIME type are dropped up front and reported
// with a single summary error turn; if nothing remains, no network
// activity happens at all. The remaining files are submitted strictly
// one at a time in their original order: a sequential batch keeps the
// progress model simple and avoids racing the backend's session
// creation when no session exists yet — the first successful upload
// adopts the newly assigned id and the rest of the batch attaches to
// it. One file's failure never aborts the batch. The pending-action
// flag spans the whole batch, not each file.
func (c *Controller) UploadFiles(ctx context.Context, files []FileUpload) {
	if len(files) == 0 {
		return
	}

	var valid []FileUpload
	rejected := 0
	for _, f := range files {
		if allowedMIMETypes[f.MIMEType] {
			valid = append(valid, f)
		} else {
			rejected++
		}
	}

	if rejected > 0 {
		c.mu.Lock()
		c.appendErrorTurnLocked(unsupportedFilesMessage)
		c.mu.Unlock()
	}
	if len(valid) == 0 {
		return
	}

	c.mu.Lock()
	c.setLoadingLocked(true)
	c.mu.Unlock()

	for _, f := range valid {
		c.uploadOne(ctx, f)
	}

	c.mu.Lock()
	c.setLoadingLocked(false)
	c.mu.Unlock()
}

func (c *Controller) uploadOne(ctx context.Context, f FileUpload) {
	c.mu.Lock()
	sid := c.sessionID
	gen := c.generation
	c.mu.Unlock()

	id, err := c.backend.UploadFile(ctx, sid, f.Name, f.Content)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		// The session moved on while this file was in flight; the
		// result no longer belongs to what is on screen.
		return
	}
	if err != nil {
		reason := failureText(err, "upload failed")
		c.appendErrorTurnLocked("Failed to upload " + f.Name + ": " + reason)
		c.sink.UploadFailed(f.Name, reason)
		c.logEvent(log.LogEvent{Event: log.EventUploadFailed, SessionID: sid, File: f.Name, Error: err.Error()})
		return
	}

	c.adoptSessionLocked(id)
	record := UploadedFile{Name: f.Name, MIMEType: f.MIMEType, SizeBytes: f.Size}
	c.transcript.AddFile(record)
	turn := c.transcript.Append(Turn{
		Role:    RoleAssistant,
		Content: "File \"" + f.Name + "\" uploaded and processed successfully! You can now ask questions about it.",
	})
	c.sink.TurnAppended(turn)
	c.sink.FileUploaded(record)
	c.state = StateActive
	c.logEvent(log.LogEvent{Event: log.EventFileUploaded, SessionID: c.sessionID, File: f.Name})
}
