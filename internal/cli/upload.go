// upload.go implements the "docchat upload" command for document batches.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docchat-dev/docchat/internal/chat"
	"github.com/docchat-dev/docchat/internal/ui"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload PDFs or images to the conversation",
	Long: `Upload one or more files for the assistant to read. Supported
types are PDF, JPEG, PNG, GIF, and BMP; anything else is skipped with
a notice. Files are sent one at a time and a single failure does not
stop the rest of the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

// mimeByExtension maps file extensions to the MIME type the backend
// expects. Resolved locally so behavior does not depend on the host's
// mime database.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
}

func runUpload(cmd *cobra.Command, args []string) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}

	display := ui.NewProgressDisplay()

	var batch []chat.FileUpload
	var opened []*os.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, path := range args {
		name := filepath.Base(path)
		display.AddFile(name)

		mimeType := mimeByExtension[strings.ToLower(filepath.Ext(path))]
		if !chat.SupportedMIMEType(mimeType) {
			display.UpdateFile(name, ui.StatusRejected, "unsupported file type")
			batch = append(batch, chat.FileUpload{Name: name, MIMEType: mimeType})
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		opened = append(opened, f)

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		batch = append(batch, chat.FileUpload{
			Name:     name,
			MIMEType: mimeType,
			Size:     info.Size(),
			Content:  f,
		})
	}

	var queue []string
	for _, f := range batch {
		if chat.SupportedMIMEType(f.MIMEType) {
			queue = append(queue, f.Name)
		}
	}

	sink := &progressSink{display: display, queue: queue}
	ctrl := env.newController(sink)

	ctx := context.Background()
	ctrl.Restore(ctx)

	display.Start()
	sink.advance()
	ctrl.UploadFiles(ctx, batch)
	display.Finish()

	return nil
}

// progressSink drives the progress display from upload outcomes. Files
// go out one at a time, so each outcome means the next queued file is
// now in flight.
type progressSink struct {
	chat.NopSink
	display *ui.ProgressDisplay
	queue   []string
	next    int
}

// advance marks the next queued file as uploading.
func (s *progressSink) advance() {
	if s.next < len(s.queue) {
		s.display.UpdateFile(s.queue[s.next], ui.StatusUploading, "")
		s.next++
	}
}

func (s *progressSink) FileUploaded(file chat.UploadedFile) {
	s.display.UpdateFile(file.Name, ui.StatusUploaded, "")
	s.advance()
}

func (s *progressSink) UploadFailed(name, reason string) {
	s.display.UpdateFile(name, ui.StatusFailed, reason)
	s.advance()
}
