package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/docchat-dev/docchat/internal/api"
)

func pdfUpload(name string) FileUpload {
	return FileUpload{Name: name, MIMEType: "application/pdf", Size: 8, Content: strings.NewReader("%PDF-1.4")}
}

func pngUpload(name string) FileUpload {
	return FileUpload{Name: name, MIMEType: "image/png", Size: 3, Content: strings.NewReader("png")}
}

func exeUpload(name string) FileUpload {
	return FileUpload{Name: name, MIMEType: "application/x-msdownload", Size: 2, Content: strings.NewReader("MZ")}
}

func TestUploadMixedBatchSkipsInvalidAndKeepsOrder(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := NewController(backend, &fakeStore{}, nil, nil)

	ctrl.UploadFiles(context.Background(), []FileUpload{
		pdfUpload("report.pdf"),
		exeUpload("virus.exe"),
		pngUpload("chart.png"),
	})

	calls := backend.callList()
	want := []string{"upload:report.pdf", "upload:chart.png"}
	if len(calls) != len(want) {
		t.Fatalf("network calls: got %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, calls[i], want[i])
		}
	}

	// One rejection notice plus two success turns, in submission order.
	turns := ctrl.Snapshot()
	if len(turns) != 3 {
		t.Fatalf("turn count: got %d, want 3", len(turns))
	}
	if turns[0].Content != "Error: "+unsupportedFilesMessage {
		t.Errorf("rejection turn: got %q", turns[0].Content)
	}
	if !strings.Contains(turns[1].Content, "report.pdf") {
		t.Errorf("turn 1 should name report.pdf: %q", turns[1].Content)
	}
	if !strings.Contains(turns[2].Content, "chart.png") {
		t.Errorf("turn 2 should name chart.png: %q", turns[2].Content)
	}

	files := ctrl.Files()
	if len(files) != 2 {
		t.Fatalf("ledger: got %d entries, want 2", len(files))
	}
	if files[0].Name != "report.pdf" || files[1].Name != "chart.png" {
		t.Errorf("ledger order: got %q, %q", files[0].Name, files[1].Name)
	}
}

func TestUploadAllInvalidMakesNoNetworkCalls(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := NewController(backend, &fakeStore{}, nil, nil)

	ctrl.UploadFiles(context.Background(), []FileUpload{
		exeUpload("a.exe"),
		{Name: "notes.txt", MIMEType: "text/plain", Content: strings.NewReader("hi")},
	})

	if calls := backend.callList(); len(calls) != 0 {
		t.Errorf("no network calls expected, got %v", calls)
	}
	turns := ctrl.Snapshot()
	if len(turns) != 1 {
		t.Fatalf("turn count: got %d, want 1", len(turns))
	}
	if turns[0].Content != "Error: "+unsupportedFilesMessage {
		t.Errorf("rejection turn: got %q", turns[0].Content)
	}
}

func TestUploadEmptyBatchIsNoOp(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := NewController(backend, &fakeStore{}, nil, nil)

	ctrl.UploadFiles(context.Background(), nil)

	if len(backend.callList()) != 0 || len(ctrl.Snapshot()) != 0 {
		t.Error("empty batch must not touch the network or the transcript")
	}
}

func TestUploadFirstFileAdoptsSessionForRestOfBatch(t *testing.T) {
	backend := &fakeBackend{}
	var sessionIDs []string
	backend.upload = func(sessionID, name string) (string, error) {
		sessionIDs = append(sessionIDs, sessionID)
		return "sess-9", nil
	}
	store := &fakeStore{}
	ctrl := NewController(backend, store, nil, nil)

	ctrl.UploadFiles(context.Background(), []FileUpload{
		pdfUpload("one.pdf"),
		pngUpload("two.png"),
	})

	if len(sessionIDs) != 2 {
		t.Fatalf("upload calls: got %d, want 2", len(sessionIDs))
	}
	if sessionIDs[0] != "" {
		t.Errorf("first upload should carry no session id, got %q", sessionIDs[0])
	}
	if sessionIDs[1] != "sess-9" {
		t.Errorf("second upload should attach to the new session, got %q", sessionIDs[1])
	}
	if got := store.stored(); got != "sess-9" {
		t.Errorf("stored id: got %q, want sess-9", got)
	}
}

func TestUploadFailureContinuesBatch(t *testing.T) {
	backend := &fakeBackend{}
	backend.upload = func(sessionID, name string) (string, error) {
		if name == "broken.pdf" {
			return "", &api.APIError{Status: 500, Message: "processing failed"}
		}
		return "sess-1", nil
	}
	ctrl := NewController(backend, &fakeStore{}, nil, nil)

	ctrl.UploadFiles(context.Background(), []FileUpload{
		pdfUpload("broken.pdf"),
		pngUpload("fine.png"),
	})

	calls := backend.callList()
	if len(calls) != 2 {
		t.Fatalf("both files should be submitted, got %v", calls)
	}

	turns := ctrl.Snapshot()
	if len(turns) != 2 {
		t.Fatalf("turn count: got %d, want 2", len(turns))
	}
	if turns[0].Content != "Error: Failed to upload broken.pdf: processing failed" {
		t.Errorf("failure turn: got %q", turns[0].Content)
	}
	if !strings.Contains(turns[1].Content, "fine.png") {
		t.Errorf("success turn should name fine.png: %q", turns[1].Content)
	}

	files := ctrl.Files()
	if len(files) != 1 || files[0].Name != "fine.png" {
		t.Errorf("ledger should hold only the successful file, got %v", files)
	}
}

func TestUploadLoadingSpansWholeBatch(t *testing.T) {
	backend := &fakeBackend{}
	sink := &recordingSink{}
	ctrl := NewController(backend, &fakeStore{}, sink, nil)

	ctrl.UploadFiles(context.Background(), []FileUpload{
		pdfUpload("one.pdf"),
		pngUpload("two.png"),
		pngUpload("three.png"),
	})

	var loadingEvents []string
	for _, e := range sink.list() {
		if strings.HasPrefix(e, "loading:") {
			loadingEvents = append(loadingEvents, e)
		}
	}
	if len(loadingEvents) != 2 || loadingEvents[0] != "loading:true" || loadingEvents[1] != "loading:false" {
		t.Errorf("loading should toggle once for the batch, got %v", loadingEvents)
	}
}
