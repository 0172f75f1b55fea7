// Package ui provides terminal UI components for docchat.
// This file implements the progress display shown during upload batches.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// FileStatus represents the upload status of a single file.
type FileStatus int

const (
	StatusPending   FileStatus = iota // Waiting its turn in the batch
	StatusUploading                   // Currently in flight
	StatusUploaded                    // Accepted by the backend
	StatusFailed                      // Rejected by the backend or transport
	StatusRejected                    // Filtered out before any network call
)

// FileState holds the display state of a single file.
type FileState struct {
	Name    string
	Status  FileStatus
	Reason  string // failure/rejection detail
	Elapsed time.Duration
}

// ProgressDisplay manages a live-updating terminal view of an upload batch.
// Files are uploaded one at a time, so at most one line is ever in the
// uploading state.
type ProgressDisplay struct {
	mu          sync.Mutex
	files       []*FileState
	fileIndex   map[string]int // name -> index in files slice
	started     bool
	isTTY       bool
	linesDrawn  int
	startTimes  map[string]time.Time
	lastPrinted map[string]FileStatus // tracks last printed status per file (non-TTY)
}

// NewProgressDisplay creates a ProgressDisplay for an upload batch.
func NewProgressDisplay() *ProgressDisplay {
	return &ProgressDisplay{
		fileIndex:   make(map[string]int),
		startTimes:  make(map[string]time.Time),
		lastPrinted: make(map[string]FileStatus),
		isTTY:       term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// AddFile registers a file for progress tracking.
func (p *ProgressDisplay) AddFile(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := &FileState{
		Name:   name,
		Status: StatusPending,
	}
	p.fileIndex[name] = len(p.files)
	p.files = append(p.files, state)
}

// Start draws the initial progress display.
func (p *ProgressDisplay) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = true
	p.render()
}

// UpdateFile updates a file's status and re-renders the display.
func (p *ProgressDisplay) UpdateFile(name string, status FileStatus, reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.fileIndex[name]
	if !ok {
		return
	}

	file := p.files[idx]
	file.Status = status
	file.Reason = reason

	switch status {
	case StatusUploading:
		p.startTimes[name] = time.Now()
	case StatusUploaded, StatusFailed:
		if start, ok := p.startTimes[name]; ok {
			file.Elapsed = time.Since(start)
		}
	}

	if p.started {
		p.render()
	}
}

// Finish finalizes the display by moving the cursor below all output
// and printing a summary line.
func (p *ProgressDisplay) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isTTY && p.linesDrawn > 0 {
		fmt.Print("\n")
	}

	uploaded := 0
	failed := 0
	rejected := 0
	for _, f := range p.files {
		switch f.Status {
		case StatusUploaded:
			uploaded++
		case StatusFailed:
			failed++
		case StatusRejected:
			rejected++
		}
	}

	total := len(p.files)
	fmt.Printf("\nDone: %d/%d uploaded", uploaded, total)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	if rejected > 0 {
		fmt.Printf(", %d unsupported", rejected)
	}
	fmt.Println()
}

// render draws or redraws the progress display.
func (p *ProgressDisplay) render() {
	if !p.isTTY {
		p.renderPlain()
		return
	}
	p.renderTTY()
}

// renderTTY draws the progress display using ANSI escape codes for in-place updates.
func (p *ProgressDisplay) renderTTY() {
	// Move cursor up to overwrite previous output.
	if p.linesDrawn > 0 {
		fmt.Printf("\033[%dA", p.linesDrawn)
	}

	var buf strings.Builder

	buf.WriteString("\033[2K\033[1mUploading files\033[0m\n")
	buf.WriteString("\033[2K\n")

	for _, file := range p.files {
		buf.WriteString("\033[2K")
		buf.WriteString(formatFileLine(file, p.startTimes))
		buf.WriteString("\n")
	}

	fmt.Print(buf.String())
	p.linesDrawn = len(p.files) + 2 // header + blank + files
}

// renderPlain writes non-TTY output (for CI/piping).
// Only prints on status transitions to avoid duplicate lines.
func (p *ProgressDisplay) renderPlain() {
	for _, file := range p.files {
		if file.Status == StatusPending {
			continue
		}
		if prev, seen := p.lastPrinted[file.Name]; seen && prev == file.Status {
			continue
		}
		fmt.Println(formatFileLinePlain(file))
		p.lastPrinted[file.Name] = file.Status
	}
}

// formatFileLine formats a single file line with ANSI colors and status icons.
func formatFileLine(file *FileState, startTimes map[string]time.Time) string {
	icon := statusIcon(file.Status)
	detail := statusDetail(file, startTimes)

	name := file.Name
	if len(name) > 45 {
		name = name[:42] + "..."
	}

	return fmt.Sprintf("  %s %s  %s", icon, name, detail)
}

// formatFileLinePlain formats a file line for non-TTY output.
func formatFileLinePlain(file *FileState) string {
	var status string
	switch file.Status {
	case StatusUploading:
		status = "UPLOADING"
	case StatusUploaded:
		status = fmt.Sprintf("DONE [%s]", formatDuration(file.Elapsed))
	case StatusFailed:
		status = "FAILED: " + file.Reason
	case StatusRejected:
		status = "UNSUPPORTED"
	default:
		status = "PENDING"
	}
	return fmt.Sprintf("[%s] %s", status, file.Name)
}

// statusIcon returns the status icon for a file.
func statusIcon(status FileStatus) string {
	switch status {
	case StatusUploaded:
		return "\033[32m✅\033[0m" // green checkmark
	case StatusUploading:
		return "\033[33m⏳\033[0m" // yellow hourglass
	case StatusFailed:
		return "\033[31m❌\033[0m" // red X
	case StatusRejected:
		return "\033[90m⏭\033[0m" // dim skip
	default:
		return "\033[90m○\033[0m" // dim circle
	}
}

// statusDetail returns the right-side detail text for a file.
func statusDetail(file *FileState, startTimes map[string]time.Time) string {
	switch file.Status {
	case StatusUploaded:
		return fmt.Sprintf("\033[90m[%s]\033[0m", formatDuration(file.Elapsed))
	case StatusUploading:
		elapsed := time.Since(startTimes[file.Name])
		return fmt.Sprintf("\033[33m[%s]\033[0m", formatDuration(elapsed))
	case StatusFailed:
		return fmt.Sprintf("\033[31m[%s]\033[0m", file.Reason)
	case StatusRejected:
		return "\033[90m[unsupported type]\033[0m"
	default:
		return "\033[90m[pending]\033[0m"
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}
