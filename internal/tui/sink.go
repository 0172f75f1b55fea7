package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat-dev/docchat/internal/chat"
)

// ProgramSink forwards controller events into the Bubble Tea event
// loop. Events emitted before Attach is called are buffered so nothing
// from an early restore is lost.
type ProgramSink struct {
	mu      sync.Mutex
	program *tea.Program
	pending []tea.Msg
}

// NewProgramSink creates an unattached sink.
func NewProgramSink() *ProgramSink {
	return &ProgramSink{}
}

// Attach connects the sink to a running program and flushes any
// buffered events.
func (s *ProgramSink) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, msg := range pending {
		p.Send(msg)
	}
}

func (s *ProgramSink) send(msg tea.Msg) {
	s.mu.Lock()
	if s.program == nil {
		s.pending = append(s.pending, msg)
		s.mu.Unlock()
		return
	}
	p := s.program
	s.mu.Unlock()
	p.Send(msg)
}

func (s *ProgramSink) TurnAppended(turn chat.Turn) {
	s.send(TurnAppendedMsg{Turn: turn})
}

func (s *ProgramSink) TranscriptReset() {
	s.send(TranscriptResetMsg{})
}

func (s *ProgramSink) LoadingChanged(loading bool) {
	s.send(LoadingChangedMsg{Loading: loading})
}

func (s *ProgramSink) SessionChanged(id string) {
	s.send(SessionChangedMsg{ID: id})
}

func (s *ProgramSink) FileUploaded(file chat.UploadedFile) {
	s.send(FileUploadedMsg{File: file})
}

func (s *ProgramSink) UploadFailed(name, reason string) {
	s.send(UploadFailedMsg{Name: name, Reason: reason})
}
