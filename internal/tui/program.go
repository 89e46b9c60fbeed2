package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AzerQ/sed-notifications/internal/coordinator"
	"github.com/AzerQ/sed-notifications/internal/domain"
)

// Run starts the TUI program over the coordinator and blocks until
// the user quits. Coordinator change events and pushed toasts are
// forwarded into the bubbletea loop.
func Run(coord *coordinator.Coordinator, opts ...tea.ProgramOption) error {
	m := NewModel(coord)
	p := tea.NewProgram(m, opts...)

	sub := coord.Subscribe(func() {
		p.Send(stateChangedMsg{})
	})
	defer sub.Cancel()

	coord.SetShowCompactToastCallback(func(n domain.CompactNotification) {
		p.Send(toastMsg{notification: n})
	})
	defer coord.SetShowCompactToastCallback(nil)

	_, err := p.Run()
	return err
}
