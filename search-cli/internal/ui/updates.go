package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchstate"
)

type stateMsg searchstate.State

// subscribe forwards snapshots of mgr into a one-slot channel. A snapshot
// not yet read is replaced by the next one, so the reader only ever sees
// the latest state.
func subscribe(mgr *searchstate.Manager) (<-chan searchstate.State, func()) {
	ch := make(chan searchstate.State, 1)
	unsubscribe := mgr.OnChange(func(s searchstate.State) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	})
	return ch, unsubscribe
}

func waitForState(ch <-chan searchstate.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}
