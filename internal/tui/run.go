package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Makepad-fr/remedia/internal/logging"
	"github.com/Makepad-fr/remedia/internal/store/watch"
)

// Run starts the storefront and blocks until the user quits. When
// watchPath is set, writes to that file by other processes refresh the
// cart and the badge.
func Run(ctx context.Context, d Deps, watchPath string, debounce time.Duration) error {
	log := logging.OrNop(d.Log)
	m := New(ctx, d)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if watchPath != "" {
		w, err := watch.New(watchPath, debounce, log, func() {
			d.Cart.Notify()
			p.Send(storageChangedMsg{})
		})
		if err != nil {
			log.Warn("storage watcher disabled", zap.Error(err))
		} else {
			w.Start(ctx)
			defer w.Close()
		}
	}

	_, err := p.Run()
	return err
}
