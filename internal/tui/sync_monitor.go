package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jvilaplana/holdfolio/internal/holded"
	"github.com/jvilaplana/holdfolio/internal/logger"
	"github.com/jvilaplana/holdfolio/internal/services"
)

// SyncMonitor runs one sync while rendering its progress in the terminal.
type SyncMonitor struct {
	syncService *services.SyncService
	program     *tea.Program
}

func NewSyncMonitor(syncService *services.SyncService) *SyncMonitor {
	return &SyncMonitor{
		syncService: syncService,
	}
}

// Run starts the TUI and drives the sync underneath it, blocking until both
// finish.
func (sm *SyncMonitor) Run() error {
	model := NewModel(holded.Endpoints)
	sm.program = tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		result, err := sm.syncService.Run(sm.reportProgress)
		if err != nil {
			logger.Error("Sync failed: %v", err)
			sm.program.Send(LogMessage{Message: fmt.Sprintf("Sync failed: %v", err)})
			sm.program.Send(SyncDone{Err: err})
			return
		}

		for _, endpoint := range result.Endpoints {
			update := EndpointUpdate{Endpoint: endpoint.Endpoint, Records: endpoint.Records}
			if endpoint.Error != "" {
				update.Error = fmt.Errorf("%s", endpoint.Error)
			}
			sm.program.Send(update)
		}

		sm.program.Send(LogMessage{Message: result.Message})
		sm.program.Send(SyncDone{})
	}()

	if _, err := sm.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// reportProgress translates sync stages into TUI updates.
func (sm *SyncMonitor) reportProgress(stage services.Stage, detail string) {
	if sm.program == nil {
		return
	}

	sm.program.Send(LogMessage{Message: detail})
	sm.program.Send(SyncUpdate{
		Stage:    stage,
		Progress: stageProgress(stage, detail),
		Message:  detail,
	})
}

func stageProgress(stage services.Stage, detail string) float64 {
	switch stage {
	case services.StageFetch:
		for i, endpoint := range holded.Endpoints {
			if strings.Contains(detail, endpoint) {
				return 0.1 + 0.5*float64(i)/float64(len(holded.Endpoints))
			}
		}
		return 0.1
	case services.StageClassify:
		return 0.7
	case services.StagePersist:
		return 0.85
	case services.StageComplete:
		return 1.0
	default:
		return 0.0
	}
}
