package usecase

import (
	"context"
	"fmt"
	"strings"
)

const (
	cmdReport = "#report"
	cmdTop    = "#top"
	cmdHelp   = "#help"
)

type insightsExecutor interface {
	Execute(ctx context.Context) (string, error)
}

type leaderboardExecutor interface {
	Execute(ctx context.Context) (string, error)
}

// HandleMessageUsecase routes chat commands. Anything that is not a known
// command gets no reply.
type HandleMessageUsecase struct {
	insights    insightsExecutor
	leaderboard leaderboardExecutor
}

func NewHandleMessageUsecase(insights insightsExecutor, leaderboard leaderboardExecutor) *HandleMessageUsecase {
	return &HandleMessageUsecase{
		insights:    insights,
		leaderboard: leaderboard,
	}
}

func (uc *HandleMessageUsecase) Execute(ctx context.Context, name, msg string) (string, error) {
	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return "", nil
	}

	switch strings.ToLower(fields[0]) {
	case cmdReport:
		return uc.insights.Execute(ctx)
	case cmdTop:
		return uc.leaderboard.Execute(ctx)
	case cmdHelp:
		return helpText(name), nil
	}
	return "", nil
}

func helpText(name string) string {
	return fmt.Sprintf("Hi %s, available commands:\n%s - key insights of the latest report\n%s - top users overall\n%s - this message",
		name, cmdReport, cmdTop, cmdHelp)
}
