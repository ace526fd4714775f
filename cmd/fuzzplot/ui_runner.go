package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"fuzzplot/internal/pipeline"
	"fuzzplot/internal/ui"
)

type plotOutcome struct {
	result pipeline.Result
	err    error
}

func runPipelineWithUI(ctx context.Context, title string, req *pipeline.Request) (pipeline.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan plotOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Run(ctx, &reqCopy)
		outcomeCh <- plotOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, pipeline.ProgressFiles(req), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
