package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"raven/internal/buildpipeline"
	"raven/internal/driver"
	"raven/internal/ui"
)

type buildOutcome struct {
	result buildpipeline.Result
	err    error
}

// runBuildWithUI runs driver.Build while a Bubble Tea program renders its
// progress events. The program exits when the event channel closes.
func runBuildWithUI(ctx context.Context, out io.Writer, title string, opts driver.Options) (buildpipeline.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		opts.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.Build(ctx, opts)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы сборка не зависла на полном канале
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// build runs opts with or without the progress UI.
func build(ctx context.Context, out io.Writer, title string, opts driver.Options, g globalOptions, allowUI bool) (buildpipeline.Result, error) {
	if allowUI && !g.quiet && shouldUseTUI(g.ui) {
		return runBuildWithUI(ctx, out, title, opts)
	}
	return driver.Build(ctx, opts)
}
