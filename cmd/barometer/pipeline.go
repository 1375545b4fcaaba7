package main

import (
	"context"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/collector"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/logging"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/notify"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/store"
)

// pipeline runs a collection, swaps the served snapshot and reports the outcome.
// It backs the scheduler, the manual trigger endpoint and the collect mode.
type pipeline struct {
	collector *collector.Collector
	store     *store.Store
	notifier  *notify.Telegram
	log       *logging.Logger
}

// Collect runs one collection and waits for it
func (p *pipeline) Collect(ctx context.Context) error {
	_, err := p.run(ctx)
	return err
}

// Start claims the collector before returning and runs the collection in the
// background. A run in progress makes it fail with collector.ErrAlreadyRunning.
func (p *pipeline) Start(ctx context.Context) error {
	if !p.collector.TryStart() {
		return collector.ErrAlreadyRunning
	}
	go func() {
		res, err := p.collector.RunClaimed(ctx)
		if _, err := p.finish(ctx, res, err); err != nil {
			p.log.Error("manual collection failed: %v", err)
		}
	}()
	return nil
}

func (p *pipeline) Running() bool {
	return p.collector.Running()
}

func (p *pipeline) run(ctx context.Context) (*collector.RunResult, error) {
	res, err := p.collector.Run(ctx)
	if errors.Is(err, collector.ErrAlreadyRunning) {
		return nil, err
	}
	return p.finish(ctx, res, err)
}

func (p *pipeline) finish(ctx context.Context, res *collector.RunResult, err error) (*collector.RunResult, error) {
	if err == nil {
		if _, rerr := p.store.Reload(); rerr != nil {
			err = errors.Wrap(rerr, "reload snapshot")
		}
	}

	if p.notifier.Enabled() {
		if nerr := p.notifier.CollectionReport(ctx, res, err); nerr != nil {
			p.log.Warn("telegram report: %v", nerr)
		}
	}
	return res, err
}
