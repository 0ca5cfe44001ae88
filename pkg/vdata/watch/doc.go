// Package watch re-runs exports when inputs change or on a schedule.
//
// A Runner serializes runs. The FileWatcher (fsnotify, debounced) and the
// Scheduler (cron) only request runs, so a burst of file events and a due
// schedule collapse into at most one queued run behind the current one.
//
//	runner := watch.NewRunner(runExport, logger)
//	go runner.Loop(ctx)
//
//	fw, _ := watch.NewFileWatcher(&watch.FileWatcherConfig{
//		Paths:      inputs,
//		Extensions: storage.Extensions(base64),
//		SkipHidden: true,
//	}, logger)
//	go fw.Watch(ctx, func(string) { runner.Request(watch.TriggerChange) })
package watch
