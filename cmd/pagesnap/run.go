package main

import (
	"fmt"

	"github.com/fwojciec/pagesnap"
	"github.com/fwojciec/pagesnap/crawl"
)

// PreviewLen is the number of characters of content shown after a
// changed run.
const PreviewLen = 300

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	res, err := deps.Runner.Run(deps.Ctx)
	if pagesnap.ErrorCode(err) == pagesnap.ENOTFOUND {
		fmt.Fprintf(deps.Stdout, "No URLs to crawl: %s. Add URLs to %s or pass --urls.\n", pagesnap.ErrorMessage(err), deps.Config.URLsFile)
		return nil
	} else if err != nil {
		return err
	}
	report(deps, res)
	return nil
}

// report prints the outcome of a run.
func report(deps *Dependencies, res *crawl.RunResult) {
	if res.URLs == 0 {
		fmt.Fprintf(deps.Stdout, "No URLs to crawl. Add URLs to %s or pass --urls.\n", deps.Config.URLsFile)
		return
	}

	fmt.Fprintf(deps.Stdout, "Crawled %d pages (%d failed)\n", len(res.Snapshot), res.Failed)
	switch {
	case res.Changed && res.Saved:
		fmt.Fprintln(deps.Stdout, "Changes detected; snapshot saved")
	case res.Saved:
		fmt.Fprintln(deps.Stdout, "No changes; snapshot saved")
	default:
		fmt.Fprintln(deps.Stdout, "No changes; snapshot left as is")
	}

	if res.Changed && len(res.Snapshot) > 0 {
		fmt.Fprintf(deps.Stdout, "\n--- %s ---\n%s\n", res.Snapshot[0].URL, pagesnap.Preview(res.Snapshot[0].Content, PreviewLen))
	}
}

// progress prints per-page crawl progress. A failed page is reported as
// skipped only when the crawl records failures and carries on.
func progress(deps *Dependencies) crawl.ProgressFunc {
	failed := "skip"
	if crawl.FailurePolicy(deps.Config.OnError) == crawl.FailAbort {
		failed = "failed"
	}
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Crawling %d URLs\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s (%s)\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 60), crawl.FormatBytes(event.Bytes))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  %s %s: %v\n", failed, event.URL, event.Error)
		}
	}
}
