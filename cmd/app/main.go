package main

import (
    "context"
    "errors"
    "fmt"
    "os"
    "os/signal"
    "syscall"

    "github.com/local/studyguide/internal/config"
)

// errChaptersFailed marks a run that finished with at least one failed chapter.
var errChaptersFailed = errors.New("one or more chapters failed")

func main() {
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    err := execute(ctx, os.Args[1:])
    if err == nil {
        return
    }
    if config.IsConfigError(err) {
        fmt.Fprintln(os.Stderr, "configuration error:", err)
    } else if !errors.Is(err, errChaptersFailed) {
        fmt.Fprintln(os.Stderr, "error:", err)
    }
    stop()
    os.Exit(1)
}

// execute runs the command line and always tears down, whatever the outcome.
func execute(ctx context.Context, args []string) error {
    defer teardown()
    rootCmd.SetArgs(args)
    return rootCmd.ExecuteContext(ctx)
}
