package contracts

// StatusCallback is invoked from the installer's worker goroutine as each stage is entered.
type StatusCallback func(stage Stage)

// CompleteCallback is invoked from the installer's worker goroutine at most once per run.
// The message is empty on success.
type CompleteCallback func(success bool, message string)

type ProgressCallback func(progress DownloadProgress)
