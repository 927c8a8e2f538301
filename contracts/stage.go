package contracts

type Stage string

const (
	StageInitializing      Stage = "Initializing"
	StageDownloading       Stage = "Downloading"
	StageUnpacking         Stage = "Unpacking"
	StageInstalling        Stage = "Installing"
	StageCreatingShortcuts Stage = "Creating Shortcuts"
	StageFinalizing        Stage = "Finalizing"
)

// Stages lists every stage in the order an installation passes through them.
var Stages = []Stage{
	StageInitializing,
	StageDownloading,
	StageUnpacking,
	StageInstalling,
	StageCreatingShortcuts,
	StageFinalizing,
}

func (this Stage) String() string { return string(this) }
