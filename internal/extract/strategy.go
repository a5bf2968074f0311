package extract

import "runtime"

// Mode selects how clips are cut for a job. It is fixed once per job.
type Mode string

const (
	// ModeRemote invokes the transcoder directly against the resolved network
	// locators for every clip.
	ModeRemote Mode = "remote"

	// ModeDownload materializes the full asset to local temporary storage once
	// per job and cuts every clip from the local copy. Used where seeking into
	// remote HTTP streams is unreliable.
	ModeDownload Mode = "download"
)

// ResolveMode maps the configured mode string to a strategy. "auto" probes the
// execution environment once at startup instead of sniffing per clip.
// Parameters:
//   - configured: "remote", "download", or "auto".
// Returns:
//   - Mode: effective extraction strategy.
func ResolveMode(configured string) Mode {
	switch configured {
	case string(ModeRemote):
		return ModeRemote
	case string(ModeDownload):
		return ModeDownload
	default:
		return probeMode(runtime.GOOS, runtime.GOARCH)
	}
}

// probeMode returns the strategy for an OS/architecture pair. Remote seeking
// has been observed to stall on darwin/arm64, so those hosts download first.
func probeMode(goos, goarch string) Mode {
	if goos == "darwin" && goarch == "arm64" {
		return ModeDownload
	}
	return ModeRemote
}
