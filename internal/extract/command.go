package extract

import (
	"fmt"
)

// CutParams describes one transcoder invocation: seek into the input(s),
// cut a duration, re-base timestamps to zero, and write a single mp4.
type CutParams struct {
	VideoInput string
	AudioInput string // empty when the video input carries audio
	Start      float64
	End        float64
	OutputPath string
}

// CommandBuilder assembles the declarative ffmpeg argument list. The contract
// with the transcoder is exit code 0 plus a non-empty output file.
type CommandBuilder struct{}

// NewCommandBuilder creates a command builder.
func NewCommandBuilder() *CommandBuilder {
	return &CommandBuilder{}
}

// Cut builds the argv for one clip. The video track is copied to avoid
// re-encoding cost; audio is copied for combined inputs and re-encoded to aac
// when a separate audio stream has to be muxed in.
// Parameters:
//   - p: cut parameters.
// Returns:
//   - []string: ffmpeg arguments, excluding the binary name.
func (b *CommandBuilder) Cut(p CutParams) []string {
	args := []string{
		"-nostats", "-hide_banner", "-loglevel", "error",
		"-ss", fmt.Sprintf("%.6f", p.Start),
		"-i", p.VideoInput,
	}

	if p.AudioInput != "" {
		args = append(args,
			"-ss", fmt.Sprintf("%.6f", p.Start),
			"-i", p.AudioInput,
		)
	}

	args = append(args,
		"-t", fmt.Sprintf("%.6f", p.End-p.Start),
		"-avoid_negative_ts", "make_zero",
	)

	if p.AudioInput != "" {
		args = append(args,
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-c:v", "copy",
			"-c:a", "aac",
		)
	} else {
		args = append(args, "-c", "copy")
	}

	args = append(args,
		"-movflags", "+faststart",
		"-y",
		p.OutputPath,
	)

	return args
}
