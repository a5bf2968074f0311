package extract

import "testing"

func TestResolveMode(t *testing.T) {
	if got := ResolveMode("remote"); got != ModeRemote {
		t.Errorf("ResolveMode(remote) = %s, want %s", got, ModeRemote)
	}
	if got := ResolveMode("download"); got != ModeDownload {
		t.Errorf("ResolveMode(download) = %s, want %s", got, ModeDownload)
	}
}

func TestProbeMode(t *testing.T) {
	testCases := []struct {
		goos   string
		goarch string
		want   Mode
	}{
		{goos: "darwin", goarch: "arm64", want: ModeDownload},
		{goos: "darwin", goarch: "amd64", want: ModeRemote},
		{goos: "linux", goarch: "arm64", want: ModeRemote},
		{goos: "linux", goarch: "amd64", want: ModeRemote},
	}

	for _, tc := range testCases {
		if got := probeMode(tc.goos, tc.goarch); got != tc.want {
			t.Errorf("probeMode(%s, %s) = %s, want %s", tc.goos, tc.goarch, got, tc.want)
		}
	}
}
