package domain

// ResolvedMedia is the normalized output of a provider lookup. It is never
// persisted; the runner holds it only for the lifetime of one job.
type ResolvedMedia struct {
	VideoLocator string
	AudioLocator string
	Title        string
	Resolution   string
}

// Combined reports whether video and audio are delivered as a single stream.
func (m *ResolvedMedia) Combined() bool {
	return m.AudioLocator == "" || m.AudioLocator == m.VideoLocator
}
