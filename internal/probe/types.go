package probe

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64
	Size       int64
	BitRate    int64
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index         int
	Codec         string
	Channels      int
	ChannelLayout string
	SampleRate    int
	BitRate       int64
}

// Result is the fully parsed output of a single ffprobe JSON call.
// PrimaryAudio is the first audio stream (nil if the file has none).
type Result struct {
	Format       FormatInfo
	PrimaryAudio *AudioStream
	AudioStreams []AudioStream
}

// Codec returns the primary audio stream's codec name, or "" when the file
// has no audio stream.
func (r *Result) Codec() string {
	if r.PrimaryAudio == nil {
		return ""
	}
	return r.PrimaryAudio.Codec
}

// Channels returns the primary audio stream's channel count, or 0 when
// unknown.
func (r *Result) Channels() int {
	if r.PrimaryAudio == nil {
		return 0
	}
	return r.PrimaryAudio.Channels
}

// AudioBitRate returns the primary audio stream bitrate in bits/sec, falling
// back to the container-level bitrate when the stream value is missing.
// Opus in Ogg commonly reports no stream-level bitrate, so the fallback is
// what makes the smart-skip check usable in practice.
func (r *Result) AudioBitRate() int64 {
	if r.PrimaryAudio != nil && r.PrimaryAudio.BitRate > 0 {
		return r.PrimaryAudio.BitRate
	}
	return r.Format.BitRate
}
