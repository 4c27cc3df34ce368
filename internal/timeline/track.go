package timeline

const (
	TrackTypeVideo = "video"
	TrackTypeAudio = "audio"
	TrackTypeMix   = "mix"
)

// Track is a named lane holding clips of a compatible kind.
type Track struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

// Accepts reports whether a clip of the given type may live on this track:
// video and image clips belong on video tracks, audio clips on audio tracks,
// text clips on mix tracks.
func (t Track) Accepts(clipType string) bool {
	switch t.Type {
	case TrackTypeVideo:
		return clipType == ClipTypeVideo || clipType == ClipTypeImage
	case TrackTypeAudio:
		return clipType == ClipTypeAudio
	case TrackTypeMix:
		return clipType == ClipTypeText
	default:
		return false
	}
}
