package timeline

import "errors"

// Rejections returned by editor operations. The document is left unchanged
// whenever one of these is returned.
var (
	ErrClipNotFound      = errors.New("clip not found")
	ErrTrackNotFound     = errors.New("track not found")
	ErrClipLocked        = errors.New("clip is locked")
	ErrTrackLocked       = errors.New("track is locked")
	ErrTrackIncompatible = errors.New("clip type not allowed on track")
	ErrInvalidTrim       = errors.New("trim would produce a non-positive duration")
	ErrInvalidSplit      = errors.New("split time outside clip span")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrCollision         = errors.New("clip placement rejected by collision policy")
)
