package diff

import "errors"

// ErrHunkConflict reports that a hunk does not match the content it is being
// applied to.
var ErrHunkConflict = errors.New("hunk does not apply to target content")

// CanApply reports whether the hunk's old side occurs in target at the
// hunk's recorded position. Text is compared verbatim, so a hunk computed
// with whitespace filtering may fail against content that differs only in
// hidden whitespace.
func (h Hunk) CanApply(target []string) bool {
	return matchesAt(target, h.OldStart, h.OldCount, h.oldSide())
}

// CanRevert reports whether the hunk's new side occurs in target at the
// hunk's recorded position.
func (h Hunk) CanRevert(target []string) bool {
	return matchesAt(target, h.NewStart, h.NewCount, h.newSide())
}

// Apply replaces the hunk's old side in target with its new side and returns
// the resulting lines. Target is not modified.
func (h Hunk) Apply(target []string) ([]string, error) {
	if !h.CanApply(target) {
		return nil, ErrHunkConflict
	}
	return splice(target, h.OldStart, h.OldCount, h.newSide()), nil
}

// Revert replaces the hunk's new side in target with its old side, undoing
// an applied hunk. Target is not modified.
func (h Hunk) Revert(target []string) ([]string, error) {
	if !h.CanRevert(target) {
		return nil, ErrHunkConflict
	}
	return splice(target, h.NewStart, h.NewCount, h.oldSide()), nil
}

func matchesAt(target []string, start, count int, side []string) bool {
	if count == 0 {
		return start >= 0 && start <= len(target)
	}
	if start < 1 || start-1+count > len(target) {
		return false
	}
	for i, text := range side {
		if target[start-1+i] != text {
			return false
		}
	}
	return true
}

func splice(target []string, start, count int, replacement []string) []string {
	at := start - 1
	if count == 0 {
		// start names the line preceding the insertion point
		at = start
	}
	out := make([]string, 0, len(target)-count+len(replacement))
	out = append(out, target[:at]...)
	out = append(out, replacement...)
	out = append(out, target[at+count:]...)
	return out
}
