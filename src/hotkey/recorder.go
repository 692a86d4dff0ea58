package hotkey

import "strings"

// Recorder is the state machine behind a hotkey input field.
// Begin enters recording; the next complete chord replaces the value.
// Bare modifiers keep recording; unknown keys, Cancel and focus loss revert.
type Recorder struct {
	value     Descriptor
	recording bool
}

func NewRecorder(initial Descriptor) *Recorder {
	return &Recorder{value: initial}
}

func (r *Recorder) Begin() { r.recording = true }

func (r *Recorder) Recording() bool { return r.recording }

func (r *Recorder) Cancel() { r.recording = false }

func (r *Recorder) Value() Descriptor { return r.value }

func (r *Recorder) Set(d Descriptor) {
	r.value = d
	r.recording = false
}

// Chord feeds one key press with the modifiers held at that time.
// It returns true when a new value was accepted.
func (r *Recorder) Chord(modifiers []string, key string) bool {
	if !r.recording {
		return false
	}
	if key == "" || IsModifier(key) {
		return false
	}
	parts := append(append([]string{}, modifiers...), key)
	d, err := Parse(strings.Join(parts, "+"))
	if err != nil {
		r.recording = false
		return false
	}
	r.value = d
	r.recording = false
	return true
}

// Text is what the input field shows.
func (r *Recorder) Text() string {
	if r.recording {
		return "Press a key combination..."
	}
	return r.value.Label()
}
