package ui

// RepeatMode controls what happens when a track ends.
type RepeatMode uint8

const (
	RepeatOff RepeatMode = iota
	RepeatOne
)

var repeatNames = [...]string{"off", "one"}

// Next cycles to the following mode.
func (r RepeatMode) Next() RepeatMode {
	return (r + 1) % RepeatMode(len(repeatNames))
}

func (r RepeatMode) String() string {
	if int(r) < len(repeatNames) {
		return repeatNames[r]
	}
	return "off"
}

// Icon returns the status-line marker, empty when off.
func (r RepeatMode) Icon() string {
	if r == RepeatOne {
		return "[repeat]"
	}
	return ""
}
